package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/hperssn/unibalance/internal/media"
)

// maxClipBytes caps an uploaded clip. A minute of phone video fits well
// inside it.
const maxClipBytes = 512 << 20

func (s *Server) recorder(r *http.Request) *media.Recorder {
	return s.studio.For(GetUserID(r))
}

func (s *Server) getRecording(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.recorder(r).Snapshot(), http.StatusOK)
}

func (s *Server) startRecording(w http.ResponseWriter, r *http.Request) {
	var perms media.Permissions
	if err := decodeJSON(r, &perms); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := s.recorder(r).Start(perms)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, rec, http.StatusOK)
}

func (s *Server) stopRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recorder(r).Stop()
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, rec, http.StatusOK)
}

// saveRecording takes the raw clip as the request body. The media library
// grant comes in the mediaLibrary query parameter.
func (s *Server) saveRecording(w http.ResponseWriter, r *http.Request) {
	perms := media.Permissions{
		Camera:       true,
		Microphone:   true,
		MediaLibrary: r.URL.Query().Get("mediaLibrary") == "true",
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}

	body := &clipBody{r: http.MaxBytesReader(w, r.Body, s.maxClipBytes)}
	rec, err := s.recorder(r).Save(r.Context(), s.album, perms, body, r.ContentLength, contentType)
	if err != nil {
		if body.tooBig != nil {
			err = fmt.Errorf("clip larger than %d bytes: %w", body.tooBig.Limit, body.tooBig)
		}
		respondErr(w, err)
		return
	}
	respondJSON(w, rec, http.StatusOK)
}

// clipBody remembers hitting the upload cap, since album backends do not
// all keep the read error in their chain.
type clipBody struct {
	r      io.Reader
	tooBig *http.MaxBytesError
}

func (b *clipBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		b.tooBig = tooBig
	}
	return n, err
}

func (s *Server) resetRecording(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.recorder(r).Reset(), http.StatusOK)
}

func (s *Server) getClip(w http.ResponseWriter, r *http.Request) {
	rec := s.recorder(r).Snapshot()
	if rec.State != media.StateSaved {
		respondError(w, "no saved clip", http.StatusNotFound)
		return
	}

	name := s.recorder(r).Clip()
	if name == "" {
		name = path.Base(rec.Location)
	}
	rc, err := s.album.Open(r.Context(), name)
	if err != nil {
		respondErr(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc)
}

func (s *Server) discardClip(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recorder(r).Discard(r.Context(), s.album)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, rec, http.StatusOK)
}
