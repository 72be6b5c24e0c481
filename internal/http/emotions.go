package httpapi

import (
	"net/http"
	"strconv"

	"github.com/hperssn/unibalance/internal/content"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/scoring"
)

const simulatedDays = 14

func (s *Server) listEmotions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"emotions":  content.Emotions(),
		"resources": content.Resources(),
	}, http.StatusOK)
}

type checkInResponse struct {
	CheckIn   domain.CheckIn     `json:"checkIn"`
	Emotion   content.Emotion    `json:"emotion"`
	Action    string             `json:"action"`
	Resources []content.Resource `json:"resources,omitempty"`
}

// checkIn stores a self-report. Critical emotions point the user to the
// counselling line, the others to the resource list.
func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Emotion string `json:"emotion"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	e, ok := content.EmotionByKey(req.Emotion)
	if !ok {
		respondError(w, "unknown emotion", http.StatusBadRequest)
		return
	}

	c := domain.NewCheckIn(GetUserID(r), e.Key, s.now())
	if s.repo != nil {
		if err := s.repo.SaveCheckIn(c); err != nil {
			respondErr(w, err)
			return
		}
	}

	resp := checkInResponse{CheckIn: c, Emotion: e, Action: "see-resources"}
	if e.Critical {
		resp.Action = "call-counseling"
		resp.Resources = content.Resources()
	}
	respondJSON(w, resp, http.StatusCreated)
}

// emotionChart charts the last 7 or 14 days. With simulate=true it invents
// a fortnight of check-ins instead of reading the stored ones.
func (s *Server) emotionChart(w http.ResponseWriter, r *http.Request) {
	period := 7
	if v := r.URL.Query().Get("period"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || (p != 7 && p != 14) {
			respondError(w, "period must be 7 or 14", http.StatusBadRequest)
			return
		}
		period = p
	}

	now := s.now()
	userID := GetUserID(r)

	var checkIns []domain.CheckIn
	if r.URL.Query().Get("simulate") == "true" {
		s.rngMu.Lock()
		checkIns = scoring.FabricateCheckIns(s.rng, userID, now, simulatedDays)
		s.rngMu.Unlock()
	} else if s.repo != nil {
		since := now.AddDate(0, 0, -period)
		var err error
		checkIns, err = s.repo.GetCheckIns(userID, since)
		if err != nil {
			respondErr(w, err)
			return
		}
	}

	respondJSON(w, scoring.BuildChart(checkIns, now, period), http.StatusOK)
}
