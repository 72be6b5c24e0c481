// Package cli runs the exercises in a terminal: the same runner the server
// uses, with cues printed instead of streamed.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hperssn/unibalance/internal/config"
	"github.com/hperssn/unibalance/internal/storage"
)

var userFlag string

var rootCmd = &cobra.Command{
	Use:   "unibalance",
	Short: "Short wellness breaks for students",
	Long: `Unibalance runs guided breathing, eye and stretching breaks,
speed reading drills and trivia quizzes from the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", currentUser(), "User the history is kept for")
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "dev-user"
}

// openRepo opens the configured history store. The CLI keeps working
// without one.
func openRepo() storage.Repository {
	repo, err := storage.Open(config.Load())
	if err != nil {
		fmt.Println("⚠️ History disabled:", err)
		return nil
	}
	return repo
}

// choose prints numbered options and reads a 1-based pick from in.
func choose(in *bufio.Reader, options []string) (int, bool) {
	for i, o := range options {
		fmt.Printf("  %d) %s\n", i+1, o)
	}
	fmt.Print("> ")

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(options) {
		return -1, true
	}
	return n - 1, true
}
