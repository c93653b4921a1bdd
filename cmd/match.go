package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
	"github.com/jobreach/jobreach/internal/matching"
)

const (
	PromptHelpful    = "Helpful"
	PromptNotHelpful = "Not helpful"
	PromptSkip       = "Skip"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Analyze a job posting against your resume library",
	Long: "Reads a job description from --file or stdin, asks the backend for the " +
		"best resume match and then looks up people at the target company.",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("file", "f", "", "file containing the job description (default is stdin)")
	matchCmd.Flags().StringP("story", "s", "", "optional personal context woven into the outreach email")
	matchCmd.Flags().Bool("no-feedback", false, "do not prompt for feedback after the results")
}

func runMatch(cmd *cobra.Command) {
	e := mustSetup()
	ctx := context.Background()

	jobDescription, err := readJobDescription(cmd.Flag("file").Value.String())
	if err != nil {
		e.logger.Fatal("reading job description", zap.Error(err))
	}
	personalStory := cmd.Flag("story").Value.String()

	orch := matching.New(e.client, e.logger)

	if err := orch.FindMatch(ctx, e.userID, jobDescription, personalStory); err != nil {
		if gateway.IsValidation(err) {
			e.logger.Fatal("job description is empty", zap.String("hint", "pass --file or pipe the posting to stdin"))
		}
		e.logger.Fatal("finding a match", zap.Error(err))
	}

	// Stage two runs in the background; wait for it before rendering.
	snap := orch.AwaitContacts(ctx)
	printMatch(snap)

	if cmd.Flag("no-feedback").Value.String() == "true" {
		return
	}

	prompt := promptui.Select{
		Label: "Was this match helpful?",
		Items: []string{PromptHelpful, PromptNotHelpful, PromptSkip},
	}
	_, answer, err := prompt.Run()
	if err != nil || answer == PromptSkip {
		return
	}

	score := 1
	if answer == PromptNotHelpful {
		score = -1
	}

	if err := orch.SubmitFeedback(ctx, e.userID, score); err != nil {
		e.logger.Warn("feedback not recorded", zap.Error(err))
		return
	}

	fmt.Println("thanks, feedback recorded")
}

func readJobDescription(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func printMatch(snap matching.Snapshot) {
	match := snap.Match
	if match == nil {
		return
	}

	fmt.Printf("\nBest resume: %s (%d%% match)\n", match.BestResume.FileName, scorePercent(match.BestResume.Score))

	if len(match.GapAnalysis) > 0 {
		fmt.Println("\nGap analysis:")
		for i, suggestion := range match.GapAnalysis {
			fmt.Printf("  %d. %s\n", i+1, suggestion)
		}
	}

	if match.EmailDraft != "" {
		fmt.Println("\nOutreach email draft:")
		fmt.Println(match.EmailDraft)
	}

	printContacts(snap)
}

func printContacts(snap matching.Snapshot) {
	if snap.Phase == matching.PhaseContactsFailed {
		fmt.Printf("\nContacts: lookup failed (%s), the match above is still valid\n", snap.ContactsErr)
		return
	}

	if len(snap.Contacts) == 0 {
		fmt.Println("\nContacts: none found for this company")
		return
	}

	fmt.Printf("\nContacts (%d):\n", len(snap.Contacts))
	for _, c := range snap.Contacts {
		line := fmt.Sprintf("  %s (%s, %s, %d%% relevant)", c.Name, c.Role, c.Company, scorePercent(c.MutualScore))
		if c.LinkedinURL != "" {
			line += " " + c.LinkedinURL
		}
		fmt.Println(line)
	}
}

func scorePercent(score float64) int {
	return int(math.Round(score * 100))
}
