package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
	"github.com/jobreach/jobreach/internal/logger"
	"github.com/jobreach/jobreach/internal/matching"
)

const (
	PromptLoadMore = "Load more"
	PromptFilter   = "Filter"
	PromptExit     = "Exit"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past job analyses",
	Run: func(cmd *cobra.Command, _ []string) {
		runHistory(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("search", "", "filter fetched matches by job description or resume name")
	historyCmd.Flags().Bool("all", false, "fetch every page before printing")
}

func runHistory(cmd *cobra.Command) {
	e := mustSetup()
	ctx := context.Background()

	hist := matching.NewHistory(e.client, e.logger, e.historyPageSize())

	if err := hist.LoadPage(ctx, e.userID, 1); err != nil {
		e.logger.Fatal("loading history", zap.Error(err))
	}

	if cmd.Flag("all").Value.String() == "true" {
		for hist.HasMore() {
			if err := hist.LoadMore(ctx, e.userID); err != nil && !errors.Is(err, matching.ErrLoadInFlight) {
				e.logger.Fatal("loading history page", zap.Error(err))
			}
		}
	}

	term := cmd.Flag("search").Value.String()
	printHistory(hist.Filter(term), term)

	// Interactive load-more loop. Filtering only sees fetched pages.
	for hist.HasMore() {
		prompt := promptui.Select{
			Label: "More analyses available",
			Items: []string{PromptLoadMore, PromptFilter, PromptExit},
		}
		_, action, err := prompt.Run()
		if err != nil {
			return
		}

		switch action {
		case PromptLoadMore:
			if err := hist.LoadMore(ctx, e.userID); err != nil && !errors.Is(err, matching.ErrLoadInFlight) {
				e.logger.Fatal("loading history page", zap.Error(err))
			}
			printHistory(hist.Filter(term), term)
		case PromptFilter:
			input := promptui.Prompt{Label: "Search term"}
			value, err := input.Run()
			if err != nil {
				return
			}
			term = value
			printHistory(hist.Filter(term), term)
		case PromptExit:
			return
		}
	}
}

func printHistory(items []gateway.MatchResult, term string) {
	if len(items) == 0 {
		if term != "" {
			fmt.Printf("no fetched analyses match %q\n", term)
		} else {
			fmt.Println("no job analyses yet")
		}
		return
	}

	for _, m := range items {
		feedback := ""
		switch m.FeedbackScore {
		case 1:
			feedback = " 👍"
		case -1:
			feedback = " 👎"
		}
		fmt.Printf("%6d  %3d%%  %-30s %s%s\n",
			m.ID,
			scorePercent(m.BestResume.Score),
			m.BestResume.FileName,
			logger.TruncateForLog(m.JobDescription, 60),
			feedback,
		)
	}
}
