package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jobreach/jobreach/internal/gateway"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate usage statistics",
	Run: func(_ *cobra.Command, _ []string) {
		e := mustSetup()

		// Stats and the resume list are independent; fetch them in
		// parallel and give up if either fails.
		g, ctx := errgroup.WithContext(context.Background())

		var stats gateway.Stats
		var records []gateway.ResumeRecord

		g.Go(func() error {
			var err error
			stats, err = e.client.GetStats(ctx, e.userID)
			return err
		})
		g.Go(func() error {
			var err error
			records, err = e.client.ListResumes(ctx, e.userID)
			return err
		})

		if err := g.Wait(); err != nil {
			e.logger.Fatal("loading dashboard data", zap.Error(err))
		}

		fmt.Printf("Resumes:        %d\n", stats.TotalResumes)
		fmt.Printf("Analyses:       %d\n", stats.TotalMatches)
		fmt.Printf("Average match:  %d%%\n", scorePercent(stats.AvgMatchScore))
		fmt.Printf("Contacts found: %d\n", stats.TotalContacts)

		for _, r := range records {
			if r.IsDefault {
				fmt.Printf("Default resume: %s\n", r.FileName)
				break
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
