package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
	"github.com/jobreach/jobreach/internal/resumes"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Manage the uploaded resume library",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded resumes",
	Run: func(_ *cobra.Command, _ []string) {
		e := mustSetup()

		orch := resumes.New(e.client, e.logger)
		if err := orch.Load(context.Background(), e.userID); err != nil {
			e.logger.Fatal("loading resumes", zap.Error(err))
		}

		snap := orch.Snapshot()
		if len(snap.Resumes) == 0 {
			fmt.Println("no resumes uploaded yet")
			return
		}

		for _, r := range snap.Resumes {
			marker := " "
			if r.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %6d  %s\n", marker, r.ID, r.FileName)
		}
	},
}

var resumesUploadCmd = &cobra.Command{
	Use:   "upload <file> [file...]",
	Short: "Upload one or more resume documents",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		e := mustSetup()

		files := make([]gateway.UploadFile, 0, len(args))
		handles := make([]*os.File, 0, len(args))
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				e.logger.Fatal("opening file", zap.String("path", path), zap.Error(err))
			}
			handles = append(handles, f)
			files = append(files, gateway.UploadFile{
				Name:   filepath.Base(path),
				Reader: f,
			})
		}
		defer func() {
			for _, f := range handles {
				f.Close()
			}
		}()

		orch := resumes.New(e.client, e.logger)
		// Final states are printed below; no transient view to expire.
		orch.ClearDelay = 0

		result := orch.Upload(context.Background(), e.userID, files)

		for _, task := range orch.Snapshot().Tasks {
			if task.Status == resumes.TaskError {
				fmt.Printf("✗ %s: %s\n", task.FileName, task.Err)
				continue
			}
			fmt.Printf("✓ %s\n", task.FileName)
		}
		fmt.Printf("%d succeeded, %d failed\n", result.Succeeded, result.Failed)
	},
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := mustSetup()
		id := mustParseID(e.logger, args[0])

		if cmd.Flag("yes").Value.String() == "false" {
			prompt := promptui.Select{
				Label: fmt.Sprintf("Delete resume %d?", id),
				Items: []string{"Yes", "No"},
			}
			_, answer, err := prompt.Run()
			if err != nil || answer != "Yes" {
				return
			}
		}

		orch := resumes.New(e.client, e.logger)
		if err := orch.Delete(context.Background(), e.userID, id); err != nil {
			e.logger.Fatal("deleting resume", zap.Int64("id", id), zap.Error(err))
		}

		fmt.Println("resume deleted")
	},
}

var resumesSetDefaultCmd = &cobra.Command{
	Use:   "set-default <id>",
	Short: "Mark a resume as the default",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		e := mustSetup()
		id := mustParseID(e.logger, args[0])

		orch := resumes.New(e.client, e.logger)
		if err := orch.SetDefault(context.Background(), e.userID, id); err != nil {
			e.logger.Fatal("setting default resume", zap.Int64("id", id), zap.Error(err))
		}

		fmt.Println("default resume updated")
	},
}

func init() {
	rootCmd.AddCommand(resumesCmd)
	resumesCmd.AddCommand(resumesListCmd)
	resumesCmd.AddCommand(resumesUploadCmd)
	resumesCmd.AddCommand(resumesDeleteCmd)
	resumesCmd.AddCommand(resumesSetDefaultCmd)

	resumesDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func mustSetup() *env {
	e, err := setup()
	if err != nil {
		// No logger yet when setup itself failed.
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
		os.Exit(1)
	}

	return e
}

func mustParseID(logger *zap.Logger, raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Fatal("invalid resume id", zap.String("value", raw))
	}

	return id
}
