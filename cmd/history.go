package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/filtering"
	"github.com/spigell/mock-interview/internal/session"
)

const (
	PromptOpenSummary       = "Show summary"
	PromptContinueInterview = "Continue interview"
	PromptDeleteInterview   = "Delete interview"
	PromptHistoryToFile     = "Dump history to file"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past interviews",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		return history(cmd.Context(), cmd, e)
	}),
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("status", filtering.StatusAll, "filter by status: all, completed, in-progress")
	historyCmd.Flags().String("mode", "", "filter by interview mode")
	historyCmd.Flags().String("role", "", "filter by job role substring")
	historyCmd.Flags().Int("delete", 0, "delete the interview with this id")
	historyCmd.Flags().Bool("dump", false, "write the listed interviews to a temporary json file")
	historyCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func history(ctx context.Context, cmd *cobra.Command, e *env) error {
	if err := requireIdentity(ctx, e); err != nil {
		return err
	}

	flags := cmd.Flags()
	status, _ := flags.GetString("status")
	mode, _ := flags.GetString("mode")
	role, _ := flags.GetString("role")
	deleteID, _ := flags.GetInt("delete")
	dump, _ := flags.GetBool("dump")
	yes, _ := flags.GetBool("yes")

	steps := filtering.Steps(filtering.Options{Status: status, Mode: mode, Role: role})
	for _, s := range filtering.Describe(steps) {
		if s.Enabled {
			e.logger.Debug("history filter", zap.String("name", s.Name), zap.Any("details", s.Details))
		}
	}

	list := session.NewHistory(e.client, e.logger)
	if err := list.Load(ctx); err != nil {
		return err
	}

	if deleteID > 0 {
		return deleteInterview(ctx, e, list, deleteID, yes)
	}

	filtered, err := filtering.Run(ctx, e.logger, steps, list.Items())
	if err != nil {
		return err
	}

	if dump {
		filename, err := filtered.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump history to file: %w", err)
		}
		e.logger.Info("dumping history to file", zap.String("filename", filename))
		e.println(filename)
		return nil
	}

	if filtered.Len() == 0 {
		e.println("No interviews found.")
		return nil
	}

	if !e.interactive {
		for _, label := range filtered.Labels() {
			e.println(label)
		}
		return nil
	}

	return browseHistory(ctx, e, list, steps)
}

func deleteInterview(ctx context.Context, e *env, list *session.History, id int, yes bool) error {
	ok, err := e.confirm(fmt.Sprintf("Delete interview %d? This cannot be undone", id), yes)
	if err != nil || !ok {
		return err
	}

	if err := list.Delete(ctx, id); err != nil {
		return err
	}

	e.printf("Interview %d deleted.\n", id)
	return nil
}

// browseHistory lets the user pick interviews from the filtered list until
// they go back.
func browseHistory(ctx context.Context, e *env, list *session.History, steps []filtering.Filter) error {
	for {
		filtered, err := filtering.Run(ctx, e.logger, steps, list.Items())
		if err != nil {
			return err
		}
		if filtered.Len() == 0 {
			e.println("No interviews left.")
			return nil
		}

		items := append(filtered.Labels(), PromptHistoryToFile, PromptBack)
		_, selected, err := e.choose("Choose an interview and press ENTER", items)
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptHistoryToFile:
			filename, err := filtered.DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("dump history to file: %w", err)
			}
			e.logger.Info("dumping history to file", zap.String("filename", filename))
			e.printf("History written to %s\n", filename)
		default:
			id, err := strconv.Atoi(strings.Split(selected, " ")[0])
			if err != nil {
				return fmt.Errorf("unexpected selection %q", selected)
			}
			chosen := filtered.FindByID(id)
			if chosen == nil {
				return fmt.Errorf("there is no such interview id %d", id)
			}
			if err := interviewActions(ctx, e, list, chosen); err != nil {
				return err
			}
		}
	}
}

func interviewActions(ctx context.Context, e *env, list *session.History, chosen *backend.Interview) error {
	items := []string{PromptOpenSummary}
	if !chosen.IsCompleted {
		items = append(items, PromptContinueInterview)
	}
	items = append(items, PromptDeleteInterview, PromptBack)

	_, action, err := e.choose(chosen.Label(), items)
	if err != nil {
		return err
	}

	switch action {
	case PromptOpenSummary:
		err = showSummary(ctx, e, chosen.ID)
	case PromptContinueInterview:
		err = runInterview(ctx, e, chosen.ID)
		if err == nil {
			// Completion state may have changed.
			err = list.Load(ctx)
		}
	case PromptDeleteInterview:
		err = deleteInterview(ctx, e, list, chosen.ID, false)
	}

	if err != nil {
		e.println(userMessage(err))
	}
	return nil
}
