package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spigell/mock-interview/internal/interview"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Show questions, answers and feedback of an interview",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireIdentity(cmd.Context(), e); err != nil {
			return err
		}
		return showSummary(cmd.Context(), e, id)
	}),
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func showSummary(ctx context.Context, e *env, id int) error {
	e.println("Preparing feedback...")

	summary, err := interview.LoadSummary(ctx, e.client, id)
	if err != nil {
		return err
	}

	i := summary.Interview
	e.printf("\nInterview %d: %s / %s / %d min / %s\n", i.ID, i.JobRole, i.InterviewMode, i.DurationMinutes, i.Status())
	e.printf("started: %s  completed: %s\n", i.StartedAt, i.CompletedAt)

	if len(summary.Items) == 0 {
		e.println("\nNo questions were asked in this interview.")
		return nil
	}

	for _, item := range summary.Items {
		e.printf("\n%d. %s\n", item.Number, item.Question)
		e.printf("   Answer: %s\n", item.Answer)
		e.printf("   Feedback: %s\n", item.Feedback)
	}

	return nil
}
