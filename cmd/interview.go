package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/interview"
	"github.com/spigell/mock-interview/internal/voice"
)

const (
	PromptAnswer       = "Type an answer"
	PromptVoiceAnswer  = "Record an answer"
	PromptNextQuestion = "Next question"
	PromptFinish       = "Finish interview"
	PromptQuit         = "Quit (continue later)"
)

var interviewCmd = &cobra.Command{
	Use:   "interview <id>",
	Short: "Enter an interview session",
	Long: `Enter an interview session. On a terminal the session is interactive.
With --answer, --next or --finish a single step is performed and the current
state is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireIdentity(cmd.Context(), e); err != nil {
			return err
		}

		answer, _ := cmd.Flags().GetString("answer")
		next, _ := cmd.Flags().GetBool("next")
		finish, _ := cmd.Flags().GetBool("finish")

		if cmd.Flags().Changed("answer") || next || finish {
			return interviewStep(cmd.Context(), e, id, answer, cmd.Flags().Changed("answer"), next, finish)
		}
		if !e.interactive {
			return errors.New("an interactive terminal is required; use --answer, --next or --finish")
		}

		return runInterview(cmd.Context(), e, id)
	}),
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().String("answer", "", "submit an answer to the current question")
	interviewCmd.Flags().Bool("next", false, "ask for the next question")
	interviewCmd.Flags().Bool("finish", false, "finish the interview and show the summary")
}

func printQuestion(e *env, c *interview.Controller) {
	st := c.Store().Snapshot()
	if st.Interview == nil {
		return
	}

	q := st.Interview.CurrentQuestion()
	if q == nil {
		e.println("No open question. Ask for the next one or finish the interview.")
		return
	}

	number := 0
	for idx, item := range st.Interview.Questions {
		if item.ID == q.ID {
			number = idx + 1
		}
	}

	e.printf("\nQuestion %d (%s):\n%s\n\n", number, q.QuestionType, q.QuestionText)
}

// interviewStep performs one non-interactive action on an interview.
func interviewStep(ctx context.Context, e *env, id int, answer string, hasAnswer, next, finish bool) error {
	c := interview.NewController(e.client, id, e.logger)
	if err := c.Load(ctx); err != nil {
		return err
	}

	if hasAnswer {
		if err := c.Submit(ctx, answer); err != nil {
			return err
		}
		e.println("Answer recorded.")
	}

	// Submit already asks for the next question, and so does Load when none
	// is open, so an outstanding question here is the one --next wanted.
	if next && !hasAnswer {
		err := c.NextQuestion(ctx)
		switch {
		case errors.Is(err, interview.ErrQuestionOutstanding):
			e.logger.Debug("next question already open", zap.Error(err))
		case err != nil:
			return err
		}
	}

	if finish {
		c.Finish(ctx)
		return showSummary(ctx, e, id)
	}

	if c.Phase() == interview.Completed {
		e.println("This interview is completed.")
		return showSummary(ctx, e, id)
	}

	printQuestion(e, c)
	return nil
}

// runInterview is the interactive session loop.
func runInterview(ctx context.Context, e *env, id int) error {
	c := interview.NewController(e.client, id, e.logger)

	// The speech client is created on the first recording.
	var capture voice.Capture
	defer func() {
		if capture != nil {
			_ = capture.Close()
		}
	}()

	e.println("Loading interview...")
	if err := c.Load(ctx); err != nil {
		if c.Phase() == interview.Loading {
			return err
		}
		e.println(userMessage(err))
	}

	snapshot := c.Store().Snapshot()
	e.printf("Interview %d: %s / %s / %d min\n", id, snapshot.Interview.JobRole, snapshot.Interview.InterviewMode, snapshot.Interview.DurationMinutes)

	for {
		if c.Phase() == interview.Completed {
			e.println("This interview is completed.")
			return showSummary(ctx, e, id)
		}

		printQuestion(e, c)

		items := []string{PromptAnswer, PromptVoiceAnswer, PromptNextQuestion, PromptFinish, PromptQuit}
		if c.CurrentQuestion() == nil {
			items = []string{PromptNextQuestion, PromptFinish, PromptQuit}
		}

		_, action, err := e.choose("What next?", items)
		if err != nil {
			return err
		}

		switch action {
		case PromptAnswer:
			answer, err := e.edit("Your answer", "")
			if err != nil {
				return err
			}
			submit(ctx, e, c, answer)
		case PromptVoiceAnswer:
			if capture == nil {
				capture = newCapture(ctx, e)
			}
			answer, ok := recordAnswer(ctx, e, c, capture)
			if ok {
				submit(ctx, e, c, answer)
			}
		case PromptNextQuestion:
			e.println("Generating the next question...")
			if err := c.NextQuestion(ctx); err != nil {
				e.println(userMessage(err))
			}
		case PromptFinish:
			ok, err := e.confirm("Finish the interview and see the feedback?", false)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			c.Finish(ctx)
			return showSummary(ctx, e, id)
		case PromptQuit:
			e.printf("Continue later with `%s interview %d`.\n", app, id)
			return nil
		}
	}
}

func submit(ctx context.Context, e *env, c *interview.Controller, answer string) {
	e.println("Submitting...")
	if err := c.Submit(ctx, answer); err != nil {
		e.println(userMessage(err))
	}
}

func newCapture(ctx context.Context, e *env) voice.Capture {
	capture := voice.New(ctx, *e.config.Voice, e.logger)

	if r, ok := capture.(*voice.Recognizer); ok {
		r.OnUpdate = func(interim, transcript string) {
			// Live transcript on stderr; stdout stays with the prompt.
			fmt.Fprintf(os.Stderr, "\r\033[K%s", strings.TrimSpace(transcript+" "+interim))
		}
	}

	return capture
}

// recordAnswer records until the user presses ENTER and lets them edit the
// transcript. It reports false when there is nothing to submit.
func recordAnswer(ctx context.Context, e *env, c *interview.Controller, capture voice.Capture) (string, bool) {
	if !capture.Supported() {
		reason := "not supported here"
		if u, ok := capture.(voice.Unsupported); ok && u.Reason != "" {
			reason = u.Reason
		}
		e.printf("Voice input is unavailable (%s). Please type your answer instead.\n", reason)
		return "", false
	}

	capture.Reset()
	if err := capture.Start(ctx); err != nil {
		e.println(userMessage(err))
		return "", false
	}
	c.Store().SetRecording(true)

	e.println("Recording... press ENTER to stop.")
	stop := promptui.Prompt{Label: "Recording"}
	_, promptErr := stop.Run()

	err := capture.Stop()
	c.Store().SetRecording(false)
	fmt.Fprintln(os.Stderr)

	if promptErr != nil {
		return "", false
	}
	if err != nil {
		e.logger.Warn("voice recognition failed", zap.Error(err))
		e.println(userMessage(err))
	}

	transcript := capture.Transcript()
	capture.Reset()
	if strings.TrimSpace(transcript) == "" {
		e.println("Nothing was recognized. Try again or type your answer.")
		return "", false
	}

	answer, err := e.edit("Your answer", transcript)
	if err != nil {
		return "", false
	}
	return answer, true
}
