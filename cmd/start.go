package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/interview"
	"github.com/spigell/mock-interview/internal/logger"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new mock interview",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		return start(cmd.Context(), cmd, e)
	}),
}

func init() {
	rootCmd.AddCommand(startCmd)

	presets := make([]string, 0, len(interview.Presets))
	for _, p := range interview.Presets {
		presets = append(presets, p.Name)
	}

	startCmd.Flags().IntP("profile", "p", 0, "profile id (prompted when omitted)")
	startCmd.Flags().StringP("role", "r", "", "job role to interview for")
	startCmd.Flags().String("description", "", "job description")
	startCmd.Flags().StringP("mode", "m", interview.DefaultMode, "interview mode: "+strings.Join(backend.Modes, ", "))
	startCmd.Flags().Int("duration", interview.DefaultDuration, fmt.Sprintf("duration in minutes (%d-%d)", interview.MinDuration, interview.MaxDuration))
	startCmd.Flags().String("preset", "", "quick start preset: "+strings.Join(presets, ", "))
	startCmd.Flags().Bool("detach", false, "only create the interview, do not enter it")
}

func start(ctx context.Context, cmd *cobra.Command, e *env) error {
	if err := requireIdentity(ctx, e); err != nil {
		return err
	}

	flags := cmd.Flags()
	profileID, _ := flags.GetInt("profile")
	role, _ := flags.GetString("role")
	description, _ := flags.GetString("description")
	mode, _ := flags.GetString("mode")
	duration, _ := flags.GetInt("duration")
	presetName, _ := flags.GetString("preset")
	detach, _ := flags.GetBool("detach")

	if presetName != "" {
		preset, ok := interview.FindPreset(presetName)
		if !ok {
			return fmt.Errorf("unknown preset %q", presetName)
		}
		// Explicit flags win over the preset.
		if !flags.Changed("role") {
			role = preset.JobRole
		}
		if !flags.Changed("mode") {
			mode = preset.Mode
		}
		if !flags.Changed("duration") {
			duration = preset.DurationMinutes
		}
	}

	profile, err := selectProfile(ctx, e, profileID)
	if err != nil {
		return err
	}

	if role, err = e.ask("Job role", role, func(s string) error {
		return interview.StartRequest{Profile: profile, JobRole: s, Mode: interview.DefaultMode, DurationMinutes: interview.DefaultDuration}.Validate()
	}); err != nil {
		return err
	}

	if e.interactive && presetName == "" && !flags.Changed("mode") {
		if _, mode, err = e.choose("Interview mode", backend.Modes); err != nil {
			return err
		}
	}

	if e.interactive && presetName == "" && !flags.Changed("duration") {
		value, err := e.edit("Duration in minutes", strconv.Itoa(duration))
		if err != nil {
			return err
		}
		if duration, err = strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return interview.ErrInvalidDuration
		}
	}

	created, err := interview.Start(ctx, e.client, interview.StartRequest{
		Profile:         profile,
		JobRole:         role,
		JobDescription:  description,
		Mode:            mode,
		DurationMinutes: duration,
	})
	if err != nil {
		return err
	}

	e.logger.Info("interview created",
		append(logger.InterviewFields(created.ID, 0),
			zap.String("job_role", created.JobRole),
			zap.String("mode", created.InterviewMode),
		)...,
	)
	e.printf("Interview %d created.\n", created.ID)

	if detach || !e.interactive {
		e.printf("Continue with `%s interview %d`.\n", app, created.ID)
		return nil
	}

	return runInterview(ctx, e, created.ID)
}

// selectProfile fetches the profile by id or lets the user pick one.
func selectProfile(ctx context.Context, e *env, id int) (*backend.Profile, error) {
	if id > 0 {
		profile, err := e.client.GetProfile(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get profile %d: %w", id, err)
		}
		return profile, nil
	}

	profiles, err := e.client.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if profiles.Len() == 0 {
		return nil, fmt.Errorf("%w; create one with `%s profile create`", interview.ErrNoProfileSelected, app)
	}
	if !e.interactive {
		return nil, fmt.Errorf("%w; pass --profile", interview.ErrNoProfileSelected)
	}

	idx, _, err := e.choose("Choose a profile and press ENTER", profiles.Labels())
	if err != nil {
		return nil, err
	}

	return profiles.Items[idx], nil
}
