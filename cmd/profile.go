package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/logger"
	"github.com/spigell/mock-interview/internal/utils"
)

const resumePreviewLength = 400

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage candidate profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		if err := requireIdentity(cmd.Context(), e); err != nil {
			return err
		}

		profiles, err := e.client.ListProfiles(cmd.Context())
		if err != nil {
			return fmt.Errorf("list profiles: %w", err)
		}

		if profiles.Len() == 0 {
			e.println("No profiles yet. Create one with `" + app + " profile create`.")
			return nil
		}
		for _, label := range profiles.Labels() {
			e.println(label)
		}
		return nil
	}),
}

var profileShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a profile",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireIdentity(cmd.Context(), e); err != nil {
			return err
		}

		profile, err := e.client.GetProfile(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get profile %d: %w", id, err)
		}

		printProfile(e, profile)
		return nil
	}),
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a profile",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		return createProfile(cmd.Context(), cmd, e)
	}),
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return updateProfile(cmd.Context(), cmd, e, id)
	}),
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireIdentity(cmd.Context(), e); err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		ok, err := e.confirm(fmt.Sprintf("Delete profile %d?", id), yes)
		if err != nil || !ok {
			return err
		}

		if err := e.client.DeleteProfile(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete profile %d: %w", id, err)
		}

		e.logger.Info("profile deleted", logger.IntFields(logger.IntField{Key: logger.FieldProfileID, Value: id})...)
		e.printf("Profile %d deleted.\n", id)
		return nil
	}),
}

var profileUploadCmd = &cobra.Command{
	Use:   "upload-resume <file>",
	Short: "Extract text from a resume document (.pdf, .docx, .doc)",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		if err := requireIdentity(cmd.Context(), e); err != nil {
			return err
		}

		upload, err := uploadResume(cmd.Context(), e, args[0])
		if err != nil {
			return err
		}

		e.printf("%s\n\n%s\n", upload.Message, utils.TruncateForLog(upload.ResumeContent, resumePreviewLength))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileCreateCmd, profileUpdateCmd, profileDeleteCmd, profileUploadCmd)

	for _, c := range []*cobra.Command{profileCreateCmd, profileUpdateCmd} {
		c.Flags().StringP("name", "n", "", "full name")
		c.Flags().StringP("role", "r", "", "career role")
		c.Flags().StringP("skills", "s", "", "skills, free text")
		c.Flags().String("resume-file", "", "resume document to extract text from (.pdf, .docx, .doc)")
	}
	profileUpdateCmd.Flags().Bool("clear-resume", false, "remove the stored resume text")
	profileDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func printProfile(e *env, p *backend.Profile) {
	e.printf("id: %d\nname: %s\nrole: %s\nskills: %s\n", p.ID, p.FullName, p.CareerRole, p.Skills)
	if p.ResumeFileName != "" {
		e.printf("resume file: %s\n", p.ResumeFileName)
	}
	if strings.TrimSpace(p.ResumeContent) == "" {
		e.println("resume: none")
		return
	}
	e.printf("resume:\n%s\n", utils.TruncateForLog(p.ResumeContent, resumePreviewLength))
}

func uploadResume(ctx context.Context, e *env, path string) (*backend.ResumeUpload, error) {
	if err := backend.CheckResumeFile(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	upload, err := e.client.UploadResume(ctx, path, file)
	if err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	e.logger.Debug("resume extracted", zap.String("filename", upload.Filename), zap.Int("length", len(upload.ResumeContent)))
	return upload, nil
}

func createProfile(ctx context.Context, cmd *cobra.Command, e *env) error {
	if err := requireIdentity(ctx, e); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	skills, _ := cmd.Flags().GetString("skills")
	resumeFile, _ := cmd.Flags().GetString("resume-file")

	var err error
	if name, err = e.ask("Full name", name, required("full name")); err != nil {
		return err
	}
	if role, err = e.ask("Career role", role, required("career role")); err != nil {
		return err
	}
	if skills, err = e.ask("Skills", skills, required("skills")); err != nil {
		return err
	}

	create := backend.ProfileCreate{FullName: name, CareerRole: role, Skills: skills}
	if resumeFile != "" {
		upload, err := uploadResume(ctx, e, resumeFile)
		if err != nil {
			return err
		}
		create.ResumeContent = upload.ResumeContent
		create.ResumeFileName = upload.Filename
	}

	profile, err := e.client.CreateProfile(ctx, create)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	e.logger.Info("profile created", logger.IntFields(logger.IntField{Key: logger.FieldProfileID, Value: profile.ID})...)
	e.printf("Profile %d created.\n", profile.ID)
	return nil
}

func updateProfile(ctx context.Context, cmd *cobra.Command, e *env, id int) error {
	if err := requireIdentity(ctx, e); err != nil {
		return err
	}

	var update backend.ProfileUpdate
	flags := cmd.Flags()

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		v = strings.TrimSpace(v)
		return &v
	}

	update.FullName = stringFlag("name")
	update.CareerRole = stringFlag("role")
	update.Skills = stringFlag("skills")

	if resumeFile, _ := flags.GetString("resume-file"); resumeFile != "" {
		upload, err := uploadResume(ctx, e, resumeFile)
		if err != nil {
			return err
		}
		update.ResumeContent = &upload.ResumeContent
	} else if clearResume, _ := flags.GetBool("clear-resume"); clearResume {
		empty := ""
		update.ResumeContent = &empty
	}

	if update == (backend.ProfileUpdate{}) {
		return fmt.Errorf("nothing to update; pass at least one of --name, --role, --skills, --resume-file, --clear-resume")
	}

	profile, err := e.client.UpdateProfile(ctx, id, update)
	if err != nil {
		return fmt.Errorf("update profile %d: %w", id, err)
	}

	printProfile(e, profile)
	return nil
}
