package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/identity"
	"github.com/spigell/mock-interview/internal/logger"
	"github.com/spigell/mock-interview/internal/secrets"
)

const (
	passwordEnv = "MOCK_INTERVIEW_PASSWORD"

	PromptLogin  = "Log in"
	PromptGuest  = "Continue as guest"
	PromptCancel = "Cancel"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		return login(cmd.Context(), cmd, e)
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		return register(cmd.Context(), cmd, e)
	}),
}

var guestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Continue with a temporary guest account",
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		return guest(cmd.Context(), e)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the local identity",
	RunE: withEnv(func(_ *cobra.Command, _ []string, e *env) error {
		if err := e.identity.Clear(); err != nil {
			return err
		}
		e.println("Logged out.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
		return whoami(cmd.Context(), e)
	}),
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, guestCmd, logoutCmd, whoamiCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringP("email", "e", "", "account email")
		c.Flags().String("password", "", "account password (prefer --password-file or "+passwordEnv+")")
		c.Flags().String("password-file", "", "file containing the account password")
	}

	registerCmd.Flags().StringP("username", "u", "", "account username")
	registerCmd.Flags().String("full-name", "", "full name")
}

// credentials collects the email and password from flags, the environment or prompts.
func credentials(cmd *cobra.Command, e *env) (backend.Credentials, error) {
	var flagEmail, flagPassword, flagPasswordFile string
	if cmd != nil && cmd.Flags().Lookup("email") != nil {
		flagEmail, _ = cmd.Flags().GetString("email")
		flagPassword, _ = cmd.Flags().GetString("password")
		flagPasswordFile, _ = cmd.Flags().GetString("password-file")
	}

	email, err := e.ask("Email", flagEmail, required("email"))
	if err != nil {
		return backend.Credentials{}, err
	}

	password, err := secrets.Load(secrets.Source{
		Name:  "password",
		Value: flagPassword,
		Env:   passwordEnv,
		File:  flagPasswordFile,
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		password, err = e.askSecret("Password")
	}
	if err != nil {
		return backend.Credentials{}, err
	}

	return backend.Credentials{Email: email, Password: password}, nil
}

func login(ctx context.Context, cmd *cobra.Command, e *env) error {
	creds, err := credentials(cmd, e)
	if err != nil {
		return err
	}

	return loginWith(ctx, e, creds)
}

// loginWith stores the identity only after the backend accepts the credentials.
func loginWith(ctx context.Context, e *env, creds backend.Credentials) error {
	token, err := e.client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := e.identity.Set(identity.Identity{Email: creds.Email, AccessToken: token.AccessToken}); err != nil {
		return err
	}

	e.logger.Info("logged in", zap.String(logger.FieldEmail, creds.Email))
	e.printf("Logged in as %s.\n", creds.Email)
	return nil
}

func register(ctx context.Context, cmd *cobra.Command, e *env) error {
	username, _ := cmd.Flags().GetString("username")
	fullName, _ := cmd.Flags().GetString("full-name")

	creds, err := credentials(cmd, e)
	if err != nil {
		return err
	}

	username, err = e.ask("Username", username, required("username"))
	if err != nil {
		return err
	}

	user, err := e.client.Register(ctx, backend.RegisterRequest{
		Email:    creds.Email,
		Username: username,
		FullName: fullName,
		Password: creds.Password,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	e.logger.Info("account created", zap.Int("user_id", user.ID), zap.String(logger.FieldEmail, user.Email))

	return loginWith(ctx, e, creds)
}

func guest(ctx context.Context, e *env) error {
	token, err := e.client.Guest(ctx)
	if err != nil {
		return fmt.Errorf("guest login: %w", err)
	}

	email, err := identity.EmailFromToken(token.AccessToken)
	if err != nil {
		return fmt.Errorf("guest login: %w", err)
	}

	if err := e.identity.Set(identity.Identity{Email: email, AccessToken: token.AccessToken, Guest: true}); err != nil {
		return err
	}

	e.printf("Continuing as guest %s.\n", email)
	return nil
}

func whoami(ctx context.Context, e *env) error {
	id, err := e.identity.Require()
	if err != nil {
		return err
	}

	kind := "user"
	if id.Guest {
		kind = "guest"
	}
	e.printf("%s (%s)\n", id.Email, kind)

	user, err := e.client.Me(ctx)
	if err != nil {
		e.logger.Debug("fetching account details failed", zap.Error(err))
		return nil
	}

	e.printf("username: %s\nfull name: %s\nmember since: %s\n", user.Username, user.FullName, user.CreatedAt)
	return nil
}

// requireIdentity is the guard for commands that need a logged-in user. On a
// terminal it offers to log in; otherwise it fails with ErrNoIdentity.
func requireIdentity(ctx context.Context, e *env) error {
	_, err := e.identity.Require()
	if err == nil {
		return nil
	}
	if !e.interactive {
		return err
	}

	e.println("You need to log in first.")
	_, choice, err := e.choose("How do you want to continue?", []string{PromptLogin, PromptGuest, PromptCancel})
	if err != nil {
		return err
	}

	switch choice {
	case PromptLogin:
		return login(ctx, nil, e)
	case PromptGuest:
		return guest(ctx, e)
	default:
		return errCancelled
	}
}
