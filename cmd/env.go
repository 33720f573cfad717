package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/identity"
	"github.com/spigell/mock-interview/internal/logger"
)

// env is what every command needs: the logger, the parsed config, the
// identity store and a backend client reading identity from that store.
type env struct {
	logger   *zap.Logger
	config   *Config
	identity *identity.Store
	client   *backend.Client
	out      io.Writer

	interactive bool
	unsubscribe func()
}

func newEnv(cmd *cobra.Command) (*env, error) {
	interactive := !viper.GetBool("no-input") && isTerminal(os.Stdin)

	log, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		Quiet: interactive,
	})
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	path := strings.TrimSpace(config.IdentityFile)
	if path == "" {
		if path, err = identity.DefaultPath(); err != nil {
			return nil, err
		}
	}

	store, err := identity.Open(path)
	if err != nil {
		return nil, err
	}

	unsubscribe := store.Subscribe(func(id identity.Identity) {
		if id.Empty() {
			log.Debug("identity cleared")
			return
		}
		log.Debug("identity changed", zap.String(logger.FieldEmail, id.Email), zap.Bool("guest", id.Guest))
	})

	client := backend.New(log, store, config.APIURL)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	client.HTTPClient = &http.Client{Timeout: config.RequestTimeout}

	log.Debug("starting", zap.String("version", version), zap.String("api_url", client.APIURL), zap.String("identity_file", path))

	return &env{
		logger:      log,
		config:      config,
		identity:    store,
		client:      client,
		out:         cmd.OutOrStdout(),
		interactive: interactive,
		unsubscribe: unsubscribe,
	}, nil
}

func (e *env) close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	_ = e.logger.Sync()
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *env) println(args ...any) {
	fmt.Fprintln(e.out, args...)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// withEnv adapts a command body that needs an env to cobra's RunE.
func withEnv(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		return run(cmd, args, e)
	}
}
