package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/voice"
)

const (
	app = "mock-interview"
)

type Config struct {
	APIURL         string        `mapstructure:"api-url"`
	UserAgent      string        `mapstructure:"user-agent"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	IdentityFile   string        `mapstructure:"identity-file"`
	Voice          *voice.Config `mapstructure:"voice"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "mock-interview is a cli for practicing job interviews with an AI interviewer",
		// Errors are rendered by Execute as one short line.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		rootCmd.PrintErrln("Error:", userMessage(err))
	}
	return err
}

func init() {
	bindEnv("api-url", "MOCK_INTERVIEW_API_URL")
	bindEnv("identity-file", "MOCK_INTERVIEW_IDENTITY_FILE")
	bindEnv("voice.credentials-file", "GOOGLE_APPLICATION_CREDENTIALS")

	viper.SetDefault("api-url", backend.DefaultAPIURL)
	viper.SetDefault("voice.enabled", true)
	viper.SetDefault("voice.language", voice.DefaultLanguage)
	viper.SetDefault("voice.sample-rate", voice.DefaultSampleRate)
	viper.SetDefault("voice.audio-command", voice.DefaultAudioCommand)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is mock-interview.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", "", "base url of the interview service")
	rootCmd.PersistentFlags().Bool("no-input", false, "never prompt; fail instead")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("no-input", rootCmd.PersistentFlags().Lookup("no-input"))
}

func bindEnv(key, env string) {
	if err := viper.BindEnv(key, env); err != nil {
		log.Fatalf("binding %s environment variable: %v", env, err)
	}
}

// initConfig reads the optional config file. Only an explicitly given file
// must exist.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if config == nil {
		config = &Config{}
	}
	if config.Voice == nil {
		config.Voice = &voice.Config{}
	}
	if config.RequestTimeout < 0 {
		return nil, errors.New("request-timeout must not be negative")
	}

	return config, nil
}
