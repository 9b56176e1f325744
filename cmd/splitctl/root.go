package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharesplit/internal/apiclient"
	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/config"
	"github.com/mmynk/sharesplit/pkg/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	flagAPIURL   string
	flagToken    string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "splitctl",
	Short:         "Split shared expenses and record them",
	Long:          `Compute how a shared expense divides among group members and submit it to the expense API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		if flagAPIURL != "" {
			cfg.APIBaseURL = flagAPIURL
		}
		if flagToken != "" {
			cfg.APIToken = flagToken
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}

		logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "expense API base URL (default from SHARESPLIT_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token (default from SHARESPLIT_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")
}

// Execute runs the root command, printing errors the way a user should see
// them.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", userMessage(err))
	}
	return err
}

func newClient() (*apiclient.Client, error) {
	return apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithToken(cfg.APIToken),
		apiclient.WithLogger(logger),
	)
}

func userMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return err.Error()
}
