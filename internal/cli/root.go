package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/undff/lzt-donate/internal/config"
	"github.com/undff/lzt-donate/internal/settings"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "lzt-donate",
	Short: "LOLZTEAM market donation alerts for DonationAlerts",
	Long: `lzt-donate watches the LOLZTEAM market payment ledger and forwards
new incoming payments to DonationAlerts as custom alerts. Authorize both
services with 'lzt-donate auth', then start the daemon with 'lzt-donate run'.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))

	return cfg, nil
}

// openSettings loads the settings store from the configured path.
func openSettings(cfg *config.Config) (*settings.Store, error) {
	return settings.Open(cfg.SettingsPath)
}
