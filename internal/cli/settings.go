package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change monitoring settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change monitoring settings",
	RunE:  runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().Int("min-amount", 0, "Minimum payment amount in RUB")
	settingsSetCmd.Flags().Int("interval", 0, "Poll interval in seconds")
	settingsSetCmd.Flags().Bool("filter-urls", false, "Redact URLs from alert text")
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSettings(cfg)
	if err != nil {
		return err
	}
	snap := store.Snapshot()

	fmt.Printf("Min payment amount:  %d RUB\n", snap.App.MinPaymentAmount)
	fmt.Printf("Check interval:      %ds\n", snap.App.CheckIntervalSeconds)
	fmt.Printf("Filter URLs:         %t\n", snap.App.FilterURLs)
	fmt.Printf("Banwords:            %d\n", len(snap.App.Banwords))
	fmt.Printf("LOLZTEAM token:      %s\n", tokenState(snap.Lolzteam.AccessToken))
	fmt.Printf("DonationAlerts token: %s\n", tokenState(snap.DonationAlerts.AccessToken))

	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSettings(cfg)
	if err != nil {
		return err
	}

	changed := false

	if cmd.Flags().Changed("min-amount") {
		n, _ := cmd.Flags().GetInt("min-amount")
		if err := store.SetMinAmount(n); err != nil {
			return err
		}
		fmt.Printf("Min payment amount set to %d RUB.\n", n)
		changed = true
	}

	if cmd.Flags().Changed("interval") {
		n, _ := cmd.Flags().GetInt("interval")
		if err := store.SetCheckInterval(n); err != nil {
			return err
		}
		fmt.Printf("Check interval set to %ds.\n", n)
		changed = true
	}

	if cmd.Flags().Changed("filter-urls") {
		enabled, _ := cmd.Flags().GetBool("filter-urls")
		if err := store.SetFilterURLs(enabled); err != nil {
			return err
		}
		fmt.Printf("Filter URLs set to %t.\n", enabled)
		changed = true
	}

	if !changed {
		return fmt.Errorf("nothing to change, pass --min-amount, --interval or --filter-urls")
	}

	return nil
}

func tokenState(token string) string {
	if token == "" {
		return "not set"
	}
	return "set"
}
