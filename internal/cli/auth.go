package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/undff/lzt-donate/internal/authserver"
	"github.com/undff/lzt-donate/internal/donationalerts"
	"github.com/undff/lzt-donate/internal/lzt"
)

// OAuth implicit grant: the browser lands on the local callback with the
// token in the URL fragment, which the callback page forwards as a query
// parameter.
const (
	tokenParam  = "access_token"
	authTimeout = 5 * time.Minute
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize external services",
}

var authDACmd = &cobra.Command{
	Use:     "donationalerts",
	Aliases: []string{"da"},
	Short:   "Authorize the DonationAlerts account",
	RunE:    runAuthDA,
}

var authLztCmd = &cobra.Command{
	Use:     "lolzteam",
	Aliases: []string{"lzt"},
	Short:   "Authorize the LOLZTEAM account",
	RunE:    runAuthLzt,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authDACmd)
	authCmd.AddCommand(authLztCmd)
}

func runAuthDA(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSettings(cfg)
	if err != nil {
		return err
	}
	snap := store.Snapshot()

	url := donationalerts.AuthURL(snap.DonationAlerts.ClientID, snap.DonationAlerts.RedirectURI)
	token, err := catchToken(cmd.Context(), cfg.AuthPort, url)
	if err != nil {
		return err
	}

	client := donationalerts.NewClient(cfg.DABaseURL, "")
	if !client.VerifyToken(cmd.Context(), token) {
		return fmt.Errorf("DonationAlerts rejected the received token")
	}

	if err := store.SetDonationAlertsToken(token); err != nil {
		return err
	}
	fmt.Println("DonationAlerts authorized.")

	return nil
}

func runAuthLzt(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSettings(cfg)
	if err != nil {
		return err
	}
	snap := store.Snapshot()

	url := lzt.AuthURL(snap.Lolzteam.ClientID)
	token, err := catchToken(cmd.Context(), cfg.AuthPort, url)
	if err != nil {
		return err
	}

	client := lzt.NewClient(cfg.LztMarketURL, cfg.LztForumURL, "")
	if !client.VerifyToken(cmd.Context(), token) {
		return fmt.Errorf("LOLZTEAM rejected the received token")
	}

	if err := store.SetLolzteamToken(token); err != nil {
		return err
	}
	fmt.Println("LOLZTEAM authorized.")

	return nil
}

func catchToken(ctx context.Context, port int, url string) (string, error) {
	fmt.Println("Open this URL in your browser and authorize the application:")
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()
	fmt.Println("Waiting for the callback...")

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	srv := authserver.New(port, tokenParam, slog.Default())
	token, err := srv.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("receive token: %w", err)
	}

	return token, nil
}
