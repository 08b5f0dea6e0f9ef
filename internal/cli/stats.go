package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/undff/lzt-donate/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show donation totals",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("reset", false, "Delete all recorded donations")
	statsCmd.Flags().Int("recent", 10, "Number of recent donations to list")
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := db.Reset(); err != nil {
			return fmt.Errorf("reset stats: %w", err)
		}
		fmt.Println("All recorded donations deleted.")
		return nil
	}

	stats, err := db.Stats()
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	fmt.Printf("Total received:  %.2f RUB\n", stats.TotalAmount)
	fmt.Printf("Donations:       %d\n", stats.DonationCount)

	limit, _ := cmd.Flags().GetInt("recent")
	recent, err := db.RecentDonations(limit)
	if err != nil {
		return fmt.Errorf("read recent donations: %w", err)
	}
	if len(recent) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tAMOUNT\tFROM\n")
	for _, d := range recent {
		fmt.Fprintf(w, "%s\t%.2f RUB\t%s\n",
			d.CreatedAt.Format("2006-01-02 15:04"),
			d.Amount, d.Username,
		)
	}
	w.Flush()

	return nil
}
