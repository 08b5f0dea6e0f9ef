package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var banwordCmd = &cobra.Command{
	Use:   "banword",
	Short: "Manage the banword list",
}

var banwordAddCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add a word to mask in alert text",
	Args:  cobra.ExactArgs(1),
	RunE:  runBanwordAdd,
}

var banwordRemoveCmd = &cobra.Command{
	Use:   "remove <word>",
	Short: "Remove a word from the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runBanwordRemove,
}

var banwordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured banwords",
	RunE:  runBanwordList,
}

func init() {
	rootCmd.AddCommand(banwordCmd)
	banwordCmd.AddCommand(banwordAddCmd)
	banwordCmd.AddCommand(banwordRemoveCmd)
	banwordCmd.AddCommand(banwordListCmd)
}

func runBanwordAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSettings(cfg)
	if err != nil {
		return err
	}

	if err := store.AddBanword(args[0]); err != nil {
		return err
	}
	fmt.Printf("Added %q.\n", args[0])

	return nil
}

func runBanwordRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSettings(cfg)
	if err != nil {
		return err
	}

	if err := store.RemoveBanword(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %q.\n", args[0])

	return nil
}

func runBanwordList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSettings(cfg)
	if err != nil {
		return err
	}

	words := store.Banwords()
	if len(words) == 0 {
		fmt.Println("No banwords configured.")
		return nil
	}
	for _, w := range words {
		fmt.Println(w)
	}

	return nil
}
