package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/undff/lzt-donate/internal/storage"
)

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "donations.db"))
	t.Setenv("SETTINGS_PATH", filepath.Join(dir, "settings.json"))

	db, err := storage.New(filepath.Join(dir, "donations.db"))
	require.NoError(t, err)
	require.NoError(t, db.RecordDonation("p1", 50, "bob", 1700000000))
	require.NoError(t, db.Close())

	require.NoError(t, statsCmd.RunE(statsCmd, nil))
}

func TestStatsCommandReset(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "donations.db")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("SETTINGS_PATH", filepath.Join(dir, "settings.json"))

	db, err := storage.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.RecordDonation("p1", 50, "bob", 1700000000))
	require.NoError(t, db.Close())

	require.NoError(t, statsCmd.Flags().Set("reset", "true"))
	defer statsCmd.Flags().Set("reset", "false")

	require.NoError(t, statsCmd.RunE(statsCmd, nil))

	db, err = storage.New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, stats.DonationCount)
}
