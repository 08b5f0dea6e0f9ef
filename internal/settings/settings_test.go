package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undff/lzt-donate/internal/settings"
)

func tempStore(t *testing.T) (*settings.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := settings.Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpenCreatesDefaults(t *testing.T) {
	s, path := tempStore(t)

	_, err := os.Stat(path)
	require.NoError(t, err, "settings file must be created on first open")

	snap := s.Snapshot()
	assert.Equal(t, settings.DefaultDAClientID, snap.DonationAlerts.ClientID)
	assert.Equal(t, settings.DefaultLztClientID, snap.Lolzteam.ClientID)
	assert.Equal(t, 1, snap.App.MinPaymentAmount)
	assert.Equal(t, 3, snap.App.CheckIntervalSeconds)
	assert.Empty(t, snap.App.Banwords)
	assert.False(t, snap.App.FilterURLs)
}

func TestOpenBackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app": {"min_payment_amount": 25}}`), 0o600))

	s, err := settings.Open(path)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, 25, snap.App.MinPaymentAmount, "existing values survive")
	assert.Equal(t, 3, snap.App.CheckIntervalSeconds, "missing values are backfilled")
	assert.Equal(t, settings.DefaultDAClientID, snap.DonationAlerts.ClientID)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := settings.Open(path)
	assert.Error(t, err)
}

func TestBanwords(t *testing.T) {
	s, path := tempStore(t)

	require.NoError(t, s.AddBanword("scam"))
	require.NoError(t, s.AddBanword("spam"))
	require.NoError(t, s.AddBanword("scam")) // duplicate ignored
	require.NoError(t, s.AddBanword(""))     // blank ignored
	assert.Equal(t, []string{"scam", "spam"}, s.Banwords())

	require.NoError(t, s.RemoveBanword("scam"))
	require.NoError(t, s.RemoveBanword("missing"))
	assert.Equal(t, []string{"spam"}, s.Banwords())

	// Mutations persist across reopen.
	reopened, err := settings.Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"spam"}, reopened.Banwords())
}

func TestSettersPersist(t *testing.T) {
	s, path := tempStore(t)

	require.NoError(t, s.SetMinAmount(100))
	require.NoError(t, s.SetCheckInterval(30))
	require.NoError(t, s.SetFilterURLs(true))
	require.NoError(t, s.SetDonationAlertsToken("da-token"))
	require.NoError(t, s.SetLolzteamToken("lzt-token"))

	reopened, err := settings.Open(path)
	require.NoError(t, err)

	snap := reopened.Snapshot()
	assert.Equal(t, 100, snap.App.MinPaymentAmount)
	assert.Equal(t, 30, snap.App.CheckIntervalSeconds)
	assert.True(t, snap.App.FilterURLs)
	assert.Equal(t, "da-token", snap.DonationAlerts.AccessToken)
	assert.Equal(t, "lzt-token", snap.Lolzteam.AccessToken)
}

func TestSettersRejectInvalidValues(t *testing.T) {
	s, _ := tempStore(t)

	assert.Error(t, s.SetMinAmount(0))
	assert.Error(t, s.SetCheckInterval(-5))
}
