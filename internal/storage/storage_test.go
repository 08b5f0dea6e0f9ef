package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undff/lzt-donate/internal/storage"
)

func tempStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "donations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndStats(t *testing.T) {
	s := tempStorage(t)

	require.NoError(t, s.RecordDonation("p1", 50, "bob", 1700000100))
	require.NoError(t, s.RecordDonation("p2", 10.5, "alice", 1700000200))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 60.5, stats.TotalAmount)
	assert.Equal(t, 2, stats.DonationCount)
}

func TestRecordDonationIdempotentOnPaymentID(t *testing.T) {
	s := tempStorage(t)

	require.NoError(t, s.RecordDonation("p1", 50, "bob", 1700000100))
	require.NoError(t, s.RecordDonation("p1", 50, "bob", 1700000100))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DonationCount)
	assert.Equal(t, 50.0, stats.TotalAmount)
}

func TestRecentDonationsNewestFirst(t *testing.T) {
	s := tempStorage(t)

	require.NoError(t, s.RecordDonation("p1", 1, "a", 100))
	require.NoError(t, s.RecordDonation("p2", 2, "b", 200))
	require.NoError(t, s.RecordDonation("p3", 3, "c", 300))

	donations, err := s.RecentDonations(2)
	require.NoError(t, err)
	require.Len(t, donations, 2)
	assert.Equal(t, "p3", donations[0].PaymentID)
	assert.Equal(t, "p2", donations[1].PaymentID)
}

func TestDonationLookup(t *testing.T) {
	s := tempStorage(t)

	require.NoError(t, s.RecordDonation("p1", 50, "bob", 1700000100))

	d, err := s.Donation("p1")
	require.NoError(t, err)
	assert.Equal(t, "bob", d.Username)
	assert.Equal(t, 50.0, d.Amount)

	_, err = s.Donation("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReset(t *testing.T) {
	s := tempStorage(t)

	require.NoError(t, s.RecordDonation("p1", 50, "bob", 1700000100))
	require.NoError(t, s.Reset())

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DonationCount)
	assert.Equal(t, 0.0, stats.TotalAmount)
}

func TestEmptyStats(t *testing.T) {
	s := tempStorage(t)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DonationCount)
	assert.Equal(t, 0.0, stats.TotalAmount)
}
