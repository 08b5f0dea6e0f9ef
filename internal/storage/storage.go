package storage

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage keeps donation statistics in SQLite.
type Storage struct {
	db *sql.DB
}

// New creates a new Storage instance and initializes the database
func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS donations (
			payment_id TEXT PRIMARY KEY,
			amount REAL NOT NULL,
			username TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_created_at ON donations(created_at)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

// RecordDonation stores one alerted payment. Recording the same payment
// id twice is a no-op, so observer callbacks may safely be replayed.
func (s *Storage) RecordDonation(paymentID string, amount float64, username string, timestamp int64) error {
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO donations (payment_id, amount, username, created_at)
		 VALUES (?, ?, ?, ?)`,
		paymentID, amount, username, timestamp,
	)
	return err
}

// Stats returns the running totals over all recorded donations.
func (s *Storage) Stats() (*Stats, error) {
	var stats Stats
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM donations`,
	).Scan(&stats.TotalAmount, &stats.DonationCount)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// RecentDonations returns up to limit donations, newest first.
func (s *Storage) RecentDonations(limit int) ([]Donation, error) {
	rows, err := s.db.Query(
		`SELECT payment_id, amount, username, created_at
		 FROM donations ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []Donation
	for rows.Next() {
		var d Donation
		var createdAt int64
		if err := rows.Scan(&d.PaymentID, &d.Amount, &d.Username, &createdAt); err != nil {
			return nil, err
		}
		d.CreatedAt = time.Unix(createdAt, 0)
		donations = append(donations, d)
	}

	return donations, rows.Err()
}

// Donation returns one recorded donation by payment id.
func (s *Storage) Donation(paymentID string) (*Donation, error) {
	var d Donation
	var createdAt int64
	err := s.db.QueryRow(
		`SELECT payment_id, amount, username, created_at FROM donations WHERE payment_id = ?`,
		paymentID,
	).Scan(&d.PaymentID, &d.Amount, &d.Username, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	d.CreatedAt = time.Unix(createdAt, 0)
	return &d, nil
}

// Reset deletes all recorded donations.
func (s *Storage) Reset() error {
	_, err := s.db.Exec(`DELETE FROM donations`)
	return err
}
