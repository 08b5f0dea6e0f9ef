package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Defaults match the registered OAuth applications of the original
// desktop client; both are public implicit-grant client ids.
const (
	DefaultDAClientID     = "14617"
	DefaultDARedirectURI  = "http://127.0.0.1:5228/login"
	DefaultLztClientID    = "t93p9fol5e"
	DefaultLztRedirectURI = "http://127.0.0.1:5228/lzt_login"

	defaultMinAmount       = 1
	defaultIntervalSeconds = 3
)

// ServiceCredentials holds the OAuth client settings and the current
// access token for one external service.
type ServiceCredentials struct {
	ClientID    string `json:"client_id"`
	RedirectURI string `json:"redirect_uri"`
	AccessToken string `json:"access_token"`
}

// AppSettings are the operator-tunable monitoring settings.
type AppSettings struct {
	MinPaymentAmount     int      `json:"min_payment_amount"`
	CheckIntervalSeconds int      `json:"check_interval_seconds"`
	Banwords             []string `json:"banwords"`
	FilterURLs           bool     `json:"filter_urls"`
}

// Settings is the full persisted settings document.
type Settings struct {
	DonationAlerts ServiceCredentials `json:"donation_alerts"`
	Lolzteam       ServiceCredentials `json:"lolzteam"`
	App            AppSettings        `json:"app"`
}

// Store is a settings document backed by a JSON file. Every mutation is
// persisted immediately. Safe for concurrent use: the CLI mutates it
// while the monitor reads the banword list once per poll cycle.
type Store struct {
	mu   sync.Mutex
	path string
	data Settings
}

// DefaultPath returns ~/.lzt-donate/settings.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".lzt-donate", "settings.json"), nil
}

// Open loads the settings file, creating it with defaults when missing.
// Keys absent from an existing file are backfilled with their defaults
// and the file is rewritten.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: defaults()}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	if s.backfill() {
		if err := s.save(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func defaults() Settings {
	return Settings{
		DonationAlerts: ServiceCredentials{
			ClientID:    DefaultDAClientID,
			RedirectURI: DefaultDARedirectURI,
		},
		Lolzteam: ServiceCredentials{
			ClientID:    DefaultLztClientID,
			RedirectURI: DefaultLztRedirectURI,
		},
		App: AppSettings{
			MinPaymentAmount:     defaultMinAmount,
			CheckIntervalSeconds: defaultIntervalSeconds,
			Banwords:             []string{},
		},
	}
}

// backfill restores defaults for keys a hand-edited file may have lost.
func (s *Store) backfill() bool {
	changed := false

	if s.data.DonationAlerts.ClientID == "" {
		s.data.DonationAlerts.ClientID = DefaultDAClientID
		changed = true
	}
	if s.data.DonationAlerts.RedirectURI == "" {
		s.data.DonationAlerts.RedirectURI = DefaultDARedirectURI
		changed = true
	}
	if s.data.Lolzteam.ClientID == "" {
		s.data.Lolzteam.ClientID = DefaultLztClientID
		changed = true
	}
	if s.data.Lolzteam.RedirectURI == "" {
		s.data.Lolzteam.RedirectURI = DefaultLztRedirectURI
		changed = true
	}
	if s.data.App.MinPaymentAmount <= 0 {
		s.data.App.MinPaymentAmount = defaultMinAmount
		changed = true
	}
	if s.data.App.CheckIntervalSeconds <= 0 {
		s.data.App.CheckIntervalSeconds = defaultIntervalSeconds
		changed = true
	}
	if s.data.App.Banwords == nil {
		s.data.App.Banwords = []string{}
		changed = true
	}

	return changed
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.data
	snap.App.Banwords = append([]string(nil), s.data.App.Banwords...)
	return snap
}

// Banwords returns a copy of the banned-word list. Satisfies the
// monitor's BanwordSource.
func (s *Store) Banwords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data.App.Banwords...)
}

// AddBanword appends word to the list unless blank or already present.
func (s *Store) AddBanword(word string) error {
	if word == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.data.App.Banwords {
		if w == word {
			return nil
		}
	}

	s.data.App.Banwords = append(s.data.App.Banwords, word)
	return s.save()
}

// RemoveBanword drops word from the list if present.
func (s *Store) RemoveBanword(word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.data.App.Banwords {
		if w == word {
			s.data.App.Banwords = append(s.data.App.Banwords[:i], s.data.App.Banwords[i+1:]...)
			return s.save()
		}
	}

	return nil
}

// SetMinAmount updates the minimum payment amount.
func (s *Store) SetMinAmount(n int) error {
	if n <= 0 {
		return fmt.Errorf("min amount must be positive, got %d", n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.App.MinPaymentAmount = n
	return s.save()
}

// SetCheckInterval updates the poll interval in seconds.
func (s *Store) SetCheckInterval(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("check interval must be positive, got %d", seconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.App.CheckIntervalSeconds = seconds
	return s.save()
}

// SetFilterURLs toggles URL redaction.
func (s *Store) SetFilterURLs(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.App.FilterURLs = enabled
	return s.save()
}

// SetDonationAlertsToken stores a fresh DonationAlerts access token.
func (s *Store) SetDonationAlertsToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.DonationAlerts.AccessToken = token
	return s.save()
}

// SetLolzteamToken stores a fresh LOLZTEAM access token.
func (s *Store) SetLolzteamToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Lolzteam.AccessToken = token
	return s.save()
}
