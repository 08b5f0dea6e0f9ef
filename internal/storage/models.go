package storage

import "time"

// Donation is one alerted payment recorded for statistics.
type Donation struct {
	PaymentID string
	Amount    float64
	Username  string
	CreatedAt time.Time
}

// Stats aggregates all recorded donations.
type Stats struct {
	TotalAmount   float64
	DonationCount int
}
