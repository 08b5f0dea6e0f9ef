package lzt

import "encoding/json"

// Payment is one received payment from the LOLZTEAM market ledger.
type Payment struct {
	ID        string // assigned by the market, primary dedup key
	Amount    string // normalized decimal, no trailing zeros
	Username  string // payer display name, attacker-controlled text
	Comment   string // payer message, attacker-controlled text, may be empty
	Timestamp int64  // unix seconds when the market recorded the payment
}

// User is the authenticated market user.
type User struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type userResponse struct {
	User User `json:"user"`
}

// paymentsResponse is the wire shape of GET /user/payments. Payments come
// as an object keyed by payment id.
type paymentsResponse struct {
	Payments map[string]paymentEntry `json:"payments"`
}

type paymentEntry struct {
	IncomingSum   float64         `json:"incoming_sum"`
	OperationDate int64           `json:"operation_date"`
	Data          json.RawMessage `json:"data"` // sometimes not an object, parsed leniently
}

type paymentData struct {
	Username     string `json:"username"`
	CommentPlain string `json:"commentPlain"`
}
