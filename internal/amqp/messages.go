package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event collections.
const (
	CollectionDeposits    = "deposits"
	CollectionWithdrawals = "withdrawals"
	CollectionProfiles    = "profiles"
)

// LedgerEvent is a lightweight change notification. It carries only the
// record coordinates; consumers re-fetch from the database and recompute.
type LedgerEvent struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLedgerEvent builds an event for a record created or changed at occurredAt.
// Year and month are taken from the record's UTC month.
func NewLedgerEvent(collection, id, ownerID string, occurredAt time.Time) *LedgerEvent {
	at := occurredAt.UTC()
	return &LedgerEvent{
		Collection: collection,
		ID:         id,
		OwnerID:    ownerID,
		Year:       at.Year(),
		Month:      int(at.Month()),
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
