package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inout/internal/core"
)

const maxBodyBytes = 64 << 10

// parsePeriod reads the period selection from query parameters.
// ?period=all selects all-time; otherwise year and month default to the
// current UTC month. A month outside 1..12 is an error.
func parsePeriod(query url.Values) (core.Period, error) {
	if strings.EqualFold(strings.TrimSpace(query.Get("period")), "all") {
		return core.AllTime(), nil
	}

	now := time.Now().UTC()
	p := core.Period{Year: now.Year(), Month: int(now.Month())}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, fmt.Errorf("invalid year %q", v)
		}
		p.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, fmt.Errorf("invalid month %q", v)
		}
		p.Month = m
	}
	if p.Month < 1 || p.Month > 12 {
		return core.Period{}, fmt.Errorf("month %d out of range 1..12", p.Month)
	}
	return p, nil
}

// decodeJSON reads a size-limited JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// depositPayload is the create/update body for deposits. The amount is a
// string; malformed or negative values coerce to zero on create.
type depositPayload struct {
	Amount        string `json:"amount"`
	ClientAccount string `json:"client_account"`
	ClientName    string `json:"client_name"`
	Recurrence    string `json:"recurrence"`
	Note          string `json:"note"`
}

type withdrawalPayload struct {
	Amount        string `json:"amount"`
	ClientAccount string `json:"client_account"`
	ClientName    string `json:"client_name"`
	Note          string `json:"note"`
}

// recurringPayload is the create body for recurring deposit templates.
// start_date is optional RFC3339; it defaults to now.
type recurringPayload struct {
	Amount        string `json:"amount"`
	ClientAccount string `json:"client_account"`
	ClientName    string `json:"client_name"`
	Note          string `json:"note"`
	Recurrence    string `json:"recurrence"`
	StartDate     string `json:"start_date"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type rolePayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
