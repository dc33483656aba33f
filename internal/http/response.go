package http

import (
	"encoding/json"
	"net/http"
	"time"

	"inout/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// JSON shapes. Amounts render as fixed three-decimal strings so clients
// never see float artifacts.

type depositJSON struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	Amount        string `json:"amount"`
	CreatedAt     string `json:"created_at"`
	ClientAccount string `json:"client_account,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	Recurrence    string `json:"recurrence,omitempty"`
	Note          string `json:"note,omitempty"`
}

type withdrawalJSON struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	OwnerName     string `json:"owner_name,omitempty"`
	Amount        string `json:"amount"`
	CreatedAt     string `json:"created_at"`
	ClientAccount string `json:"client_account,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	Note          string `json:"note,omitempty"`
	Status        string `json:"status"`
	UpdatedAt     string `json:"updated_at"`
}

type recurringJSON struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	Amount        string `json:"amount"`
	ClientAccount string `json:"client_account,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	Note          string `json:"note,omitempty"`
	Recurrence    string `json:"recurrence"`
	StartDate     string `json:"start_date"`
	LastRunAt     string `json:"last_run_at,omitempty"`
}

type profileJSON struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type selfSummary struct {
	Period      periodJSON `json:"period"`
	In          string     `json:"in_total"`
	OutApproved string     `json:"out_approved_total"`
	Net         string     `json:"net"`
}

type teamSummary struct {
	Period         periodJSON          `json:"period"`
	IncludePending bool                `json:"include_pending"`
	Employees      []employeeTotalJSON `json:"employees"`
}

type employeeTotalJSON struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	In      string `json:"in_total"`
	Out     string `json:"out_total"`
	Net     string `json:"net"`
}

type periodJSON struct {
	Year  int  `json:"year,omitempty"`
	Month int  `json:"month,omitempty"`
	All   bool `json:"all_time,omitempty"`
}

func toPeriodJSON(p core.Period) periodJSON {
	return periodJSON{Year: p.Year, Month: p.Month, All: p.All}
}

func toDepositJSON(d core.Deposit) depositJSON {
	return depositJSON{
		ID:            d.ID,
		OwnerID:       d.OwnerID,
		Amount:        core.FormatAmount(d.Amount),
		CreatedAt:     d.CreatedAt.UTC().Format(time.RFC3339),
		ClientAccount: d.ClientAccount,
		ClientName:    d.ClientName,
		Recurrence:    string(d.Recurrence),
		Note:          d.Note,
	}
}

func toWithdrawalJSON(w core.Withdrawal, profiles core.ProfileIndex) withdrawalJSON {
	out := withdrawalJSON{
		ID:            w.ID,
		OwnerID:       w.OwnerID,
		Amount:        core.FormatAmount(w.Amount),
		CreatedAt:     w.CreatedAt.UTC().Format(time.RFC3339),
		ClientAccount: w.ClientAccount,
		ClientName:    w.ClientName,
		Note:          w.Note,
		Status:        string(w.Status),
		UpdatedAt:     w.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if profiles != nil {
		out.OwnerName = core.ResolveDisplayName(w.OwnerID, profiles)
	}
	return out
}

func toRecurringJSON(t core.RecurringDeposit) recurringJSON {
	out := recurringJSON{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Amount:        core.FormatAmount(t.Amount),
		ClientAccount: t.ClientAccount,
		ClientName:    t.ClientName,
		Note:          t.Note,
		Recurrence:    string(t.Recurrence),
	}
	if !t.StartDate.IsZero() {
		out.StartDate = t.StartDate.UTC().Format(time.RFC3339)
	}
	if !t.LastRunAt.IsZero() {
		out.LastRunAt = t.LastRunAt.UTC().Format(time.RFC3339)
	}
	return out
}

func toProfileJSON(p core.Profile) profileJSON {
	return profileJSON{
		UserID:   p.UserID,
		FullName: p.FullName,
		Email:    p.Email,
		Role:     string(p.Role),
	}
}
