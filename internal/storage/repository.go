// Package storage is the SQLite persistence layer. Amounts are stored as
// decimal strings and timestamps as RFC 3339 text, both normalized to UTC.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"inout/internal/core"
	"inout/internal/ledger"
)

// Fixed-width so the TEXT columns compare lexicographically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// --- profiles ---

func (r *SQLiteRepository) EnsureProfile(ctx context.Context, userID, email string) (core.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return core.Profile{}, core.ErrEmptyOwner
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING`,
		userID, seedName(email), email, string(core.RoleEmployee), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return core.Profile{}, fmt.Errorf("ensure profile: %w", err)
	}
	return r.GetProfile(ctx, userID)
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var p core.Profile
	var role string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, role FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.FullName, &p.Email, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.Role = core.Role(role)
	return p, nil
}

func (r *SQLiteRepository) ListProfiles(ctx context.Context) ([]core.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, full_name, email, role FROM profiles ORDER BY full_name, user_id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []core.Profile
	for rows.Next() {
		var p core.Profile
		var role string
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Email, &role); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.Role = core.Role(role)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SetRole(ctx context.Context, userID string, role core.Role) error {
	if !role.IsValid() {
		return core.ErrInvalidRole
	}
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET role = ? WHERE user_id = ?`, string(role), userID)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set role rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// --- deposits ---

func (r *SQLiteRepository) CreateDeposit(ctx context.Context, d core.Deposit) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO deposits (id, owner_user_id, amount, created_at, client_account, client_name, recurrence, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Amount.String(), d.CreatedAt.UTC().Format(timeLayout),
		d.ClientAccount, d.ClientName, string(d.Recurrence), d.Note)
	if err != nil {
		return "", fmt.Errorf("create deposit: %w", err)
	}
	return d.ID, nil
}

func (r *SQLiteRepository) UpdateDeposit(ctx context.Context, d core.Deposit) error {
	existing, err := r.GetDeposit(ctx, d.ID)
	if err != nil {
		return err
	}
	// Owner and creation time never change.
	d.OwnerID = existing.OwnerID
	d.CreatedAt = existing.CreatedAt
	if err := d.Validate(); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE deposits
		SET amount = ?, client_account = ?, client_name = ?, recurrence = ?, note = ?
		WHERE id = ?`,
		d.Amount.String(), d.ClientAccount, d.ClientName, string(d.Recurrence), d.Note, d.ID)
	if err != nil {
		return fmt.Errorf("update deposit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetDeposit(ctx context.Context, id string) (core.Deposit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, amount, created_at, client_account, client_name, recurrence, note
		FROM deposits WHERE id = ?`, id)
	d, err := scanDeposit(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Deposit{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Deposit{}, fmt.Errorf("get deposit: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) ListDeposits(ctx context.Context, scope ledger.Scope) ([]core.Deposit, error) {
	query := `
		SELECT id, owner_user_id, amount, created_at, client_account, client_name, recurrence, note
		FROM deposits`
	where, args := scopeClause(scope)
	rows, err := r.db.QueryContext(ctx, query+where+` ORDER BY created_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()

	var out []core.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// --- withdrawals ---

func (r *SQLiteRepository) CreateWithdrawal(ctx context.Context, w core.Withdrawal) (string, error) {
	if w.Status == "" {
		w.Status = core.StatusPending
	}
	if err := w.Validate(); err != nil {
		return "", err
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	w.UpdatedAt = w.CreatedAt
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO withdrawals (id, owner_user_id, amount, created_at, client_account, client_name, note, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.OwnerID, w.Amount.String(), w.CreatedAt.UTC().Format(timeLayout),
		w.ClientAccount, w.ClientName, w.Note, string(w.Status), w.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("create withdrawal: %w", err)
	}
	return w.ID, nil
}

func (r *SQLiteRepository) UpdateWithdrawal(ctx context.Context, w core.Withdrawal) error {
	existing, err := r.GetWithdrawal(ctx, w.ID)
	if err != nil {
		return err
	}
	w.OwnerID = existing.OwnerID
	w.CreatedAt = existing.CreatedAt
	w.Status = existing.Status // status changes go through SetWithdrawalStatus
	if err := w.Validate(); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE withdrawals
		SET amount = ?, client_account = ?, client_name = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		w.Amount.String(), w.ClientAccount, w.ClientName, w.Note,
		time.Now().UTC().Format(timeLayout), w.ID)
	if err != nil {
		return fmt.Errorf("update withdrawal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetWithdrawalStatus(ctx context.Context, id string, status core.Status) error {
	if !status.IsValid() {
		return core.ErrInvalidStatus
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE withdrawals SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("set withdrawal status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set withdrawal status rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetWithdrawal(ctx context.Context, id string) (core.Withdrawal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, amount, created_at, client_account, client_name, note, status, updated_at
		FROM withdrawals WHERE id = ?`, id)
	w, err := scanWithdrawal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Withdrawal{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Withdrawal{}, fmt.Errorf("get withdrawal: %w", err)
	}
	return w, nil
}

func (r *SQLiteRepository) ListWithdrawals(ctx context.Context, scope ledger.Scope) ([]core.Withdrawal, error) {
	query := `
		SELECT id, owner_user_id, amount, created_at, client_account, client_name, note, status, updated_at
		FROM withdrawals`
	where, args := scopeClause(scope)
	rows, err := r.db.QueryContext(ctx, query+where+` ORDER BY created_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var out []core.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// --- recurring deposit templates ---

func (r *SQLiteRepository) CreateRecurringDeposit(ctx context.Context, t core.RecurringDeposit) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.StartDate.IsZero() {
		t.StartDate = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_deposits (id, owner_user_id, amount, client_account, client_name, note, recurrence, start_date, last_run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Amount.String(), t.ClientAccount, t.ClientName, t.Note,
		string(t.Recurrence), t.StartDate.UTC().Format(timeLayout), formatNullableTime(t.LastRunAt))
	if err != nil {
		return "", fmt.Errorf("create recurring deposit: %w", err)
	}
	return t.ID, nil
}

func (r *SQLiteRepository) ListRecurringDeposits(ctx context.Context) ([]core.RecurringDeposit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_user_id, amount, client_account, client_name, note, recurrence, start_date, last_run_at
		FROM recurring_deposits ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring deposits: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringDeposit
	for rows.Next() {
		var t core.RecurringDeposit
		var amount, recurrence, startDate, lastRun string
		if err := rows.Scan(&t.ID, &t.OwnerID, &amount, &t.ClientAccount, &t.ClientName, &t.Note,
			&recurrence, &startDate, &lastRun); err != nil {
			return nil, fmt.Errorf("scan recurring deposit: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse recurring amount: %w", err)
		}
		t.Recurrence = core.Recurrence(recurrence)
		if t.StartDate, err = time.Parse(timeLayout, startDate); err != nil {
			return nil, fmt.Errorf("parse recurring start date: %w", err)
		}
		if lastRun != "" {
			if t.LastRunAt, err = time.Parse(timeLayout, lastRun); err != nil {
				return nil, fmt.Errorf("parse recurring last run: %w", err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteRecurringDeposit(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_deposits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring deposit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recurring deposit rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkRecurringRun(ctx context.Context, id string, ranAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_deposits SET last_run_at = ? WHERE id = ?`,
		ranAt.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("mark recurring run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark recurring run rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// --- rollups ---

// UpsertRollups replaces the stored per-employee rollup for one month.
func (r *SQLiteRepository) UpsertRollups(ctx context.Context, year, month int, entries []core.EmployeeTotals) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollup tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rollups WHERE year = ? AND month = ?`, year, month); err != nil {
		return fmt.Errorf("clear rollups: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rollups (year, month, owner_user_id, in_total, out_total, net, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			year, month, e.OwnerID, e.In.String(), e.Out.String(), e.Net.String(), now); err != nil {
			return fmt.Errorf("insert rollup: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollup tx: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListRollups(ctx context.Context, year, month int) ([]core.EmployeeTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT owner_user_id, in_total, out_total, net
		FROM rollups WHERE year = ? AND month = ?
		ORDER BY CAST(net AS REAL) DESC, owner_user_id`, year, month)
	if err != nil {
		return nil, fmt.Errorf("list rollups: %w", err)
	}
	defer rows.Close()

	var out []core.EmployeeTotals
	for rows.Next() {
		var e core.EmployeeTotals
		var in, outTotal, net string
		if err := rows.Scan(&e.OwnerID, &in, &outTotal, &net); err != nil {
			return nil, fmt.Errorf("scan rollup: %w", err)
		}
		if e.In, err = decimal.NewFromString(in); err != nil {
			return nil, fmt.Errorf("parse rollup in: %w", err)
		}
		if e.Out, err = decimal.NewFromString(outTotal); err != nil {
			return nil, fmt.Errorf("parse rollup out: %w", err)
		}
		if e.Net, err = decimal.NewFromString(net); err != nil {
			return nil, fmt.Errorf("parse rollup net: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- helpers ---

func scopeClause(scope ledger.Scope) (string, []any) {
	var conds []string
	var args []any
	if scope.OwnerID != "" {
		conds = append(conds, "owner_user_id = ?")
		args = append(args, scope.OwnerID)
	}
	if scope.Period != (core.Period{}) && !scope.Period.All {
		start, end := scope.Period.Window()
		conds = append(conds, "created_at >= ?", "created_at < ?")
		args = append(args, start.Format(timeLayout), end.Format(timeLayout))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanDeposit(scan func(...any) error) (core.Deposit, error) {
	var d core.Deposit
	var amount, createdAt, recurrence string
	if err := scan(&d.ID, &d.OwnerID, &amount, &createdAt,
		&d.ClientAccount, &d.ClientName, &recurrence, &d.Note); err != nil {
		return core.Deposit{}, err
	}
	var err error
	if d.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Deposit{}, fmt.Errorf("parse amount: %w", err)
	}
	if d.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.Deposit{}, fmt.Errorf("parse created_at: %w", err)
	}
	d.Recurrence = core.Recurrence(recurrence)
	return d, nil
}

func scanWithdrawal(scan func(...any) error) (core.Withdrawal, error) {
	var w core.Withdrawal
	var amount, createdAt, status, updatedAt string
	if err := scan(&w.ID, &w.OwnerID, &amount, &createdAt,
		&w.ClientAccount, &w.ClientName, &w.Note, &status, &updatedAt); err != nil {
		return core.Withdrawal{}, err
	}
	var err error
	if w.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Withdrawal{}, fmt.Errorf("parse amount: %w", err)
	}
	if w.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.Withdrawal{}, fmt.Errorf("parse created_at: %w", err)
	}
	if w.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return core.Withdrawal{}, fmt.Errorf("parse updated_at: %w", err)
	}
	w.Status = core.Status(status)
	return w, nil
}

func formatNullableTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func seedName(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return ""
	}
	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, t := range tokens {
		if t != "" {
			tokens[i] = strings.ToUpper(t[:1]) + strings.ToLower(t[1:])
		}
	}
	return strings.Join(tokens, " ")
}
