package withdrawalrepo

import (
	"context"
	"errors"

	"github.com/Horsetech80/pagtracker-sub003/model"
	"github.com/Horsetech80/pagtracker-sub003/util/database"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound            = errors.New("withdrawal not found")
	ErrNotPending          = errors.New("withdrawal already processed")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type Repo interface {
	CreatePending(ctx context.Context, w *model.Withdrawal) error
	ByID(ctx context.Context, id string) (*model.Withdrawal, error)
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]model.Withdrawal, error)
	Process(ctx context.Context, id string, to model.WithdrawalStatus, adminID int64, notes, reason *string) error
	AvailableBalance(ctx context.Context, tenantID string) (int64, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

// Paid charges credit the wallet; every withdrawal that was not
// rejected or failed stays reserved against it.
const balanceQuery = `
SELECT COALESCE((
	SELECT SUM((valor::numeric * 100)::bigint)
	FROM charges
	WHERE tenant_id=$1 AND status='pago' AND deleted_at IS NULL
), 0) - COALESCE((
	SELECT SUM(amount_cents)
	FROM withdrawals
	WHERE tenant_id=$1 AND status NOT IN ('rejected','failed')
), 0)`

func (r *repo) AvailableBalance(ctx context.Context, tenantID string) (int64, error) {
	var cents int64
	err := r.db.Pool.QueryRow(ctx, balanceQuery, tenantID).Scan(&cents)
	return cents, err
}

// CreatePending inserts the request after checking the computed
// balance inside one transaction. The tenant row is locked so two
// concurrent requests cannot both pass the check.
func (r *repo) CreatePending(ctx context.Context, w *model.Withdrawal) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var tid string
	if err := tx.QueryRow(ctx, `SELECT id FROM tenants WHERE id=$1 FOR UPDATE`, w.TenantID).Scan(&tid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	var available int64
	if err := tx.QueryRow(ctx, balanceQuery, w.TenantID).Scan(&available); err != nil {
		return err
	}
	if w.AmountCents > available {
		return ErrInsufficientBalance
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO withdrawals (id, tenant_id, user_id, amount_cents, fee_cents,
			pix_key, pix_key_type, description, status, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending',$9,$10)
		RETURNING created_at, updated_at`,
		w.ID, w.TenantID, w.UserID, w.AmountCents, w.FeeCents,
		w.PixKey, w.PixKeyType, w.Description, w.IPAddress, w.UserAgent,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return err
	}
	w.Status = model.WithdrawalPending
	return tx.Commit(ctx)
}

const withdrawalCols = `id, tenant_id, user_id, amount_cents, fee_cents, pix_key, pix_key_type,
	description, status, ip_address, user_agent, admin_notes, rejection_reason,
	processed_by, processed_at, created_at, updated_at`

func scanWithdrawal(row pgx.Row) (*model.Withdrawal, error) {
	w := &model.Withdrawal{}
	err := row.Scan(&w.ID, &w.TenantID, &w.UserID, &w.AmountCents, &w.FeeCents, &w.PixKey, &w.PixKeyType,
		&w.Description, &w.Status, &w.IPAddress, &w.UserAgent, &w.AdminNotes, &w.RejectionReason,
		&w.ProcessedBy, &w.ProcessedAt, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Withdrawal, error) {
	return scanWithdrawal(r.db.Pool.QueryRow(ctx, `
		SELECT `+withdrawalCols+`
		FROM withdrawals
		WHERE id=$1`,
		id))
}

func (r *repo) ListByTenant(ctx context.Context, tenantID string, limit int) ([]model.Withdrawal, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+withdrawalCols+`
		FROM withdrawals
		WHERE tenant_id=$1
		ORDER BY created_at DESC
		LIMIT $2`,
		tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// Process transitions pending -> approved|rejected. Anything already
// processed fails with ErrNotPending.
func (r *repo) Process(ctx context.Context, id string, to model.WithdrawalStatus, adminID int64, notes, reason *string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE withdrawals
		SET status=$2, processed_by=$3, processed_at=now(),
			admin_notes=COALESCE($4, admin_notes),
			rejection_reason=$5,
			updated_at=now()
		WHERE id=$1 AND status='pending'`,
		id, to, adminID, notes, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM withdrawals WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNotPending
}
