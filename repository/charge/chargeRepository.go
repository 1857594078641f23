package chargerepo

import (
	"context"
	"errors"

	"github.com/Horsetech80/pagtracker-sub003/model"
	"github.com/Horsetech80/pagtracker-sub003/util/database"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("charge not found")
	ErrDuplicateTxid  = errors.New("txid already registered for tenant")
	ErrTerminalStatus = errors.New("charge status is terminal")
)

type Repo interface {
	Create(ctx context.Context, c *model.Charge) error
	ByID(ctx context.Context, tenantID, id string) (*model.Charge, error)
	ByTxid(ctx context.Context, txid string) (*model.Charge, error)
	List(ctx context.Context, tenantID string, limit int) ([]model.Charge, error)
	UpdateStatus(ctx context.Context, id string, to model.ChargeStatus) error
	SoftDelete(ctx context.Context, tenantID, id string) error
	ListPendingForSync(ctx context.Context, tenantID string, limit int) ([]model.Charge, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const chargeCols = `id, tenant_id, user_id, valor, descricao, status, txid,
	qr_code, qr_code_image, link_pagamento, expires_at, created_at, updated_at`

func scanCharge(row pgx.Row) (*model.Charge, error) {
	c := &model.Charge{}
	err := row.Scan(&c.ID, &c.TenantID, &c.UserID, &c.Valor, &c.Descricao, &c.Status, &c.Txid,
		&c.QRCode, &c.QRCodeImage, &c.LinkPagamento, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) Create(ctx context.Context, c *model.Charge) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO charges (id, tenant_id, user_id, valor, descricao, status, txid,
			qr_code, qr_code_image, link_pagamento, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		c.ID, c.TenantID, c.UserID, c.Valor, c.Descricao, c.Status, c.Txid,
		c.QRCode, c.QRCodeImage, c.LinkPagamento, c.ExpiresAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateTxid
		}
		return err
	}
	return nil
}

func (r *repo) ByID(ctx context.Context, tenantID, id string) (*model.Charge, error) {
	return scanCharge(r.db.Pool.QueryRow(ctx, `
		SELECT `+chargeCols+`
		FROM charges
		WHERE id=$1 AND tenant_id=$2 AND deleted_at IS NULL`,
		id, tenantID))
}

// ByTxid looks a charge up without tenant scope. It exists for the
// webhook and sync paths, where the provider notification carries no
// tenant; txids embed a UUID so they do not collide across tenants.
func (r *repo) ByTxid(ctx context.Context, txid string) (*model.Charge, error) {
	return scanCharge(r.db.Pool.QueryRow(ctx, `
		SELECT `+chargeCols+`
		FROM charges
		WHERE txid=$1 AND deleted_at IS NULL`,
		txid))
}

func (r *repo) List(ctx context.Context, tenantID string, limit int) ([]model.Charge, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+chargeCols+`
		FROM charges
		WHERE tenant_id=$1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2`,
		tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Charge
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateStatus moves a charge out of pendente. Terminal statuses never
// change again: writing the status a charge already has is a no-op,
// any other write against a terminal charge fails.
func (r *repo) UpdateStatus(ctx context.Context, id string, to model.ChargeStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE charges
		SET status=$2, updated_at=now()
		WHERE id=$1 AND status='pendente' AND deleted_at IS NULL`,
		id, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current model.ChargeStatus
	err = r.db.Pool.QueryRow(ctx,
		`SELECT status FROM charges WHERE id=$1 AND deleted_at IS NULL`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if current == to {
		return nil
	}
	return ErrTerminalStatus
}

func (r *repo) SoftDelete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE charges
		SET deleted_at=now(), updated_at=now()
		WHERE id=$1 AND tenant_id=$2 AND deleted_at IS NULL`,
		id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPendingForSync returns the newest non-terminal charges, up to
// limit, optionally scoped to one tenant.
func (r *repo) ListPendingForSync(ctx context.Context, tenantID string, limit int) ([]model.Charge, error) {
	q := `
		SELECT ` + chargeCols + `
		FROM charges
		WHERE status='pendente' AND deleted_at IS NULL`
	args := []any{limit}
	if tenantID != "" {
		q += ` AND tenant_id=$2`
		args = append(args, tenantID)
	}
	q += `
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Charge
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
