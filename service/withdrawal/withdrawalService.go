package withdrawalsvc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Horsetech80/pagtracker-sub003/model"
	efipayrepo "github.com/Horsetech80/pagtracker-sub003/repository/efipay"
	withdrawalrepo "github.com/Horsetech80/pagtracker-sub003/repository/withdrawal"

	"github.com/google/uuid"
)

const (
	MinAmountCents = 100
	MaxAmountCents = 100_000_000

	// flat PIX payout fee plus a percentage, deducted from the
	// requested amount
	feeFlatCents = 100
	feeBasisPts  = 150 // 1.5%
)

var (
	ErrAmountOutOfRange = errors.New("amount outside allowed bounds")
	ErrAmountBelowFee   = errors.New("amount does not cover the withdrawal fee")
	ErrReasonRequired   = errors.New("rejection requires a reason")
	ErrInvalidAction    = errors.New("action must be approve or reject")
)

// Fee is the breakdown returned by Validate; NetCents is what the
// payout executor would actually transfer.
type Fee struct {
	AmountCents int64 `json:"amount_cents"`
	FeeCents    int64 `json:"fee_cents"`
	NetCents    int64 `json:"net_cents"`
}

// BalanceInfo pairs the locally computed balance with the EfiPay
// account saldo. ProviderSaldo is nil when the provider lookup fails;
// the local figure is what withdrawal validation runs against.
type BalanceInfo struct {
	AvailableCents int64   `json:"available_cents"`
	ProviderSaldo  *string `json:"provider_saldo,omitempty"`
}

type Service interface {
	Validate(amountCents int64) (*Fee, error)
	Create(ctx context.Context, tenantID string, userID int64, req model.CreateWithdrawalReq, ip, userAgent string) (*model.Withdrawal, error)
	Process(ctx context.Context, id string, adminID int64, req model.ProcessWithdrawalReq) (*model.Withdrawal, error)
	List(ctx context.Context, tenantID string, limit int) ([]model.Withdrawal, error)
	Balance(ctx context.Context, tenantID string) (*BalanceInfo, error)
}

type service struct {
	wr  withdrawalrepo.Repo
	ep  efipayrepo.Repo
	log *slog.Logger
}

func New(wr withdrawalrepo.Repo, ep efipayrepo.Repo, log *slog.Logger) Service {
	return &service{wr: wr, ep: ep, log: log}
}

func CalculateFee(amountCents int64) int64 {
	fee := amountCents * feeBasisPts / 10_000
	if fee < feeFlatCents {
		fee = feeFlatCents
	}
	return fee
}

func (s *service) Validate(amountCents int64) (*Fee, error) {
	if amountCents < MinAmountCents || amountCents > MaxAmountCents {
		return nil, ErrAmountOutOfRange
	}
	fee := CalculateFee(amountCents)
	if amountCents <= fee {
		return nil, ErrAmountBelowFee
	}
	return &Fee{AmountCents: amountCents, FeeCents: fee, NetCents: amountCents - fee}, nil
}

// Create persists a pending payout request. The balance check happens
// in the repository transaction so a concurrent request for the same
// tenant cannot double-spend.
func (s *service) Create(ctx context.Context, tenantID string, userID int64, req model.CreateWithdrawalReq, ip, userAgent string) (*model.Withdrawal, error) {
	fee, err := s.Validate(req.Amount)
	if err != nil {
		return nil, err
	}

	w := &model.Withdrawal{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		UserID:      userID,
		AmountCents: fee.AmountCents,
		FeeCents:    fee.FeeCents,
		PixKey:      req.PixKey,
		PixKeyType:  req.PixKeyType,
	}
	if req.Description != "" {
		w.Description = &req.Description
	}
	if ip != "" {
		w.IPAddress = &ip
	}
	if userAgent != "" {
		w.UserAgent = &userAgent
	}

	if err := s.wr.CreatePending(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Process applies the admin decision. Approval is terminal here: the
// actual transfer belongs to an external payout executor.
func (s *service) Process(ctx context.Context, id string, adminID int64, req model.ProcessWithdrawalReq) (*model.Withdrawal, error) {
	var to model.WithdrawalStatus
	var reason *string

	switch req.Action {
	case "approve":
		to = model.WithdrawalApproved
	case "reject":
		if req.RejectionReason == "" {
			return nil, ErrReasonRequired
		}
		to = model.WithdrawalRejected
		reason = &req.RejectionReason
	default:
		return nil, ErrInvalidAction
	}

	var notes *string
	if req.AdminNotes != "" {
		notes = &req.AdminNotes
	}

	if err := s.wr.Process(ctx, id, to, adminID, notes, reason); err != nil {
		return nil, err
	}
	return s.wr.ByID(ctx, id)
}

func (s *service) List(ctx context.Context, tenantID string, limit int) ([]model.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.wr.ListByTenant(ctx, tenantID, limit)
}

func (s *service) Balance(ctx context.Context, tenantID string) (*BalanceInfo, error) {
	cents, err := s.wr.AvailableBalance(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	info := &BalanceInfo{AvailableCents: cents}

	if s.ep != nil {
		saldo, err := s.ep.GetBalance(ctx, tenantID)
		if err != nil {
			s.log.Warn("provider balance lookup failed", "tenant_id", tenantID, "err", err)
		} else {
			info.ProviderSaldo = &saldo.Saldo
		}
	}
	return info, nil
}
