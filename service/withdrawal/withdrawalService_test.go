// service/withdrawal/withdrawal_service_test.go
package withdrawalsvc_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Horsetech80/pagtracker-sub003/model"
	efipayrepo "github.com/Horsetech80/pagtracker-sub003/repository/efipay"
	withdrawalrepo "github.com/Horsetech80/pagtracker-sub003/repository/withdrawal"
	withdrawalsvc "github.com/Horsetech80/pagtracker-sub003/service/withdrawal"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	createPendingFn func(ctx context.Context, w *model.Withdrawal) error
	byIDFn          func(ctx context.Context, id string) (*model.Withdrawal, error)
	processFn       func(ctx context.Context, id string, to model.WithdrawalStatus, adminID int64, notes, reason *string) error
	balanceFn       func(ctx context.Context, tenantID string) (int64, error)
}

var _ withdrawalrepo.Repo = (*repoMock)(nil)

func (m *repoMock) CreatePending(ctx context.Context, w *model.Withdrawal) error {
	return m.createPendingFn(ctx, w)
}
func (m *repoMock) ByID(ctx context.Context, id string) (*model.Withdrawal, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) ListByTenant(ctx context.Context, tenantID string, limit int) ([]model.Withdrawal, error) {
	return nil, nil
}
func (m *repoMock) Process(ctx context.Context, id string, to model.WithdrawalStatus, adminID int64, notes, reason *string) error {
	return m.processFn(ctx, id, to, adminID, notes, reason)
}
func (m *repoMock) AvailableBalance(ctx context.Context, tenantID string) (int64, error) {
	return m.balanceFn(ctx, tenantID)
}

// newSvc builds the service without a provider client; the provider
// saldo is additive and irrelevant to these cases.
func newSvc(m *repoMock) withdrawalsvc.Service {
	return withdrawalsvc.New(m, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestValidate_Bounds(t *testing.T) {
	s := newSvc(&repoMock{})

	_, err := s.Validate(99)
	require.ErrorIs(t, err, withdrawalsvc.ErrAmountOutOfRange)

	_, err = s.Validate(100_000_001)
	require.ErrorIs(t, err, withdrawalsvc.ErrAmountOutOfRange)

	// minimum amount does not cover the flat fee
	_, err = s.Validate(100)
	require.ErrorIs(t, err, withdrawalsvc.ErrAmountBelowFee)

	fee, err := s.Validate(10_000)
	require.NoError(t, err)
	require.Equal(t, int64(150), fee.FeeCents)
	require.Equal(t, int64(9_850), fee.NetCents)
}

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int64
	}{
		{"flat floor", 500, 100},
		{"flat floor boundary", 6_666, 100},
		{"percentage", 10_000, 150},
		{"large amount", 1_000_000, 15_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withdrawalsvc.CalculateFee(tt.amount); got != tt.want {
				t.Errorf("CalculateFee(%d) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

func TestCreate_OverBalanceCreatesNothing(t *testing.T) {
	m := &repoMock{
		createPendingFn: func(ctx context.Context, w *model.Withdrawal) error {
			return withdrawalrepo.ErrInsufficientBalance
		},
	}
	s := newSvc(m)

	_, err := s.Create(context.Background(), "tenant-1", 42,
		model.CreateWithdrawalReq{Amount: 50_000, PixKey: "k@x.com", PixKeyType: "email"},
		"10.0.0.1", "curl/8")
	require.ErrorIs(t, err, withdrawalrepo.ErrInsufficientBalance)
}

func TestCreate_Success(t *testing.T) {
	var persisted *model.Withdrawal
	m := &repoMock{
		createPendingFn: func(ctx context.Context, w *model.Withdrawal) error {
			persisted = w
			w.Status = model.WithdrawalPending
			return nil
		},
	}
	s := newSvc(m)

	w, err := s.Create(context.Background(), "tenant-1", 42,
		model.CreateWithdrawalReq{Amount: 10_000, PixKey: "k@x.com", PixKeyType: "email", Description: "payout"},
		"10.0.0.1", "curl/8")
	require.NoError(t, err)
	require.Equal(t, model.WithdrawalPending, w.Status)
	require.Equal(t, int64(10_000), w.AmountCents)
	require.Equal(t, int64(150), w.FeeCents)
	require.NotNil(t, persisted.IPAddress)
	require.Equal(t, "10.0.0.1", *persisted.IPAddress)
	require.NotNil(t, persisted.UserAgent)
	require.NotEmpty(t, w.ID)
}

func TestCreate_InvalidAmountNeverReachesRepo(t *testing.T) {
	m := &repoMock{
		createPendingFn: func(ctx context.Context, w *model.Withdrawal) error {
			t.Fatal("repository must not be called for invalid amounts")
			return nil
		},
	}
	s := newSvc(m)

	_, err := s.Create(context.Background(), "tenant-1", 42,
		model.CreateWithdrawalReq{Amount: 10, PixKey: "k@x.com", PixKeyType: "email"}, "", "")
	require.ErrorIs(t, err, withdrawalsvc.ErrAmountOutOfRange)
}

func TestProcess_RejectWithoutReasonNeverReachesRepo(t *testing.T) {
	m := &repoMock{
		processFn: func(ctx context.Context, id string, to model.WithdrawalStatus, adminID int64, notes, reason *string) error {
			t.Fatal("repository must not be called without a rejection reason")
			return nil
		},
	}
	s := newSvc(m)

	_, err := s.Process(context.Background(), "w-1", 7, model.ProcessWithdrawalReq{Action: "reject"})
	require.ErrorIs(t, err, withdrawalsvc.ErrReasonRequired)
}

func TestProcess_Approve(t *testing.T) {
	m := &repoMock{
		processFn: func(ctx context.Context, id string, to model.WithdrawalStatus, adminID int64, notes, reason *string) error {
			require.Equal(t, model.WithdrawalApproved, to)
			require.Equal(t, int64(7), adminID)
			require.Nil(t, reason)
			return nil
		},
		byIDFn: func(ctx context.Context, id string) (*model.Withdrawal, error) {
			return &model.Withdrawal{ID: id, Status: model.WithdrawalApproved}, nil
		},
	}
	s := newSvc(m)

	w, err := s.Process(context.Background(), "w-1", 7, model.ProcessWithdrawalReq{Action: "approve"})
	require.NoError(t, err)
	require.Equal(t, model.WithdrawalApproved, w.Status)
}

func TestProcess_AlreadyProcessed(t *testing.T) {
	m := &repoMock{
		processFn: func(ctx context.Context, id string, to model.WithdrawalStatus, adminID int64, notes, reason *string) error {
			return withdrawalrepo.ErrNotPending
		},
	}
	s := newSvc(m)

	_, err := s.Process(context.Background(), "w-1", 7,
		model.ProcessWithdrawalReq{Action: "reject", RejectionReason: "suspect"})
	require.ErrorIs(t, err, withdrawalrepo.ErrNotPending)
}

type efipayMock struct {
	balanceFn func(ctx context.Context, tenantID string) (*efipayrepo.BalanceResponse, error)
}

var _ efipayrepo.Repo = (*efipayMock)(nil)

func (m *efipayMock) CreateCharge(ctx context.Context, tenantID, txid string, req efipayrepo.CobRequest) (*efipayrepo.CobResponse, error) {
	return nil, nil
}
func (m *efipayMock) GetCharge(ctx context.Context, tenantID, txid string) (*efipayrepo.CobResponse, error) {
	return nil, nil
}
func (m *efipayMock) GetQRCode(ctx context.Context, tenantID string, locID int) (*efipayrepo.QRCodeResponse, error) {
	return nil, nil
}
func (m *efipayMock) CreateEvpKey(ctx context.Context, tenantID string) (*efipayrepo.EvpKeyResponse, error) {
	return nil, nil
}
func (m *efipayMock) SendPix(ctx context.Context, tenantID, idEnvio string, req efipayrepo.PixEnvioRequest) (*efipayrepo.PixEnvioResponse, error) {
	return nil, nil
}
func (m *efipayMock) GetBalance(ctx context.Context, tenantID string) (*efipayrepo.BalanceResponse, error) {
	return m.balanceFn(ctx, tenantID)
}

func TestBalance_IncludesProviderSaldo(t *testing.T) {
	m := &repoMock{
		balanceFn: func(ctx context.Context, tenantID string) (int64, error) { return 12_345, nil },
	}
	ep := &efipayMock{
		balanceFn: func(ctx context.Context, tenantID string) (*efipayrepo.BalanceResponse, error) {
			require.Equal(t, "tenant-1", tenantID)
			return &efipayrepo.BalanceResponse{Saldo: "123.45"}, nil
		},
	}
	s := withdrawalsvc.New(m, ep, slog.New(slog.NewTextHandler(io.Discard, nil)))

	info, err := s.Balance(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Equal(t, int64(12_345), info.AvailableCents)
	require.NotNil(t, info.ProviderSaldo)
	require.Equal(t, "123.45", *info.ProviderSaldo)
}

func TestBalance_ProviderFailureKeepsLocal(t *testing.T) {
	m := &repoMock{
		balanceFn: func(ctx context.Context, tenantID string) (int64, error) { return 500, nil },
	}
	ep := &efipayMock{
		balanceFn: func(ctx context.Context, tenantID string) (*efipayrepo.BalanceResponse, error) {
			return nil, errors.New("gateway timeout")
		},
	}
	s := withdrawalsvc.New(m, ep, slog.New(slog.NewTextHandler(io.Discard, nil)))

	info, err := s.Balance(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Equal(t, int64(500), info.AvailableCents)
	require.Nil(t, info.ProviderSaldo)
}
