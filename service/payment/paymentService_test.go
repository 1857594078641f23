// service/payment/payment_service_test.go
package paymentsvc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Horsetech80/pagtracker-sub003/model"
	chargerepo "github.com/Horsetech80/pagtracker-sub003/repository/charge"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	byTxidFn       func(ctx context.Context, txid string) (*model.Charge, error)
	updateStatusFn func(ctx context.Context, id string, to model.ChargeStatus) error
}

var _ chargerepo.Repo = (*repoMock)(nil)

func (m *repoMock) ByTxid(ctx context.Context, txid string) (*model.Charge, error) {
	return m.byTxidFn(ctx, txid)
}
func (m *repoMock) UpdateStatus(ctx context.Context, id string, to model.ChargeStatus) error {
	return m.updateStatusFn(ctx, id, to)
}
func (m *repoMock) Create(ctx context.Context, c *model.Charge) error { return nil }
func (m *repoMock) ByID(ctx context.Context, tenantID, id string) (*model.Charge, error) {
	return nil, chargerepo.ErrNotFound
}
func (m *repoMock) List(ctx context.Context, tenantID string, limit int) ([]model.Charge, error) {
	return nil, nil
}
func (m *repoMock) SoftDelete(ctx context.Context, tenantID, id string) error { return nil }
func (m *repoMock) ListPendingForSync(ctx context.Context, tenantID string, limit int) ([]model.Charge, error) {
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// statefulRepo tracks one charge through webhook deliveries.
type statefulRepo struct {
	repoMock
	status model.ChargeStatus
}

func newStatefulRepo(txid string) *statefulRepo {
	r := &statefulRepo{status: model.ChargePending}
	r.byTxidFn = func(ctx context.Context, got string) (*model.Charge, error) {
		if got != txid {
			return nil, chargerepo.ErrNotFound
		}
		return &model.Charge{ID: "c-1", Txid: txid, Status: r.status}, nil
	}
	r.updateStatusFn = func(ctx context.Context, id string, to model.ChargeStatus) error {
		if r.status.Terminal() {
			if r.status == to {
				return nil
			}
			return chargerepo.ErrTerminalStatus
		}
		r.status = to
		return nil
	}
	return r
}

func TestHandleWebhook_SignatureAcceptAndReject(t *testing.T) {
	ctx := context.Background()
	r := newStatefulRepo("T123")
	s := New(r, "s", testLogger())

	body := []byte(`{"pix":[{"txid":"T123","valor":"10.50"}]}`)
	sig := Sign("s", body)

	require.NoError(t, s.HandleWebhook(ctx, sig, body))
	require.Equal(t, model.ChargePaid, r.status)

	// same signature over a mutated body must be rejected
	mutated := []byte(`{"pix":[{"txid":"T999","valor":"10.50"}]}`)
	err := s.HandleWebhook(ctx, sig, mutated)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestHandleWebhook_NoSecretSkipsCheck(t *testing.T) {
	r := newStatefulRepo("T123")
	s := New(r, "", testLogger())

	err := s.HandleWebhook(context.Background(), "", []byte(`{"pix":[{"txid":"T123"}]}`))
	require.NoError(t, err)
	require.Equal(t, model.ChargePaid, r.status)
}

func TestHandleWebhook_MalformedBody(t *testing.T) {
	s := New(&repoMock{}, "", testLogger())

	err := s.HandleWebhook(context.Background(), "", []byte(`{not json`))
	require.ErrorIs(t, err, ErrBadPayload)

	err = s.HandleWebhook(context.Background(), "", []byte(`{"evento":"x"}`))
	require.ErrorIs(t, err, ErrBadPayload)
}

func TestHandleWebhook_Idempotent(t *testing.T) {
	ctx := context.Background()
	r := newStatefulRepo("T123")
	s := New(r, "s", testLogger())

	body := []byte(`{"pix":[{"txid":"T123"}]}`)
	sig := Sign("s", body)

	require.NoError(t, s.HandleWebhook(ctx, sig, body))
	require.NoError(t, s.HandleWebhook(ctx, sig, body))
	require.Equal(t, model.ChargePaid, r.status)
}

func TestHandleWebhook_ItemWithoutTxidIsDropped(t *testing.T) {
	lookups := 0
	r := &repoMock{
		byTxidFn: func(ctx context.Context, txid string) (*model.Charge, error) {
			lookups++
			return nil, chargerepo.ErrNotFound
		},
	}
	s := New(r, "", testLogger())

	err := s.HandleWebhook(context.Background(), "", []byte(`{"pix":[{"endToEndId":"E1"},{"txid":""}]}`))
	require.NoError(t, err)
	require.Zero(t, lookups)
}

func TestHandleWebhook_UnknownTxidIsNotAnError(t *testing.T) {
	r := &repoMock{
		byTxidFn: func(ctx context.Context, txid string) (*model.Charge, error) {
			return nil, chargerepo.ErrNotFound
		},
	}
	s := New(r, "", testLogger())

	err := s.HandleWebhook(context.Background(), "", []byte(`{"pix":[{"txid":"unknown"}]}`))
	require.NoError(t, err)
}

func TestHandleWebhook_ItemFailureDoesNotAbortSiblings(t *testing.T) {
	updated := map[string]bool{}
	r := &repoMock{
		byTxidFn: func(ctx context.Context, txid string) (*model.Charge, error) {
			return &model.Charge{ID: txid, Txid: txid, Status: model.ChargePending}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, to model.ChargeStatus) error {
			if id == "T1" {
				return errors.New("db down")
			}
			updated[id] = true
			return nil
		},
	}
	s := New(r, "", testLogger())

	err := s.HandleWebhook(context.Background(), "", []byte(`{"pix":[{"txid":"T1"},{"txid":"T2"}]}`))
	require.NoError(t, err)
	require.True(t, updated["T2"])
}
