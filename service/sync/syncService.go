package syncsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Horsetech80/pagtracker-sub003/model"
	chargerepo "github.com/Horsetech80/pagtracker-sub003/repository/charge"
	efipayrepo "github.com/Horsetech80/pagtracker-sub003/repository/efipay"
)

// Batch size per invocation. Sync is an on-demand fallback for missed
// webhooks, not a scheduler; callers decide how often it runs.
const syncBatchLimit = 50

var ErrUnknownTxid = errors.New("txid not found locally")

type Result struct {
	Checked int      `json:"checked"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

type Service interface {
	SyncCharges(ctx context.Context, tenantID string) (*Result, error)
	SyncChargeByTxid(ctx context.Context, txid string) (*model.Charge, error)
}

type service struct {
	cr  chargerepo.Repo
	ep  efipayrepo.Repo
	log *slog.Logger
	now func() time.Time
}

func New(cr chargerepo.Repo, ep efipayrepo.Repo, log *slog.Logger) Service {
	return &service{cr: cr, ep: ep, log: log, now: time.Now}
}

// SyncCharges reconciles the newest non-terminal charges against the
// provider, optionally scoped to one tenant. Per-charge failures are
// accumulated; one bad charge never stops the rest of the batch.
func (s *service) SyncCharges(ctx context.Context, tenantID string) (*Result, error) {
	charges, err := s.cr.ListPendingForSync(ctx, tenantID, syncBatchLimit)
	if err != nil {
		return nil, err
	}

	res := &Result{Checked: len(charges)}
	for _, c := range charges {
		updated, err := s.reconcile(ctx, &c)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", c.Txid, err))
			continue
		}
		if updated {
			res.Updated++
		}
	}
	return res, nil
}

func (s *service) SyncChargeByTxid(ctx context.Context, txid string) (*model.Charge, error) {
	c, err := s.cr.ByTxid(ctx, txid)
	if err != nil {
		if errors.Is(err, chargerepo.ErrNotFound) {
			return nil, ErrUnknownTxid
		}
		return nil, err
	}
	if _, err := s.reconcile(ctx, c); err != nil {
		return nil, err
	}
	return s.cr.ByTxid(ctx, txid)
}

// reconcile pulls the provider's view of one charge and applies it
// locally when it differs. A provider 404 means the charge is no
// longer tracked there; locally that reads as expired.
func (s *service) reconcile(ctx context.Context, c *model.Charge) (bool, error) {
	if c.Status.Terminal() {
		return false, nil
	}

	resp, err := s.ep.GetCharge(ctx, c.TenantID, c.Txid)
	if err != nil {
		var apiErr *efipayrepo.APIError
		if errors.As(err, &apiErr) && apiErr.Kind == efipayrepo.KindNotFound {
			if uerr := s.cr.UpdateStatus(ctx, c.ID, model.ChargeExpired); uerr != nil {
				return false, uerr
			}
			s.log.Info("charge expired: provider no longer tracks txid", "txid", c.Txid)
			return true, nil
		}
		return false, err
	}

	to, ok := s.mapStatus(resp.Status, c.ExpiresAt)
	if !ok || to == c.Status {
		return false, nil
	}
	if err := s.cr.UpdateStatus(ctx, c.ID, to); err != nil {
		return false, err
	}
	s.log.Info("charge reconciled", "txid", c.Txid, "from", c.Status, "to", to)
	return true, nil
}

func (s *service) mapStatus(provider string, expiresAt *time.Time) (model.ChargeStatus, bool) {
	switch provider {
	case efipayrepo.CobConcluida:
		return model.ChargePaid, true
	case efipayrepo.CobRemovidaUsuario, efipayrepo.CobRemovidaPSP:
		return model.ChargeCanceled, true
	case efipayrepo.CobAtiva:
		if expiresAt != nil && s.now().After(*expiresAt) {
			return model.ChargeExpired, true
		}
		return model.ChargePending, true
	}
	return "", false
}
