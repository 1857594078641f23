package paymentsvc

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Horsetech80/pagtracker-sub003/model"
	chargerepo "github.com/Horsetech80/pagtracker-sub003/repository/charge"
)

var (
	ErrBadSignature = errors.New("webhook signature mismatch")
	ErrBadPayload   = errors.New("webhook payload malformed")
)

type Service interface {
	HandleWebhook(ctx context.Context, sigHeader string, raw []byte) error
}

type service struct {
	cr     chargerepo.Repo
	secret string
	log    *slog.Logger
}

func New(cr chargerepo.Repo, secret string, log *slog.Logger) Service {
	return &service{cr: cr, secret: secret, log: log}
}

// Sign computes the hex HMAC-SHA256 EfiPay attaches to notifications.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(secret, sigHeader string, body []byte) bool {
	want, err := hex.DecodeString(sigHeader)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(want, mac.Sum(nil))
}

// HandleWebhook validates the provider push and marks the referenced
// charges paid. Individual items never fail the whole notification:
// the provider only needs receipt acknowledged, and re-delivery of an
// already-applied event must stay a no-op.
func (s *service) HandleWebhook(ctx context.Context, sigHeader string, raw []byte) error {
	if s.secret != "" && !verify(s.secret, sigHeader, raw) {
		return ErrBadSignature
	}

	var payload model.WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ErrBadPayload
	}
	if payload.Pix == nil {
		return ErrBadPayload
	}

	for _, item := range payload.Pix {
		if item.Txid == "" {
			s.log.Info("webhook item without txid dropped", "e2e_id", item.EndToEndID)
			continue
		}

		c, err := s.cr.ByTxid(ctx, item.Txid)
		if err != nil {
			if errors.Is(err, chargerepo.ErrNotFound) {
				s.log.Warn("webhook for unknown txid", "txid", item.Txid)
				continue
			}
			s.log.Error("webhook charge lookup failed", "txid", item.Txid, "err", err)
			continue
		}

		if err := s.cr.UpdateStatus(ctx, c.ID, model.ChargePaid); err != nil {
			if errors.Is(err, chargerepo.ErrTerminalStatus) {
				s.log.Warn("webhook for charge in terminal status",
					"txid", item.Txid, "status", c.Status)
				continue
			}
			s.log.Error("webhook status update failed", "txid", item.Txid, "err", err)
			continue
		}
		s.log.Info("charge paid via webhook", "txid", item.Txid, "tenant_id", c.TenantID, "valor", item.Valor)
	}
	return nil
}
