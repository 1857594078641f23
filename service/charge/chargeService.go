package chargesvc

import (
	"context"
	"strings"
	"time"

	"github.com/Horsetech80/pagtracker-sub003/model"
	chargerepo "github.com/Horsetech80/pagtracker-sub003/repository/charge"
	efipayrepo "github.com/Horsetech80/pagtracker-sub003/repository/efipay"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, tenantID string, userID int64, req model.CreateChargeReq) (*model.Charge, error)
	Get(ctx context.Context, tenantID, id string) (*model.Charge, error)
	List(ctx context.Context, tenantID string, limit int) ([]model.Charge, error)
	PatchStatus(ctx context.Context, tenantID, id string, to model.ChargeStatus) (*model.Charge, error)
	Delete(ctx context.Context, tenantID, id string) error
	CreateKey(ctx context.Context, tenantID string) (string, error)
}

type service struct {
	cr    chargerepo.Repo
	ep    efipayrepo.Repo
	chave string // receiving PIX key used when the request carries none
}

func New(cr chargerepo.Repo, ep efipayrepo.Repo, chave string) Service {
	return &service{cr: cr, ep: ep, chave: chave}
}

// NewTxid builds a provider-acceptable txid: 32 alphanumeric chars.
func NewTxid() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create registers the charge with EfiPay, fetches its QR payload and
// only then persists it locally as pendente. A provider failure leaves
// no local row behind.
func (s *service) Create(ctx context.Context, tenantID string, userID int64, req model.CreateChargeReq) (*model.Charge, error) {
	chave := req.Chave
	if chave == "" {
		chave = s.chave
	}
	cob := efipayrepo.CobRequest{
		Calendario:         efipayrepo.Calendario{Expiracao: req.Calendario.Expiracao},
		Valor:              efipayrepo.Valor{Original: req.Valor.Original},
		Chave:              chave,
		SolicitacaoPagador: req.SolicitacaoPagador,
	}
	if req.Devedor != nil {
		cob.Devedor = &efipayrepo.Devedor{
			CPF:  efipayrepo.SanitizeDocument(req.Devedor.CPF),
			CNPJ: efipayrepo.SanitizeDocument(req.Devedor.CNPJ),
			Nome: req.Devedor.Nome,
		}
	}
	for _, ia := range req.InfoAdicionais {
		cob.InfoAdicionais = append(cob.InfoAdicionais, efipayrepo.InfoAdicional{Nome: ia.Nome, Valor: ia.Valor})
	}
	if err := efipayrepo.ValidateCobRequest(cob); err != nil {
		return nil, err
	}

	txid := NewTxid()
	resp, err := s.ep.CreateCharge(ctx, tenantID, txid, cob)
	if err != nil {
		return nil, err
	}

	c := &model.Charge{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		UserID:    userID,
		Valor:     req.Valor.Original,
		Descricao: req.SolicitacaoPagador,
		Status:    model.ChargePending,
		Txid:      resp.Txid,
		QRCode:    resp.PixCopiaECola,
	}

	exp := time.Now().UTC().Add(time.Duration(req.Calendario.Expiracao) * time.Second)
	c.ExpiresAt = &exp

	if resp.Loc != nil {
		c.LinkPagamento = resp.Loc.Location
		// the charge already exists at the provider; a failed QR
		// fetch only costs the rendered image
		if qr, err := s.ep.GetQRCode(ctx, tenantID, resp.Loc.ID); err == nil {
			if c.QRCode == "" {
				c.QRCode = qr.QRCode
			}
			c.QRCodeImage = qr.ImagemQRCode
		}
	}

	if err := s.cr.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, tenantID, id string) (*model.Charge, error) {
	return s.cr.ByID(ctx, tenantID, id)
}

func (s *service) List(ctx context.Context, tenantID string, limit int) ([]model.Charge, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.cr.List(ctx, tenantID, limit)
}

func (s *service) PatchStatus(ctx context.Context, tenantID, id string, to model.ChargeStatus) (*model.Charge, error) {
	c, err := s.cr.ByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.cr.UpdateStatus(ctx, c.ID, to); err != nil {
		return nil, err
	}
	return s.cr.ByID(ctx, tenantID, id)
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	return s.cr.SoftDelete(ctx, tenantID, id)
}

// CreateKey provisions a random (evp) receiving key at the provider.
func (s *service) CreateKey(ctx context.Context, tenantID string) (string, error) {
	resp, err := s.ep.CreateEvpKey(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return resp.Chave, nil
}
