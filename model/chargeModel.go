// model/charge.go
package model

import "time"

type ChargeStatus string

const (
	ChargePending  ChargeStatus = "pendente"
	ChargePaid     ChargeStatus = "pago"
	ChargeExpired  ChargeStatus = "expirado"
	ChargeCanceled ChargeStatus = "cancelado"
	ChargeRefunded ChargeStatus = "estornado"
)

// Terminal reports whether s admits no further transition. Only
// pendente charges may change status; everything else is final.
func (s ChargeStatus) Terminal() bool {
	switch s {
	case ChargePaid, ChargeExpired, ChargeCanceled, ChargeRefunded:
		return true
	}
	return false
}

type Charge struct {
	ID            string       `json:"id"`
	TenantID      string       `json:"tenant_id"`
	UserID        int64        `json:"user_id"`
	Valor         string       `json:"valor"`
	Descricao     string       `json:"descricao,omitempty"`
	Status        ChargeStatus `json:"status"`
	Txid          string       `json:"txid"`
	QRCode        string       `json:"qr_code,omitempty"`
	QRCodeImage   string       `json:"qr_code_image,omitempty"`
	LinkPagamento string       `json:"link_pagamento,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type ChargeCalendario struct {
	Expiracao int `json:"expiracao" validate:"required,min=1,max=2147483647"`
}

type ChargeValor struct {
	Original string `json:"original" validate:"required,pixamount"`
}

type ChargeDevedor struct {
	CPF  string `json:"cpf,omitempty"`
	CNPJ string `json:"cnpj,omitempty"`
	Nome string `json:"nome" validate:"max=200"`
}

type ChargeInfoAdicional struct {
	Nome  string `json:"nome" validate:"required,max=50"`
	Valor string `json:"valor" validate:"required,max=200"`
}

// CreateChargeReq mirrors the /v2/cob payload accepted from clients.
// swagger:model CreateChargeReq
type CreateChargeReq struct {
	Calendario         ChargeCalendario      `json:"calendario" validate:"required"`
	Valor              ChargeValor           `json:"valor" validate:"required"`
	Chave              string                `json:"chave,omitempty" validate:"max=77"`
	Devedor            *ChargeDevedor        `json:"devedor,omitempty"`
	SolicitacaoPagador string                `json:"solicitacaoPagador,omitempty" validate:"max=140"`
	InfoAdicionais     []ChargeInfoAdicional `json:"infoAdicionais,omitempty" validate:"max=50,dive"`
}

// PatchChargeReq updates a charge's status through the API.
// swagger:model PatchChargeReq
type PatchChargeReq struct {
	Status ChargeStatus `json:"status" validate:"required,oneof=pago expirado cancelado estornado"`
}

// WebhookPayload is EfiPay's asynchronous payment notification body.
type WebhookPayload struct {
	Pix []WebhookPix `json:"pix"`
}

type WebhookPix struct {
	Txid        string `json:"txid"`
	EndToEndID  string `json:"endToEndId,omitempty"`
	Valor       string `json:"valor,omitempty"`
	Chave       string `json:"chave,omitempty"`
	Horario     string `json:"horario,omitempty"`
	InfoPagador string `json:"infoPagador,omitempty"`
	Devolucoes  []struct {
		ID     string `json:"id"`
		Valor  string `json:"valor"`
		Status string `json:"status"`
	} `json:"devolucoes,omitempty"`
}
