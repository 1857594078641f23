package efipayrepo

import "context"

// Provider-side charge status strings.
const (
	CobAtiva           = "ATIVA"
	CobConcluida       = "CONCLUIDA"
	CobRemovidaUsuario = "REMOVIDA_PELO_USUARIO_RECEBEDOR"
	CobRemovidaPSP     = "REMOVIDA_PELO_PSP"
)

type Calendario struct {
	Criacao   string `json:"criacao,omitempty"`
	Expiracao int    `json:"expiracao"`
}

type Devedor struct {
	CPF  string `json:"cpf,omitempty"`
	CNPJ string `json:"cnpj,omitempty"`
	Nome string `json:"nome,omitempty"`
}

type Valor struct {
	Original string `json:"original"`
}

type InfoAdicional struct {
	Nome  string `json:"nome"`
	Valor string `json:"valor"`
}

type Loc struct {
	ID       int    `json:"id"`
	Location string `json:"location"`
	TipoCob  string `json:"tipoCob,omitempty"`
}

type CobRequest struct {
	Calendario         Calendario      `json:"calendario"`
	Devedor            *Devedor        `json:"devedor,omitempty"`
	Valor              Valor           `json:"valor"`
	Chave              string          `json:"chave"`
	SolicitacaoPagador string          `json:"solicitacaoPagador,omitempty"`
	InfoAdicionais     []InfoAdicional `json:"infoAdicionais,omitempty"`
}

type CobResponse struct {
	Calendario    Calendario `json:"calendario"`
	Txid          string     `json:"txid"`
	Revisao       int        `json:"revisao"`
	Loc           *Loc       `json:"loc,omitempty"`
	Status        string     `json:"status"`
	Devedor       *Devedor   `json:"devedor,omitempty"`
	Valor         Valor      `json:"valor"`
	Chave         string     `json:"chave"`
	PixCopiaECola string     `json:"pixCopiaECola,omitempty"`
}

type QRCodeResponse struct {
	QRCode           string `json:"qrcode"`
	ImagemQRCode     string `json:"imagemQrcode"`
	LinkVisualizacao string `json:"linkVisualizacao,omitempty"`
}

type PixEnvioRequest struct {
	Valor   string `json:"valor"`
	Pagador struct {
		Chave string `json:"chave"`
	} `json:"pagador"`
	Favorecido struct {
		Chave string `json:"chave"`
	} `json:"favorecido"`
}

type PixEnvioResponse struct {
	IDEnvio    string `json:"idEnvio"`
	EndToEndID string `json:"e2eId"`
	Valor      string `json:"valor"`
	Status     string `json:"status"`
}

type BalanceResponse struct {
	Saldo string `json:"saldo"`
}

// EvpKeyResponse is the random key (chave aleatoria) the provider
// creates on demand.
type EvpKeyResponse struct {
	Chave string `json:"chave"`
}

// Repo is the EfiPay API surface the rest of the service depends on.
// All calls authenticate with the tenant's configured credentials.
type Repo interface {
	CreateCharge(ctx context.Context, tenantID, txid string, req CobRequest) (*CobResponse, error)
	GetCharge(ctx context.Context, tenantID, txid string) (*CobResponse, error)
	GetQRCode(ctx context.Context, tenantID string, locID int) (*QRCodeResponse, error)
	CreateEvpKey(ctx context.Context, tenantID string) (*EvpKeyResponse, error)
	SendPix(ctx context.Context, tenantID, idEnvio string, req PixEnvioRequest) (*PixEnvioResponse, error)
	GetBalance(ctx context.Context, tenantID string) (*BalanceResponse, error)
}
