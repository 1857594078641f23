package efipayrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Credentials are a tenant's EfiPay application keys. The client
// certificate is part of the http.Client handed to NewHTTP.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// CredentialsFn resolves the credentials configured for a tenant.
type CredentialsFn func(tenantID string) (Credentials, error)

// StaticCredentials serves the same keys to every tenant, the
// single-account deployment mode.
func StaticCredentials(id, secret string) CredentialsFn {
	return func(string) (Credentials, error) {
		return Credentials{ClientID: id, ClientSecret: secret}, nil
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type httpRepo struct {
	baseURL string
	creds   CredentialsFn
	cache   *TokenCache
	client  *http.Client
}

func NewHTTP(baseURL string, creds CredentialsFn, cache *TokenCache, client *http.Client) Repo {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &httpRepo{baseURL: baseURL, creds: creds, cache: cache, client: client}
}

func (r *httpRepo) getToken(ctx context.Context, tenantID string) (string, error) {
	if tok, ok := r.cache.Get(tenantID); ok {
		return tok, nil
	}

	c, err := r.creds(tenantID)
	if err != nil {
		return "", &APIError{Kind: KindAuth, Status: 401, Nome: "credenciais_nao_configuradas", Detail: err.Error()}
	}

	body := bytes.NewReader([]byte(`{"grant_type":"client_credentials"}`))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/oauth/token", body)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &APIError{Kind: KindProvider, Status: 0, Nome: "oauth_indisponivel", Detail: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Kind: KindAuth, Status: resp.StatusCode, Nome: "credenciais_rejeitadas"}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", &APIError{Kind: KindAuth, Status: resp.StatusCode, Nome: "token_vazio"}
	}
	r.cache.Put(tenantID, tr.AccessToken, time.Duration(tr.ExpiresIn)*time.Second)
	return tr.AccessToken, nil
}

// providerError mirrors the two error shapes the API answers with.
type providerError struct {
	Nome     string `json:"nome"`
	Mensagem string `json:"mensagem"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

func (r *httpRepo) do(ctx context.Context, tenantID, method, path string, in, out any) error {
	tok, err := r.getToken(ctx, tenantID)
	if err != nil {
		return err
	}

	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return &APIError{Kind: KindProvider, Status: 0, Nome: "provedor_indisponivel", Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var pe providerError
		_ = json.NewDecoder(resp.Body).Decode(&pe)
		nome := pe.Nome
		if nome == "" {
			nome = pe.Title
		}
		detail := pe.Mensagem
		if detail == "" {
			detail = pe.Detail
		}
		return &APIError{Kind: kindFor(resp.StatusCode, nome), Status: resp.StatusCode, Nome: nome, Detail: detail}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *httpRepo) CreateCharge(ctx context.Context, tenantID, txid string, req CobRequest) (*CobResponse, error) {
	var out CobResponse
	if err := r.do(ctx, tenantID, http.MethodPut, "/v2/cob/"+txid, req, &out); err != nil {
		return nil, err
	}
	if out.Txid == "" {
		return nil, &APIError{Kind: KindProvider, Status: 0, Nome: "resposta_invalida", Detail: "cobranca sem txid"}
	}
	return &out, nil
}

func (r *httpRepo) GetCharge(ctx context.Context, tenantID, txid string) (*CobResponse, error) {
	var out CobResponse
	if err := r.do(ctx, tenantID, http.MethodGet, "/v2/cob/"+txid, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) GetQRCode(ctx context.Context, tenantID string, locID int) (*QRCodeResponse, error) {
	var out QRCodeResponse
	if err := r.do(ctx, tenantID, http.MethodGet, fmt.Sprintf("/v2/loc/%d/qrcode", locID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) CreateEvpKey(ctx context.Context, tenantID string) (*EvpKeyResponse, error) {
	var out EvpKeyResponse
	if err := r.do(ctx, tenantID, http.MethodPost, "/v2/gn/evp", nil, &out); err != nil {
		return nil, err
	}
	if out.Chave == "" {
		return nil, &APIError{Kind: KindProvider, Status: 0, Nome: "resposta_invalida", Detail: "evp sem chave"}
	}
	return &out, nil
}

func (r *httpRepo) SendPix(ctx context.Context, tenantID, idEnvio string, req PixEnvioRequest) (*PixEnvioResponse, error) {
	var out PixEnvioResponse
	if err := r.do(ctx, tenantID, http.MethodPut, "/v2/gn/pix/"+idEnvio, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) GetBalance(ctx context.Context, tenantID string) (*BalanceResponse, error) {
	var out BalanceResponse
	if err := r.do(ctx, tenantID, http.MethodGet, "/v2/gn/saldo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
