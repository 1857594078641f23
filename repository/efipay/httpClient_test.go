package efipayrepo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Repo, *TokenCache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache := NewTokenCache()
	repo := NewHTTP(srv.URL, StaticCredentials("cid", "secret"), cache, srv.Client())
	return srv, repo, cache
}

func tokenHandler(t *testing.T, tokenCalls *int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			*tokenCalls++
			user, pass, ok := r.BasicAuth()
			if !ok || user != "cid" || pass != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1", "token_type": "Bearer", "expires_in": 3600,
			})
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func TestCreateCharge_TokenIsFetchedOnceAndReused(t *testing.T) {
	tokenCalls := 0
	_, repo, _ := newTestServer(t, tokenHandler(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var req CobRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "10.50", req.Valor.Original)

		json.NewEncoder(w).Encode(CobResponse{
			Txid:   "abc123",
			Status: CobAtiva,
			Loc:    &Loc{ID: 1, Location: "pix.example/qr"},
			Valor:  Valor{Original: req.Valor.Original},
		})
	}))

	ctx := context.Background()
	req := CobRequest{
		Calendario: Calendario{Expiracao: 3600},
		Valor:      Valor{Original: "10.50"},
		Chave:      "a@b.com",
	}

	resp, err := repo.CreateCharge(ctx, "tenant-1", "abc123", req)
	require.NoError(t, err)
	require.Equal(t, "abc123", resp.Txid)
	require.Equal(t, CobAtiva, resp.Status)

	_, err = repo.CreateCharge(ctx, "tenant-1", "abc124", req)
	require.NoError(t, err)
	require.Equal(t, 1, tokenCalls, "token must be cached between calls")
}

func TestGetCharge_404MapsToNotFoundKind(t *testing.T) {
	tokenCalls := 0
	_, repo, _ := newTestServer(t, tokenHandler(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"nome": "cobranca_nao_encontrada", "mensagem": "txid desconhecido",
		})
	}))

	_, err := repo.GetCharge(context.Background(), "tenant-1", "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindNotFound, apiErr.Kind)
	require.Equal(t, 404, apiErr.Status)
	require.Equal(t, "cobranca_nao_encontrada", apiErr.Nome)
	require.Equal(t, http.StatusNotFound, apiErr.HTTPStatus())
}

func TestCreateCharge_DuplicateTxid(t *testing.T) {
	tokenCalls := 0
	_, repo, _ := newTestServer(t, tokenHandler(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"nome": "cobranca_duplicada"})
	}))

	_, err := repo.CreateCharge(context.Background(), "tenant-1", "dup", CobRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindDuplicate, apiErr.Kind)
	require.Equal(t, http.StatusConflict, apiErr.HTTPStatus())
}

func TestGetToken_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	repo := NewHTTP(srv.URL, StaticCredentials("bad", "creds"), NewTokenCache(), srv.Client())

	_, err := repo.GetBalance(context.Background(), "tenant-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindAuth, apiErr.Kind)
	require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus())
}

func TestTokenCache_ExpiryThroughClock(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cache := NewTokenCacheWithClock(func() time.Time { return now })

	cache.Put("tenant-1", "tok", time.Hour)

	got, ok := cache.Get("tenant-1")
	require.True(t, ok)
	require.Equal(t, "tok", got)

	_, ok = cache.Get("tenant-2")
	require.False(t, ok)

	// inside the slack window the token counts as expired
	now = now.Add(time.Hour - 30*time.Second)
	_, ok = cache.Get("tenant-1")
	require.False(t, ok)
}

func TestGetBalance(t *testing.T) {
	tokenCalls := 0
	_, repo, _ := newTestServer(t, tokenHandler(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/gn/saldo", r.URL.Path)
		json.NewEncoder(w).Encode(BalanceResponse{Saldo: "1234.56"})
	}))

	b, err := repo.GetBalance(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Equal(t, "1234.56", b.Saldo)
}

func TestSendPix(t *testing.T) {
	tokenCalls := 0
	_, repo, _ := newTestServer(t, tokenHandler(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/v2/gn/pix/envio-1", r.URL.Path)

		var req PixEnvioRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "98.50", req.Valor)

		json.NewEncoder(w).Encode(PixEnvioResponse{
			IDEnvio: "envio-1", EndToEndID: "E123", Valor: req.Valor, Status: "EM_PROCESSAMENTO",
		})
	}))

	var req PixEnvioRequest
	req.Valor = "98.50"
	req.Pagador.Chave = "loja@example.com"
	req.Favorecido.Chave = "destino@example.com"

	resp, err := repo.SendPix(context.Background(), "tenant-1", "envio-1", req)
	require.NoError(t, err)
	require.Equal(t, "E123", resp.EndToEndID)
	require.Equal(t, "EM_PROCESSAMENTO", resp.Status)
}

func TestCreateEvpKey(t *testing.T) {
	tokenCalls := 0
	_, repo, _ := newTestServer(t, tokenHandler(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/gn/evp", r.URL.Path)
		json.NewEncoder(w).Encode(EvpKeyResponse{Chave: "2c1e9f4a-1b2c-4d3e-9f8a-7b6c5d4e3f2a"})
	}))

	k, err := repo.CreateEvpKey(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.NotEmpty(t, k.Chave)
}
