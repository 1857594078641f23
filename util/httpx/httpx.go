package httpx

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

var defaultClient = newClient(nil)

func newClient(tlsCfg *tls.Config) *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: tlsCfg,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func Client() *http.Client { return defaultClient }

// ClientWithCert returns a client presenting the given certificate,
// for providers that require mTLS (EfiPay does).
func ClientWithCert(cert tls.Certificate) *http.Client {
	return newClient(&tls.Config{Certificates: []tls.Certificate{cert}})
}
