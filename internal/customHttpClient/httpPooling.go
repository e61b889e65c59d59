package customHttpClient

import (
	"net/http"

	"github.com/rgia/raglab/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient returns an http.Client that reuses connections across the
// embedding and chat calls a pipeline run makes against the same host.
func NewPooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
