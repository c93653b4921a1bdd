// Package gateway is a stateless typed wrapper around the jobreach
// backend HTTP API. Every operation performs exactly one request and
// either returns a fully decoded result or one of the three error
// kinds from errors.go. Retries are the caller's business.
package gateway

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiPrefix = "/api/v1"
	userAgent = "jobreach/cli"

	// The backend identifies the caller by an external session id
	// passed as a query parameter on every request.
	userIDParam = "clerk_user_id"

	defaultTimeout = 30 * time.Second
	// Uploads carry whole documents and get a larger bound.
	uploadTimeout = 60 * time.Second
)

type Client struct {
	logger       *zap.Logger
	APIURL       string
	UserAgent    string
	HTTPClient   *http.Client
	UploadClient *http.Client
}

// New returns a client rooted at baseURL (without the /api/v1 suffix).
func New(logger *zap.Logger, baseURL string) *Client {
	return &Client{
		logger:    logger,
		APIURL:    baseURL + apiPrefix,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UploadClient: &http.Client{
			Timeout: uploadTimeout,
		},
	}
}
