package semaphore

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ebdruplab/semactl/internal/core/ports"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 30 * time.Second

type Config struct {
	// Host must include the scheme, e.g. "http://semaphore.internal".
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required,gt=0,lte=65535"`
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Timeout            time.Duration `yaml:"timeout"`
	// RequestsPerSecond caps outgoing calls when > 0. Zero means unlimited.
	RequestsPerSecond int `yaml:"requests_per_second" validate:"gte=0"`
}

// Client performs authenticated HTTP calls against one Semaphore server.
// Every call is a single attempt: no retries, no re-authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     ports.Logger
}

func NewClient(cfg Config, logger ports.Logger) (*Client, error) {
	if logger == nil {
		return nil, apperrors.New(apperrors.CodeConfigValidation, "logger cannot be nil for semaphore client")
	}
	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		return nil, apperrors.New(apperrors.CodeConfigValidation, "semaphore host cannot be empty")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:    fmt.Sprintf("%s:%d", host, cfg.Port),
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// BaseURL returns the resolved server address, mainly for log messages.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one request. creds may be nil only for unauthenticated
// endpoints (login, ping). On 2xx the body, if present, is decoded into out;
// a nil out or an empty body skips decoding. Non-2xx responses become
// *APIError values wrapped in the matching application error code.
func (c *Client) do(ctx context.Context, creds *Credentials, method, path string, body any, out any) error {
	resp, raw, err := c.roundTrip(ctx, creds, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return wrapStatusError(method, path, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))})
	}

	if out == nil || len(raw) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDecodeError,
			fmt.Sprintf("failed to decode %s %s response", method, path))
	}
	return nil
}

// doRaw is do for endpoints that answer with plain text.
func (c *Client) doRaw(ctx context.Context, creds *Credentials, method, path string) (string, int, error) {
	resp, raw, err := c.roundTrip(ctx, creds, method, path, nil)
	if err != nil {
		return "", 0, err
	}
	text := strings.TrimSpace(string(raw))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode, wrapStatusError(method, path, &APIError{StatusCode: resp.StatusCode, Body: text})
	}
	return text, resp.StatusCode, nil
}

func (c *Client) roundTrip(ctx context.Context, creds *Credentials, method, path string, body any) (*http.Response, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, apperrors.Wrap(err, apperrors.CodeTransportError, "rate limiter wait interrupted")
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal,
				fmt.Sprintf("failed to encode %s %s request body", method, path))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if creds != nil {
		if err := creds.apply(req); err != nil {
			return nil, nil, err
		}
	}

	c.logger.Debugf(ctx, "%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeTransportError,
			fmt.Sprintf("request to %s%s failed", c.baseURL, path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeTransportError,
			fmt.Sprintf("failed reading %s %s response", method, path))
	}
	return resp, raw, nil
}
