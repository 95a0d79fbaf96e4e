package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// ErrDecodeResponse is returned when a 2xx body cannot be decoded into the target.
var ErrDecodeResponse = errors.New("decode response")

type Connector struct {
	baseURL    string
	httpClient *http.Client
	retryOpts  []retry.Option
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
	// Retry applies to network failures only. Empty means one attempt.
	Retry []retry.Option
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		retryOpts:  config.Retry,
		logger:     logger,
	}
}

type RequestOpt func(http.Header)

func WithHeader(key, value string) RequestOpt {
	return func(h http.Header) { h.Set(key, value) }
}

// outbound is a fully encoded request body that can be replayed on retry.
type outbound struct {
	method      string
	url         string
	payload     []byte
	contentType string
	header      http.Header
}

func (o *outbound) build(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if o.payload != nil {
		body = bytes.NewReader(o.payload)
	}
	req, err := http.NewRequestWithContext(ctx, o.method, o.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = o.header.Clone()
	if o.contentType != "" {
		req.Header.Set("Content-Type", o.contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Connector) outbound(method, endpoint string, opts []RequestOpt) *outbound {
	header := make(http.Header)
	for _, opt := range opts {
		opt(header)
	}
	return &outbound{method: method, url: c.baseURL + endpoint, header: header}
}

// DoRequest sends reqBody as JSON and decodes a 2xx body into respBody.
// An empty 2xx body is ErrDecodeResponse when respBody is set.
// Non-2xx responses come back as *HTTPError carrying the raw body.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	out := c.outbound(method, endpoint, opts)
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		out.payload = payload
		out.contentType = "application/json"
		ctx = context.WithValue(ctx, payloadContextKey{}, payload)
	}
	return c.send(ctx, out, respBody)
}

// DoMultipartRequest fills a multipart body with fill and sends it.
func (c *Connector) DoMultipartRequest(ctx context.Context, method, endpoint string, fill func(*multipart.Writer) error, respBody any, opts ...RequestOpt) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := fill(mw); err != nil {
		return fmt.Errorf("prepare multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	out := c.outbound(method, endpoint, opts)
	out.payload = buf.Bytes()
	out.contentType = mw.FormDataContentType()
	ctx = context.WithValue(ctx, bodySizeContextKey{}, buf.Len())
	return c.send(ctx, out, respBody)
}

func (c *Connector) send(ctx context.Context, out *outbound, respBody any) error {
	var (
		status int
		body   []byte
	)

	attempt := func() error {
		req, err := out.build(ctx)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &NetworkError{Err: err}
		}
		defer resp.Body.Close()

		if body, err = io.ReadAll(resp.Body); err != nil {
			return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
		}
		status = resp.StatusCode
		return nil
	}

	opts := []retry.Option{
		retry.Attempts(1),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsNetworkError),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying outbound request",
				zap.String("url", out.url),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	}
	if err := retry.Do(attempt, append(opts, c.retryOpts...)...); err != nil {
		return err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &HTTPError{StatusCode: status, Message: string(body), Body: body}
	}
	if respBody == nil {
		return nil
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrDecodeResponse)
	}
	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	return nil
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError wraps transport failures such as refused connections and timeouts.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
