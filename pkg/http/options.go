package http

import "time"

// HttpOpts tunes the client built by NewConnector.
type HttpOpts func(*httpConfig)

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.connClientTimeout = timeout }
}

// WithRequestTimeout bounds the whole exchange, body included. Uploads of
// large documents and slow answers both count against it.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.requestTimeout = timeout }
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *httpConfig) { c.clientKeepAlive = keepAlive }
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.responseHeaderTimeout = timeout }
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.idleConnTimeout = timeout }
}

// WithTransport adds a RoundTripper decorator. Decorators wrap in the order given,
// so the last one added sees the request first.
func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *httpConfig) { c.transports = append(c.transports, transport) }
}

// WithInsecureSkipVerify is for self-signed backends in local setups only.
func WithInsecureSkipVerify(skip bool) HttpOpts {
	return func(c *httpConfig) { c.insecureSkipVerify = skip }
}
