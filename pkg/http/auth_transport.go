package http

import "net/http"

type headerTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.value == "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.header, t.value)

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sets a bearer token on every request. An empty token is a no-op.
func WithAuthToken(token string) HttpOpts {
	return withHeaderTransport("Authorization", "Bearer "+token, token != "")
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(agent string) HttpOpts {
	return withHeaderTransport("User-Agent", agent, agent != "")
}

func withHeaderTransport(header, value string, enabled bool) HttpOpts {
	if !enabled {
		value = ""
	}
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
