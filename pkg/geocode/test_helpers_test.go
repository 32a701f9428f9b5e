package geocode

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newRewriteClient returns an HTTP client that sends every request whose URL
// starts with prefix to the httptest server at serverURL instead, so tests
// can keep DefaultBaseURL in the geocoder.
func newRewriteClient(serverURL, prefix string) *http.Client {
	return &http.Client{
		Transport: &rewriteTransport{
			base:   http.DefaultTransport,
			server: serverURL,
			prefix: prefix,
		},
	}
}

type rewriteTransport struct {
	base   http.RoundTripper
	server string
	prefix string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	orig := req.URL.String()
	if !strings.HasPrefix(orig, t.prefix) {
		return t.base.RoundTrip(req)
	}
	target, err := req.URL.Parse(t.server + strings.TrimPrefix(orig, t.prefix))
	if err != nil {
		return nil, err
	}
	out := req.Clone(req.Context())
	out.URL = target
	out.Host = target.Host
	return t.base.RoundTrip(out)
}
