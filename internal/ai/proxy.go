// Package ai exposes the external generative-AI backend as an authenticated
// pass-through. The service adds the upstream API key and strips the caller's
// session token; request and response bodies flow through untouched.
package ai

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// RoutePrefix is the inbound path prefix removed before forwarding.
const RoutePrefix = "/api/ai"

type Proxy struct {
	target *url.URL
	apiKey string
	rp     *httputil.ReverseProxy
}

func NewProxy(upstream, apiKey string) (*Proxy, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}
	p := &Proxy{target: target, apiKey: apiKey}
	p.rp = &httputil.ReverseProxy{Director: p.direct}
	return p, nil
}

func (p *Proxy) direct(req *http.Request) {
	req.URL.Scheme = p.target.Scheme
	req.URL.Host = p.target.Host
	req.URL.Path = joinPath(p.target.Path, strings.TrimPrefix(req.URL.Path, RoutePrefix))
	req.Host = p.target.Host

	// the session token must not leak upstream
	req.Header.Del("Authorization")
	if p.apiKey != "" {
		req.Header.Set("X-Api-Key", p.apiKey)
	}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.rp.ServeHTTP(w, r)
}

func joinPath(a, b string) string {
	switch {
	case strings.HasSuffix(a, "/") && strings.HasPrefix(b, "/"):
		return a + b[1:]
	case !strings.HasSuffix(a, "/") && !strings.HasPrefix(b, "/"):
		return a + "/" + b
	}
	return a + b
}
