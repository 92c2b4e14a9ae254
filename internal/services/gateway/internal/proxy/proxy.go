// Package proxy forwards gateway traffic to the backing services.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"
)

// Upstream is one backing service reachable under a gateway prefix.
type Upstream struct {
	Name   string
	Prefix string
	target *url.URL
	proxy  *httputil.ReverseProxy
}

// NewUpstream proxies requests to rawURL. The gateway prefix is expected to be
// stripped before the request reaches the returned handler.
func NewUpstream(name, prefix, rawURL string) (*Upstream, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", name, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%s url must be absolute: %q", name, rawURL)
	}

	up := &Upstream{
		Name:   name,
		Prefix: prefix,
		target: target,
	}
	up.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: up.handleError,
	}

	return up, nil
}

func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.proxy.ServeHTTP(w, r)
}

func (u *Upstream) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	slog.Error("upstream request failed",
		"upstream", u.Name,
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
	)
	http.Error(w, "Bad Gateway", http.StatusBadGateway)
}

// Ready calls the upstream /readyz endpoint.
func (u *Upstream) Ready(ctx context.Context, client *http.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.target.JoinPath("readyz").String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", u.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: status %d", u.Name, resp.StatusCode)
	}

	return nil
}
