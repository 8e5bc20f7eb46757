// Package identity talks to the external identity provider.
package identity

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Provider ends the caller's session at the identity provider.
type Provider interface {
	SignOut(ctx context.Context, handle string) error
}

// NoopProvider is used when no identity provider is configured.
type NoopProvider struct{}

func (NoopProvider) SignOut(context.Context, string) error { return nil }

// HTTPProvider POSTs to a sign-out endpoint with the session handle as a bearer token.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider targets url. A nil client uses http.DefaultClient.
func NewHTTPProvider(url string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{url: url, client: client}
}

// SignOut fails on transport errors and non-2xx responses.
func (p *HTTPProvider) SignOut(ctx context.Context, handle string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, nil)
	if err != nil {
		return fmt.Errorf("build sign-out request: %w", err)
	}
	if handle != "" {
		req.Header.Set("Authorization", "Bearer "+handle)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sign-out: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sign-out: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// New returns an HTTPProvider for url, or NoopProvider when url is empty.
func New(url string) Provider {
	if url == "" {
		return NoopProvider{}
	}
	return NewHTTPProvider(url, nil)
}
