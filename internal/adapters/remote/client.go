// Package remote fetches registry snapshots from the population HTTP API.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"dnamatch/internal/domain"
	"dnamatch/internal/population"
	"dnamatch/internal/ports"
)

// DefaultURL is the public registry endpoint.
const DefaultURL = "https://dna-testing-system.onrender.com/api/EisaAPI"

// ErrStatus is returned when the registry answers with anything but 200.
var ErrStatus = errors.New("Failed to retrieve data from API")

// Client issues one GET per Fetch and decodes the population envelope.
type Client struct {
	url        string
	name       string
	httpClient *http.Client
}

var _ ports.PopulationSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a registry client. An empty rawURL selects DefaultURL.
func New(rawURL string, opts ...Option) (*Client, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		rawURL = DefaultURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse population url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("population url %q: unsupported scheme", rawURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client := &Client{
		url:        u.String(),
		name:       sourceName(u.Hostname()),
		httpClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// sourceName labels the source by its registrable domain.
func sourceName(host string) string {
	if net.ParseIP(host) != nil {
		return "remote:" + host
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	return "remote:" + registrable
}

func (c *Client) Name() string { return c.name }

// URL reports the endpoint Fetch reads.
func (c *Client) URL() string { return c.url }

// Fetch retrieves the current snapshot.
func (c *Client) Fetch(ctx context.Context) ([]domain.PopulationRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ErrStatus
	}
	return population.Decode(resp.Body)
}
