// Package client talks to the file-browsing server: directory listings,
// random media selection and the live-update push channel.
package client

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fruitsalade/livebrowse/internal/logging"
	"github.com/fruitsalade/livebrowse/internal/metrics"
	"github.com/fruitsalade/livebrowse/pkg/models"
	"github.com/fruitsalade/livebrowse/pkg/protocol"
	"github.com/fruitsalade/livebrowse/pkg/retry"
)

// Messages shown when the random media request fails without a server message.
const (
	MsgNoMedia         = "No media files found or server error"
	MsgEmptyMediaPath  = "Empty media path received"
	MsgRandomMediaFail = "No media files found or an error occurred."
)

// Client issues requests against one server.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	retryConfig retry.Config
}

// Config holds client configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RetryConfig retry.Config
	// Transport overrides the default HTTP transport. It is always wrapped
	// with request logging.
	Transport http.RoundTripper
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = retry.DefaultConfig()
	}

	rt := cfg.Transport
	if rt == nil {
		rt = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: logging.Transport(rt),
		},
		retryConfig: cfg.RetryConfig,
	}, nil
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// ResolveURL resolves a server-relative reference, such as a media path,
// against the base URL. Host-less references are rooted at the base URL's
// path, so a server mounted under a prefix keeps it. Absolute references are
// returned unchanged.
func (c *Client) ResolveURL(ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse reference %q: %w", ref, err)
	}
	if r.Scheme == "" && r.Host == "" && r.Path != "" {
		if r.RawPath != "" {
			r.RawPath = strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimPrefix(r.RawPath, "/")
		}
		r.Path = strings.TrimSuffix(c.baseURL.Path, "/") + "/" + strings.TrimPrefix(r.Path, "/")
	}
	return c.baseURL.ResolveReference(r).String(), nil
}

// PushURL returns the push channel URL for this client's server.
func (c *Client) PushURL() (string, error) {
	return PushURL(c.BaseURL())
}

// LoadError is returned when a directory listing cannot be loaded.
type LoadError struct {
	Path   string
	Status int // 0 when no response was received
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("load %q: HTTP error! status: %d", e.Path, e.Status)
	}
	return fmt.Sprintf("load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// AsLoadError checks if an error is a LoadError and returns it.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// ListDirectory fetches the listing of path, sorted server-side by sort.
func (c *Client) ListDirectory(ctx context.Context, path string, sort models.SortSpec) (*models.DirectorySnapshot, error) {
	start := time.Now()
	snap, err := retry.DoWithResult(ctx, c.retryConfig, func() (*models.DirectorySnapshot, error) {
		return c.listOnce(ctx, path, sort)
	})
	metrics.RecordLoad(err == nil, time.Since(start))
	if err != nil {
		if le, ok := AsLoadError(err); ok {
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return snap, nil
}

func (c *Client) listOnce(ctx context.Context, path string, sort models.SortSpec) (*models.DirectorySnapshot, error) {
	query := url.Values{}
	query.Set(protocol.ParamPath, path)
	query.Set(protocol.ParamSort, string(sort.Column))
	query.Set(protocol.ParamOrder, string(sort.Order))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(protocol.FilesEndpoint, query), nil)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.Retryable(&LoadError{Path: path, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		le := &LoadError{Path: path, Status: resp.StatusCode, Err: fmt.Errorf("server returned %d", resp.StatusCode)}
		if resp.StatusCode >= 500 {
			return nil, retry.Retryable(le)
		}
		return nil, le
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("gzip: %w", err)}
		}
		defer gr.Close()
		reader = gr
	}

	var listing *protocol.ListingResponse
	if err := json.NewDecoder(reader).Decode(&listing); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("decode listing: %w", err)}
	}
	if listing == nil {
		return nil, &LoadError{Path: path, Err: errors.New("empty listing body")}
	}
	return listing.Snapshot(), nil
}

// RandomMediaError is returned when no random media reference could be obtained.
// Message is the text meant for the user.
type RandomMediaError struct {
	Status  int
	Message string
	Err     error
}

func (e *RandomMediaError) Error() string {
	return e.Message
}

func (e *RandomMediaError) Unwrap() error {
	return e.Err
}

// AsRandomMediaError checks if an error is a RandomMediaError and returns it.
func AsRandomMediaError(err error) (*RandomMediaError, bool) {
	var re *RandomMediaError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AlertMessage returns the user-facing text for a random media failure.
func AlertMessage(err error) string {
	if re, ok := AsRandomMediaError(err); ok && re.Message != "" {
		return re.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return MsgRandomMediaFail
}

// RandomMedia asks the server for a random media file under path and
// returns its server-relative reference.
func (c *Client) RandomMedia(ctx context.Context, path string) (string, error) {
	ref, err := c.randomMedia(ctx, path)
	metrics.RecordRandomMedia(err == nil)
	return ref, err
}

func (c *Client) randomMedia(ctx context.Context, path string) (string, error) {
	query := url.Values{}
	query.Set(protocol.ParamPath, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(protocol.RandomMediaEndpoint, query), nil)
	if err != nil {
		return "", &RandomMediaError{Message: err.Error(), Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RandomMediaError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RandomMediaError{Status: resp.StatusCode, Message: err.Error(), Err: err}
	}
	text := strings.TrimRight(string(body), "\r\n")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := text
		if msg == "" {
			msg = MsgNoMedia
		}
		return "", &RandomMediaError{
			Status:  resp.StatusCode,
			Message: msg,
			Err:     fmt.Errorf("server returned %d", resp.StatusCode),
		}
	}
	if text == "" {
		return "", &RandomMediaError{Status: resp.StatusCode, Message: MsgEmptyMediaPath}
	}
	return text, nil
}

// PushURL derives the push channel URL from the server base URL:
// http becomes ws, https becomes wss, and the push endpoint is appended to
// the base path.
func PushURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.RawPath != "" {
		u.RawPath = strings.TrimSuffix(u.RawPath, "/") + protocol.PushEndpoint
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + protocol.PushEndpoint
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
