// Package api implements the backend ports over the task service's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Ensure Client implements the backend ports.
var (
	_ domain.TaskBackend   = (*Client)(nil)
	_ domain.UserBackend   = (*Client)(nil)
	_ domain.Authenticator = (*Client)(nil)
	_ domain.TagBackend    = (*Client)(nil)
	_ domain.StatsBackend  = (*Client)(nil)
)

const (
	// RequestIDHeader carries a per-request UUID for correlating logs.
	RequestIDHeader = "X-Request-ID"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20

	// loginPath is appended to the auth URL for the password grant.
	loginPath = "/login/"
)

// Options configures a Client.
// Fields are ordered to minimize memory padding.
type Options struct {
	HTTPClient    *http.Client   // Base client; nil uses http.DefaultClient's transport
	NaiveLocation *time.Location // Zone for timestamps without an offset; nil is UTC
	Logger        domain.Logger
	Now           func() time.Time
	BaseURL       string
	AuthURL       string
	Timeout       time.Duration
}

// Client talks to the task service.
// Fields are ordered to minimize memory padding.
type Client struct {
	plain   *http.Client // no credentials
	authed  *http.Client // bearer token from the token store
	naive   *time.Location
	logger  domain.Logger
	baseURL string
	authURL string
	timeout time.Duration
}

// New creates a Client that authenticates with tokens from the given store.
func New(opts Options, tokens domain.TokenStore) *Client {
	base := http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}
	base = requestIDTransport{base: base}

	if opts.NaiveLocation == nil {
		opts.NaiveLocation = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = domain.NopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultTimeout
	}

	return &Client{
		plain: &http.Client{Transport: base},
		authed: &http.Client{Transport: &oauth2.Transport{
			Source: storeTokenSource{store: tokens, now: opts.Now},
			Base:   base,
		}},
		naive:   opts.NaiveLocation,
		logger:  opts.Logger,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		authURL: strings.TrimRight(opts.AuthURL, "/"),
		timeout: opts.Timeout,
	}
}

// storeTokenSource adapts domain.TokenStore to oauth2.TokenSource.
type storeTokenSource struct {
	store domain.TokenStore
	now   func() time.Time
}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	if s.store == nil {
		return nil, domain.ErrUnauthorized
	}
	tok, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if !tok.Valid(s.now()) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	return &oauth2.Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}, nil
}

type requestIDKey struct{}

// withRequestID returns ctx carrying a fresh request ID and the ID itself.
func withRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, requestIDKey{}, id), id
}

// requestIDTransport stamps every outgoing request with the request ID
// carried by its context, or a fresh one when there is none.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id, _ := req.Context().Value(requestIDKey{}).(string)
	if id == "" {
		id = uuid.NewString()
	}
	clone := req.Clone(req.Context())
	clone.Header.Set(RequestIDHeader, id)
	return t.base.RoundTrip(clone)
}

// call describes one API request.
// Fields are ordered to minimize memory padding.
type call struct {
	body       any
	out        any
	method     string
	path       string
	public     bool // send without credentials
	completion bool // classify rejections as completion conflicts
}

// send performs the request and decodes a JSON response into c.out.
func (c *Client) send(ctx context.Context, cl call) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx, requestID := withRequestID(ctx)

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.authed
	if cl.public {
		client = c.plain
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		c.logger.Warn("", "api", fmt.Sprintf("%s %s [%s] failed: %v", cl.method, cl.path, requestID, err))
		return c.transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.transportError(err)
	}
	c.logger.Debug("", "api", fmt.Sprintf("%s %s [%s] -> %d in %s",
		cl.method, cl.path, requestID, resp.StatusCode, time.Since(start).Round(time.Millisecond)))

	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(resp.StatusCode, data, cl.completion)
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return &domain.Error{Kind: domain.KindBackend, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// transportError classifies a failure to get any response.
func (c *Client) transportError(err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewNetworkError(fmt.Errorf("request timed out after %s: %w", c.timeout, err))
	}
	return domain.NewNetworkError(err)
}

// Login exchanges credentials for a bearer token using the OAuth2
// password grant against <auth_url>/login/.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.plain)

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.authURL + loginPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	tok, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			status := re.Response.StatusCode
			if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden {
				msg, _ := parseErrorBody(re.Body)
				if msg == "" {
					msg = "invalid username or password"
				}
				return domain.Token{}, &domain.Error{Kind: domain.KindUnauthorized, Status: status, Message: msg}
			}
			return domain.Token{}, statusError(status, re.Body, false)
		}
		return domain.Token{}, c.transportError(err)
	}

	return domain.Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
	}, nil
}
