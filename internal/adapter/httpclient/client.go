package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	DefaultTimeout = 10 * time.Second

	contentTypeJSON = "application/json"
	requestIDHeader = "X-Request-ID"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// A Navigator moves the user to the login screen.
type Navigator interface {
	NavigateToLogin(ctx context.Context)
}

type Opt func(*Client) error

func TimeoutOpt(d time.Duration) Opt {
	return func(c *Client) error {
		if d > 0 {
			c.hc.Timeout = d
		}
		return nil
	}
}

func NavigatorOpt(nav Navigator) Opt {
	return func(c *Client) error {
		c.nav = nav
		return nil
	}
}

// SessionCookieOpt seeds the cookie jar with a session cookie for the base URL.
func SessionCookieOpt(name, value string) Opt {
	return func(c *Client) error {
		if name == "" || value == "" {
			return nil
		}
		c.hc.Jar.SetCookies(c.baseURL, []*http.Cookie{
			{Name: name, Value: value, Path: "/"},
		})
		return nil
	}
}

// TransportOpt replaces the underlying round tripper.
func TransportOpt(rt http.RoundTripper) Opt {
	return func(c *Client) error {
		c.hc.Transport = rt
		return nil
	}
}

// A Client is the single configured request client shared by all resources.
//
// Every request carries the cookie jar credentials, a request id and the
// client timeout.
type Client struct {
	baseURL *url.URL
	hc      *http.Client
	nav     Navigator
}

func New(baseURL string, opts ...Opt) (*Client, error) {
	const op = "httpclient.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Client{
		baseURL: u,
		hc:      &http.Client{Timeout: DefaultTimeout, Jar: jar},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Timeout() time.Duration {
	return c.hc.Timeout
}

// Get issues GET path?query and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path, query string, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// Post sends body as JSON. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	const op = "Client.Post"

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		r = bytes.NewReader(b)
	}
	return c.do(ctx, http.MethodPost, path, "", r, contentTypeJSON, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, "", out)
}

// PostMultipart sends form as multipart/form-data.
//
// progress, when set, receives upload percentages in 0..100.
func (c *Client) PostMultipart(
	ctx context.Context, path string, form Multipart, progress func(int), out any,
) error {
	const op = "Client.PostMultipart"

	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var r io.Reader = body
	if progress != nil {
		r = newProgressReader(body, int64(body.Len()), progress)
	}
	return c.do(ctx, http.MethodPost, path, "", sized{r, int64(body.Len())}, contentType, out)
}

// sized lets the request keep a known content length through wrapping readers.
type sized struct {
	io.Reader
	n int64
}

func (c *Client) do(
	ctx context.Context,
	method, path, query string,
	body io.Reader,
	contentType string,
	out any,
) error {
	const op = "Client.do"

	guard := guardFrom(ctx)
	if guard == nil {
		ctx = WithAuthGuard(ctx)
		guard = guardFrom(ctx)
	}

	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := slog.With(
		"op", op,
		"method", method,
		"path", req.URL.Path,
		"requestID", req.Header.Get(requestIDHeader),
	)

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		log.Debug("request failed", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Debug("failed to close response body", "err", err)
		}
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", op, err)
	}

	log.Debug("response received",
		"status", res.StatusCode, "elapsed", time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		httpErr := newHTTPError(method, req.URL.String(), res.StatusCode, data)
		if IsUnauthorized(httpErr) {
			c.handleUnauthorized(ctx, guard, log)
		}
		return httpErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := decodeJSON(data, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method, path, query string,
	body io.Reader,
	contentType string,
) (*http.Request, error) {
	// path segments arrive escaped
	rawPath := c.baseURL.EscapedPath() + "/" + strings.TrimLeft(path, "/")
	unescaped, err := url.PathUnescape(rawPath)
	if err != nil {
		return nil, err
	}

	u := *c.baseURL
	u.Path = unescaped
	u.RawPath = rawPath
	u.RawQuery = query

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	if s, ok := body.(sized); ok {
		req.ContentLength = s.n
	}

	if contentType == "" {
		contentType = contentTypeJSON
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(requestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) handleUnauthorized(
	ctx context.Context, guard *authGuard, log *slog.Logger,
) {
	if !guard.markRedirected() {
		log.Debug("unauthorized again, redirect already done")
		return
	}
	log.Warn("unauthorized, redirecting to login")
	if c.nav != nil {
		c.nav.NavigateToLogin(ctx)
	}
}

// decodeJSON accepts both bare payloads and payloads wrapped in {"data": ...}.
//
// The wrapped form wins when it decodes into out.
func decodeJSON(data []byte, out any) error {
	var envelope struct {
		Data jsoniter.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		d := bytes.TrimSpace(envelope.Data)
		if len(d) != 0 && !bytes.Equal(d, []byte("null")) {
			if err := json.Unmarshal(d, out); err == nil {
				return nil
			}
			resetValue(out)
		}
	}
	return json.Unmarshal(data, out)
}

func resetValue(out any) {
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().SetZero()
	}
}
