// Package httpclient is a small facade over resty for one-shot GET and POST
// transfers whose response body is collected into a caller-owned string.
//
// Every call builds its own transfer handle, performs a single blocking
// transfer and releases the handle before returning. Nothing is pooled,
// retried or shared between calls, so a Client may be used from any number of
// goroutines. Timeouts are enforced with deadlines, never process signals.
//
// Calls return nil on success or an *Error whose Code names the failure
// class. HTTP status codes are not interpreted: a 404 with a body is a
// successful transfer.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultGetTimeout    = 3 * time.Second
	DefaultPostTimeout   = 6 * time.Second
	DefaultSecureTimeout = 3 * time.Second
)

// Client issues transfers. It keeps only the options it was built with.
type Client struct {
	getTimeout    time.Duration
	postTimeout   time.Duration
	secureTimeout time.Duration
	strictTLS     bool
	maxRedirects  int
	debug         bool
	log           Logger
	handles       handleFactory
	dialer        dialerFactory
}

var _ Transferer = (*Client)(nil)

// New constructs a Client with the default timeouts (GET 3s, POST 6s,
// Gets/Posts 3s) and applies opts in order.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		getTimeout:    DefaultGetTimeout,
		postTimeout:   DefaultPostTimeout,
		secureTimeout: DefaultSecureTimeout,
		log:           noopLogger{},
		handles:       newHandle,
		dialer:        newDialer,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply client option: %w", err)
		}
	}
	return c, nil
}

// timeoutClass selects which configured timeout a transfer runs under.
type timeoutClass int

const (
	timeoutGet timeoutClass = iota
	timeoutPost
	timeoutSecure
)

// request is the per-call description of a transfer.
type request struct {
	op      string
	method  string
	url     string
	body    string
	hasBody bool
	headers []string
	class   timeoutClass
	timeout time.Duration
	tls     tlsPolicy
}

// PostForm encodes form with EncodeForm and posts it like Post.
func (c *Client) PostForm(ctx context.Context, url string, form map[string]string, out *string) error {
	return c.Post(ctx, url, EncodeForm(form), out)
}

// Post sends body verbatim. The content type defaults to
// application/x-www-form-urlencoded.
func (c *Client) Post(ctx context.Context, url, body string, out *string) error {
	return c.perform(ctx, postRequest("post", url, body, nil), out)
}

// PostWithHeaders is Post with extra "Name: value" header lines. "Name:"
// removes a header the client would otherwise send and "Name;" sends an empty
// one.
func (c *Client) PostWithHeaders(ctx context.Context, url, body string, headers []string, out *string) error {
	return c.perform(ctx, postRequest("post", url, body, headers), out)
}

// Get fetches url.
func (c *Client) Get(ctx context.Context, url string, out *string) error {
	return c.perform(ctx, getRequest("get", url, tlsPolicy{}), out)
}

// Posts is the HTTPS flavour of Post. With an empty caPath the peer
// certificate and host name are NOT verified unless the client was built
// with WithStrictTLS. With a caPath they are verified against that bundle.
func (c *Client) Posts(ctx context.Context, url, body string, out *string, caPath string) error {
	req := postRequest("posts", url, body, nil)
	req.class = timeoutSecure
	req.tls = tlsPolicy{configured: true, caPath: caPath}
	return c.perform(ctx, req, out)
}

// Gets is the HTTPS flavour of Get with the verification policy of Posts.
func (c *Client) Gets(ctx context.Context, url string, out *string, caPath string) error {
	req := getRequest("gets", url, tlsPolicy{configured: true, caPath: caPath})
	req.class = timeoutSecure
	return c.perform(ctx, req, out)
}

func getRequest(op, url string, tls tlsPolicy) request {
	return request{op: op, method: http.MethodGet, url: url, class: timeoutGet, tls: tls}
}

func postRequest(op, url, body string, headers []string) request {
	return request{
		op:      op,
		method:  http.MethodPost,
		url:     url,
		body:    body,
		hasBody: true,
		headers: headers,
		class:   timeoutPost,
	}
}

// timeoutFor returns the connect and total timeout of class.
func (c *Client) timeoutFor(class timeoutClass) time.Duration {
	switch class {
	case timeoutPost:
		return c.postTimeout
	case timeoutSecure:
		return c.secureTimeout
	default:
		return c.getTimeout
	}
}

// perform runs one transfer: validate, acquire a handle, execute, drain the
// body into out, release. The handle is released on every path.
func (c *Client) perform(ctx context.Context, req request, out *string) (err error) {
	if c == nil {
		return &Error{Code: CodeFailedInit, Method: req.method, URL: req.url, Err: errHandleCreation}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req.timeout = c.timeoutFor(req.class)

	start := time.Now()
	var received int64
	defer func() { c.observe(req, err, received, time.Since(start)) }()

	target, code, uerr := normalizeURL(req.url)
	if uerr != nil {
		return c.failure(req, code, uerr)
	}
	req.url = target

	if req.tls.configured && strings.TrimSpace(req.tls.caPath) == "" && !c.strictTLS {
		c.log.WarnObj("peer verification disabled: no CA path supplied", "transfer", map[string]any{
			"op":  req.op,
			"url": req.url,
		})
	}

	h, err := c.handles(c, req)
	if err != nil || h == nil {
		return c.handleFailure(req, err)
	}
	defer h.release()

	r := h.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	suppressed := c.applyHeaders(r, req)
	if len(suppressed) > 0 {
		h.client.SetPreRequestHook(func(_ *resty.Client, hr *http.Request) error {
			for _, name := range suppressed {
				hr.Header.Del(name)
			}
			return nil
		})
	}

	resp, err := r.Execute(req.method, req.url)
	if err != nil {
		return c.failure(req, classify(err, phaseRequest), err)
	}

	raw := resp.RawBody()
	if raw == nil {
		return nil
	}
	defer raw.Close()

	// The reader is wrapped so the copy always goes through the chunk buffer.
	acc := &accumulator{out: out}
	received, err = io.CopyBuffer(acc, struct{ io.Reader }{raw}, make([]byte, writeChunkSize))
	acc.flush()
	if err != nil {
		return c.failure(req, classify(err, phaseBody), err)
	}

	c.log.DebugObj("transfer completed", "transfer", map[string]any{
		"op":          req.op,
		"url":         req.url,
		"status_code": resp.StatusCode(),
		"bytes":       received,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return nil
}

// applyHeaders sets the body, the default content type and the caller's
// header lines. It returns the names that must be stripped before sending.
func (c *Client) applyHeaders(r *resty.Request, req request) []string {
	if req.hasBody {
		r.SetHeader("Content-Type", defaultPostContentType)
		r.SetBody(req.body)
	}

	parsed, rejected := parseHeaderLines(req.headers)
	if len(rejected) > 0 {
		c.log.WarnObj("ignoring malformed header lines", "header_lines", rejected)
	}

	var suppressed []string
	seen := make(map[string]bool, len(parsed))
	for _, h := range parsed {
		if h.suppress {
			r.Header.Del(h.name)
			suppressed = append(suppressed, h.name)
			continue
		}
		if !seen[h.name] {
			r.Header.Set(h.name, h.value)
			seen[h.name] = true
			continue
		}
		r.Header.Add(h.name, h.value)
	}
	return suppressed
}

func (c *Client) handleFailure(req request, err error) error {
	if err == nil {
		err = errHandleCreation
	}
	var te *Error
	if errors.As(err, &te) {
		return c.failure(req, te.Code, te.Err)
	}
	return c.failure(req, CodeFailedInit, err)
}

func (c *Client) failure(req request, code Code, err error) error {
	c.log.WarnObj("transfer failed", "transfer_error", map[string]any{
		"op":    req.op,
		"url":   req.url,
		"code":  int(code),
		"error": code.String(),
	})
	return &Error{Code: code, Method: req.method, URL: req.url, Err: err}
}

func (c *Client) observe(req request, err error, received int64, elapsed time.Duration) {
	transfersTotal.WithLabelValues(req.op, strconv.Itoa(int(CodeOf(err)))).Inc()
	transferDuration.WithLabelValues(req.op).Observe(elapsed.Seconds())
	if received > 0 {
		bytesReceivedTotal.WithLabelValues(req.op).Add(float64(received))
	}
}

// normalizeURL checks the target before any handle is built. A URL without a
// scheme is taken as http, like curl does.
func normalizeURL(raw string) (string, Code, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", CodeURLMalformat, errMissingHost
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", CodeURLMalformat, err
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", CodeUnsupportedProtocol, fmt.Errorf("unsupported protocol scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", CodeURLMalformat, fmt.Errorf("%w: %s", errMissingHost, raw)
	}
	return u.String(), CodeOK, nil
}
