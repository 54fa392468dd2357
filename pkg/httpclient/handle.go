package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// handle is one transfer's worth of engine state. It is created per call and
// released before the call returns; nothing in it outlives the transfer.
type handle struct {
	client    *resty.Client
	transport *http.Transport
}

type handleFactory func(c *Client, req request) (*handle, error)

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// dialerFactory returns the dial function of one handle; timeout bounds
// connection establishment.
type dialerFactory func(timeout time.Duration) dialFunc

func newDialer(timeout time.Duration) dialFunc {
	return (&net.Dialer{Timeout: timeout}).DialContext
}

// newHandle configures a resty client over a dedicated transport: connect and
// total timeout from the request, TLS from its policy, keep-alives and
// transparent decompression disabled so the body arrives exactly as served.
func newHandle(c *Client, req request) (*handle, error) {
	tlsCfg, err := req.tls.tlsConfig(c.strictTLS)
	if err != nil {
		return nil, err
	}

	dial := c.dialer
	if dial == nil {
		dial = newDialer
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dial(req.timeout),
		TLSClientConfig:     tlsCfg,
		TLSHandshakeTimeout: req.timeout,
		DisableKeepAlives:   true,
		DisableCompression:  true,
		ForceAttemptHTTP2:   true,
	}

	var rt http.RoundTripper = transport
	if c.debug {
		rt = &debugTransport{base: transport, log: c.log}
	}

	rc := resty.NewWithClient(&http.Client{Transport: rt}).
		SetTimeout(req.timeout).
		SetLogger(restyLogger{log: c.log}).
		SetRedirectPolicy(c.redirectPolicy())

	return &handle{client: rc, transport: transport}, nil
}

// release drops whatever the transport still holds.
func (h *handle) release() {
	if h == nil || h.transport == nil {
		return
	}
	h.transport.CloseIdleConnections()
}

func (c *Client) redirectPolicy() resty.RedirectPolicy {
	limit := c.maxRedirects
	return resty.RedirectPolicyFunc(func(_ *http.Request, via []*http.Request) error {
		if limit <= 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > limit {
			return fmt.Errorf("stopped after %d redirects: %w", limit, errTooManyRedirs)
		}
		return nil
	})
}

// restyLogger forwards resty's own diagnostics to the client logger.
type restyLogger struct {
	log Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.ErrorObj("resty error", "resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.WarnObj("resty warning", "resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.DebugObj("resty debug", "resty", fmt.Sprintf(format, v...))
}
