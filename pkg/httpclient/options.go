package httpclient

import (
	"fmt"
	"time"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithLogger routes client logs to log. A nil logger discards them.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		c.log = ensureLogger(log)
		return nil
	}
}

// WithTimeouts overrides the connect and total timeouts of the plain GET, the
// plain POST and the secure (Gets/Posts) shapes. Every value must be > 0.
func WithTimeouts(get, post, secure time.Duration) Option {
	return func(c *Client) error {
		if get <= 0 || post <= 0 || secure <= 0 {
			return fmt.Errorf("timeouts must be > 0 (get=%s post=%s secure=%s)", get, post, secure)
		}
		c.getTimeout = get
		c.postTimeout = post
		c.secureTimeout = secure
		return nil
	}
}

// WithStrictTLS makes Gets/Posts verify the peer against the platform roots
// when no CA path is supplied, instead of skipping verification.
func WithStrictTLS(strict bool) Option {
	return func(c *Client) error {
		c.strictTLS = strict
		return nil
	}
}

// WithFollowRedirects follows up to limit redirects per transfer. Without it a
// 3xx response is returned as-is.
func WithFollowRedirects(limit int) Option {
	return func(c *Client) error {
		if limit <= 0 {
			return fmt.Errorf("max redirects must be > 0")
		}
		c.maxRedirects = limit
		return nil
	}
}

// WithDebugLogging dumps each request and response at debug level. Dumps carry
// headers and bodies verbatim.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}
