package httpclient

import (
	"net/http"
	"net/http/httputil"
)

// debugTransport dumps every request and response through the client logger.
// Dumps include headers and bodies, so keep it off outside development.
type debugTransport struct {
	base http.RoundTripper
	log  Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		dt.log.DebugObj("http request", "http_debug", map[string]any{
			"method":       req.Method,
			"url":          req.URL.String(),
			"request_dump": string(dump),
		})
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.log.DebugObj("http request failed", "http_debug", map[string]any{
			"method": req.Method,
			"url":    req.URL.String(),
			"error":  err.Error(),
		})
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		dt.log.DebugObj("http response", "http_debug", map[string]any{
			"method":        req.Method,
			"url":           req.URL.String(),
			"status_code":   resp.StatusCode,
			"response_dump": string(dump),
		})
	}
	return resp, nil
}
