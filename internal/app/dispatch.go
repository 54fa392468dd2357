package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/transfer-client/pkg/httpclient"
	"github.com/samvad-hq/transfer-client/pkg/requests"
)

// Result is the outcome of one dispatched request spec.
type Result struct {
	ID      string
	Body    string
	Code    httpclient.Code
	Err     error
	Elapsed time.Duration
}

// OK reports whether the transfer completed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Dispatch maps spec onto exactly one facade operation and runs it.
func Dispatch(ctx context.Context, client httpclient.Transferer, spec requests.Spec) Result {
	res := Result{ID: spec.ID}
	if client == nil {
		res.Err = fmt.Errorf("request %s: transfer client is nil", spec.ID)
		res.Code = httpclient.CodeFailedInit
		return res
	}

	start := time.Now()
	var body string
	var err error

	switch {
	case spec.Method == requests.MethodGet && spec.Secure:
		err = client.Gets(ctx, spec.URL, &body, spec.CAPath)
	case spec.Method == requests.MethodGet:
		err = client.Get(ctx, spec.URL, &body)
	case spec.Secure:
		payload := spec.Body
		if len(spec.Form) > 0 {
			payload = httpclient.EncodeForm(spec.Form)
		}
		err = client.Posts(ctx, spec.URL, payload, &body, spec.CAPath)
	case len(spec.Form) > 0:
		err = client.PostForm(ctx, spec.URL, spec.Form, &body)
	case len(spec.Headers) > 0:
		err = client.PostWithHeaders(ctx, spec.URL, spec.Body, spec.Headers, &body)
	default:
		err = client.Post(ctx, spec.URL, spec.Body, &body)
	}

	res.Elapsed = time.Since(start)
	res.Body = body
	res.Code = httpclient.CodeOf(err)
	if err != nil {
		res.Err = fmt.Errorf("request %s: %w", spec.ID, err)
	}
	return res
}
