package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samvad-hq/transfer-client/internal/config"
	"github.com/samvad-hq/transfer-client/internal/logger"
	"github.com/samvad-hq/transfer-client/pkg/httpclient"
	"github.com/samvad-hq/transfer-client/pkg/requests"
)

// Runner executes request specs against a transfer client on a bounded
// worker pool.
type Runner struct {
	client  httpclient.Transferer
	workers int
	log     logger.Logger
	onPass  PassFunc
}

// PassFunc observes the results of one pass; results[i] belongs to specs[i].
type PassFunc func(specs []requests.Spec, results []Result)

// NewRunner wires a runner around client. workers below 1 means one worker.
func NewRunner(client httpclient.Transferer, workers int, log logger.Logger) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("transfer client must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{client: client, workers: workers, log: log}, nil
}

// OnPass registers fn to run after every pass of Run and Loop.
func (r *Runner) OnPass(fn PassFunc) {
	if r != nil {
		r.onPass = fn
	}
}

// NewClient builds the transfer client described by cfg.
func NewClient(cfg *config.Config, log logger.Logger) (*httpclient.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	opts := []httpclient.Option{
		httpclient.WithLogger(log),
		httpclient.WithTimeouts(cfg.GetTimeout, cfg.PostTimeout, cfg.SecureTimeout),
		httpclient.WithStrictTLS(cfg.StrictTLS),
		httpclient.WithDebugLogging(cfg.HTTPDebug),
	}
	if cfg.FollowRedirects {
		opts = append(opts, httpclient.WithFollowRedirects(cfg.MaxRedirects))
	}

	client, err := httpclient.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("build transfer client: %w", err)
	}
	return client, nil
}

// Run executes every spec once. Results come back in spec order; failures are
// joined into the returned error.
func (r *Runner) Run(ctx context.Context, specs []requests.Spec) ([]Result, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no requests configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	r.log.InfoObj("pass started", "pass_meta", map[string]any{
		"requests_count": len(specs),
		"workers":        r.workers,
		"started_at":     start.UTC(),
	})

	results := make([]Result, len(specs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := min(r.workers, len(specs))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.runOne(ctx, specs[i])
			}
		}()
	}

	for i := range specs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	errs := make([]error, 0)
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}

	r.log.InfoObj("pass completed", "pass_meta", map[string]any{
		"requests_count": len(specs),
		"failed_count":   len(errs),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})

	if r.onPass != nil {
		r.onPass(specs, results)
	}

	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}
	return results, nil
}

// Loop runs passes every interval until ctx is cancelled. A zero interval
// runs a single pass.
func (r *Runner) Loop(ctx context.Context, specs []requests.Spec, interval time.Duration) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("runner is not initialized")
	}
	if interval <= 0 {
		_, err := r.Run(ctx, specs)
		return err
	}

	r.log.InfoObj("runner loop starting", "runner_state", map[string]any{
		"requests_count":  len(specs),
		"workers":         r.workers,
		"repeat_interval": interval.String(),
	})

	if _, err := r.Run(ctx, specs); err != nil {
		r.log.ErrorObj("initial pass failed", "error", err.Error())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("runner loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if _, err := r.Run(ctx, specs); err != nil {
				r.log.ErrorObj("scheduled pass failed", "error", err.Error())
			}
		}
	}
}

func (r *Runner) runOne(ctx context.Context, spec requests.Spec) Result {
	res := Dispatch(ctx, r.client, spec)
	if res.Err != nil {
		r.log.ErrorObj("request failed", "request_error", map[string]any{
			"request_id": spec.ID,
			"code":       int(res.Code),
			"error":      res.Err.Error(),
		})
		return res
	}

	if spec.Output != "" {
		if err := writeOutput(spec.Output, res.Body); err != nil {
			res.Err = fmt.Errorf("request %s: %w", spec.ID, err)
			r.log.ErrorObj("write output failed", "request_error", map[string]any{
				"request_id": spec.ID,
				"output":     spec.Output,
				"error":      err.Error(),
			})
			return res
		}
	}

	r.log.InfoObj("request completed", "request_result", map[string]any{
		"request_id": spec.ID,
		"bytes":      len(res.Body),
		"elapsed_ms": res.Elapsed.Milliseconds(),
	})
	return res
}

func writeOutput(path, body string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
