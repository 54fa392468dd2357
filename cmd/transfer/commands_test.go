package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/transfer-client/internal/config"
	"github.com/samvad-hq/transfer-client/internal/logger"
	"github.com/samvad-hq/transfer-client/pkg/httpclient"
)

func testConfig() *config.Config {
	return &config.Config{
		GetTimeout:    2 * time.Second,
		PostTimeout:   2 * time.Second,
		SecureTimeout: 2 * time.Second,
		MaxRedirects:  10,
		Workers:       2,
	}
}

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "%s %s [%s] x=%s", r.Method, r.URL.Path, raw, r.Header.Get("X-Trace"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(cfg, &logger.NopLogger{}, &out)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGetCommandPrintsBody(t *testing.T) {
	srv := newEchoServer(t)

	out, err := execute(t, testConfig(), "get", srv.URL+"/hello")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "GET /hello [] x=" {
		t.Fatalf("out = %q", out)
	}
}

func TestPostCommandShapes(t *testing.T) {
	srv := newEchoServer(t)

	out, err := execute(t, testConfig(), "post", srv.URL+"/form", "-F", "b=2", "-F", "a=1")
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	if out != "POST /form [a=1&b=2] x=" {
		t.Fatalf("form out = %q", out)
	}

	out, err = execute(t, testConfig(), "post", srv.URL+"/raw", "--data", "payload", "-H", "X-Trace: abc")
	if err != nil {
		t.Fatalf("post headers: %v", err)
	}
	if out != "POST /raw [payload] x=abc" {
		t.Fatalf("headers out = %q", out)
	}
}

func TestPostCommandRejectsInvalidInput(t *testing.T) {
	srv := newEchoServer(t)

	if _, err := execute(t, testConfig(), "post", srv.URL, "-F", "novalue"); err == nil {
		t.Fatalf("expected form parse error")
	}
	if _, err := execute(t, testConfig(), "post", srv.URL, "--data", "x", "-F", "a=1"); err == nil {
		t.Fatalf("expected body/form conflict error")
	}
	if _, err := execute(t, testConfig(), "post", srv.URL, "--secure", "-H", "X: 1"); err == nil {
		t.Fatalf("expected secure header error")
	}
}

func TestRunCommandExecutesFile(t *testing.T) {
	srv := newEchoServer(t)
	dir := t.TempDir()
	outFile := filepath.Join(dir, "saved.txt")
	file := filepath.Join(dir, "requests.yaml")
	content := fmt.Sprintf(`
requests:
  - id: first
    url: %s/first
  - id: saved
    url: %s/saved
    body: hello
    output: %s
`, srv.URL, srv.URL, outFile)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write requests file: %v", err)
	}

	out, err := execute(t, testConfig(), "run", "--file", file)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "GET /first [] x=" {
		t.Fatalf("stdout = %q", out)
	}
	saved, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read saved: %v", err)
	}
	if string(saved) != "POST /saved [hello] x=" {
		t.Fatalf("saved = %q", saved)
	}
}

func TestExitCodeIsCompletionCode(t *testing.T) {
	_, err := execute(t, testConfig(), "get", "ftp://example.com/file")
	if got := exitCode(err); got != int(httpclient.CodeUnsupportedProtocol) {
		t.Fatalf("exit code = %d (%v), want %d", got, err, httpclient.CodeUnsupportedProtocol)
	}
	if got := exitCode(fmt.Errorf("plain failure")); got != 1 {
		t.Fatalf("exit code for non-transfer error = %d", got)
	}
}

func TestRunCommandPrintsBodiesEveryPass(t *testing.T) {
	srv := newEchoServer(t)
	file := filepath.Join(t.TempDir(), "requests.yaml")
	content := fmt.Sprintf("requests:\n  - id: tick\n    url: %s/tick\n", srv.URL)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write requests file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	root := newRootCmd(testConfig(), &logger.NopLogger{}, &out)
	root.SetArgs([]string{"run", "--file", file, "--interval", "40ms"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if n := strings.Count(out.String(), "GET /tick [] x="); n < 2 {
		t.Fatalf("expected a body per pass, got %d in %q", n, out.String())
	}
}
