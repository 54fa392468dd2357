package httpclient

import "context"

// Transferer is the call surface of the facade so callers can inject fakes.
type Transferer interface {
	PostForm(ctx context.Context, url string, form map[string]string, out *string) error
	Post(ctx context.Context, url, body string, out *string) error
	PostWithHeaders(ctx context.Context, url, body string, headers []string, out *string) error
	Get(ctx context.Context, url string, out *string) error
	Posts(ctx context.Context, url, body string, out *string, caPath string) error
	Gets(ctx context.Context, url string, out *string, caPath string) error
}

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
