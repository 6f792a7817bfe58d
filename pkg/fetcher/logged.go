package fetcher

import "context"

// Logger is the logging surface the boundary adapter relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Logged reports every failure of the wrapped DataFetcher exactly once and
// hands the untouched error back to the caller.
type Logged struct {
	next DataFetcher
	log  Logger
}

// NewLogged wraps next. A nil log discards entries.
func NewLogged(next DataFetcher, log Logger) *Logged {
	if log == nil {
		log = noopLogger{}
	}
	return &Logged{next: next, log: log}
}

// FetchInto implements DataFetcher.
func (l *Logged) FetchInto(ctx context.Context, endpoint string, out any) error {
	err := l.next.FetchInto(ctx, endpoint, out)
	if err != nil {
		l.log.ErrorObj("error fetching data", "fetch_error", map[string]any{
			"endpoint": endpoint,
			"kind":     ErrorKind(err),
			"error":    err.Error(),
		})
		return err
	}
	l.log.DebugObj("data fetched", "fetch", map[string]any{
		"endpoint": endpoint,
	})
	return nil
}
