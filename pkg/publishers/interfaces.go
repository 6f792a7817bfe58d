package publishers

import "context"

// Publisher delivers snapshot events to one downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is what sinks report delivery outcomes through.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type nopLogger struct{}

func (nopLogger) DebugObj(string, string, interface{}) {}
func (nopLogger) WarnObj(string, string, interface{})  {}
func (nopLogger) ErrorObj(string, string, interface{}) {}

func orNop(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}
