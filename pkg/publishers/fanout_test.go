package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id       string
	typ      string
	err      error
	calls    int
	closed   bool
	closeErr error
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingPublisher struct {
	stubPublisher
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return c.closeErr
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		nil,
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
	})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be skipped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

type blockingPublisher struct {
	stubPublisher
	started chan struct{}
	release chan struct{}
}

func (b *blockingPublisher) Publish(ctx context.Context, _ Event) error {
	b.started <- struct{}{}
	<-b.release
	return nil
}

func TestFanoutPublishesConcurrently(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	a := &blockingPublisher{stubPublisher{id: "a", typ: "http"}, started, release}
	b := &blockingPublisher{stubPublisher{id: "b", typ: "http"}, started, release}

	done := make(chan int, 1)
	go func() {
		n, _ := NewFanout([]Publisher{a, b}).Publish(context.Background(), testEvent())
		done <- n
	}()

	// Both sinks must be in flight before either is released.
	<-started
	<-started
	close(release)
	if n := <-done; n != 2 {
		t.Fatalf("expected 2 successes, got %d", n)
	}
}

func TestFanoutJoinsErrorsInSinkOrder(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "first", typ: "sqs", err: errors.New("one")},
		&stubPublisher{id: "second", typ: "sns", err: errors.New("two")},
	})
	_, err := fanout.Publish(context.Background(), testEvent())
	want := "sqs publisher[first]: one\nsns publisher[second]: two"
	if err == nil || err.Error() != want {
		t.Fatalf("error = %v, want %q", err, want)
	}
}

func TestFanoutCloseOnlyClosesClosers(t *testing.T) {
	plain := &stubPublisher{id: "plain", typ: "http"}
	closer := &closingPublisher{stubPublisher{id: "c", typ: TypeGCPPubSub, closeErr: errors.New("close failed")}}

	err := NewFanout([]Publisher{plain, closer}).Close()
	if !closer.closed {
		t.Fatalf("expected closer to be closed")
	}
	if err == nil {
		t.Fatalf("expected close error to surface")
	}
}

func TestNilFanoutIsSafe(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("unexpected result %d %v", n, err)
	}
	if f.Size() != 0 || f.Close() != nil {
		t.Fatalf("nil fanout should be inert")
	}
}
