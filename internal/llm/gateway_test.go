package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubCompleter struct {
	pingErr error
	replies []string
	errs    []error
	calls   int
}

func (s *stubCompleter) Ping(ctx context.Context) error { return s.pingErr }

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, prompt string, opts Options) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

func TestGatewayUnavailableWhenProbeFails(t *testing.T) {
	g := NewGateway(&stubCompleter{pingErr: errors.New("conn refused")}, time.Second, 2, time.Millisecond)
	if g.Available() {
		t.Fatalf("expected unavailable gateway")
	}
	if _, err := g.Generate(context.Background(), "", "hello", Options{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGatewayNilCompleter(t *testing.T) {
	g := NewGateway(nil, time.Second, 2, time.Millisecond)
	if g.Available() {
		t.Fatalf("nil completer must be unavailable")
	}
}

func TestGatewayRetriesThenSucceeds(t *testing.T) {
	stub := &stubCompleter{
		errs:    []error{errors.New("timeout"), nil},
		replies: []string{"", "positive"},
	}
	g := NewGateway(stub, time.Second, 2, time.Millisecond)
	out, err := g.Generate(context.Background(), "", "classify", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "positive" {
		t.Fatalf("got %q", out)
	}
	if stub.calls != 2 {
		t.Fatalf("expected 2 generation attempts, got %d", stub.calls)
	}
}

func TestGatewayExhaustionReturnsUnavailable(t *testing.T) {
	stub := &stubCompleter{
		errs: []error{errors.New("a"), errors.New("b"), errors.New("c")},
	}
	g := NewGateway(stub, time.Second, 2, time.Millisecond)
	if _, err := g.Generate(context.Background(), "", "x", Options{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGatewayHonorsCallerCancellation(t *testing.T) {
	stub := &stubCompleter{errs: []error{nil, errors.New("slow")}}
	g := NewGateway(stub, time.Second, 5, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if _, err := g.Generate(ctx, "", "x", Options{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("cancelled call blocked too long")
	}
}
