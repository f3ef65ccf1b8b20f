package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "order.json")
	p.OnParseComplete(ctx, "order.json", 12, time.Second, nil)
	p.OnLayoutStart(ctx, 12)
	p.OnStage(ctx, "balance", time.Millisecond)
	p.OnLayoutComplete(ctx, 3, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/layout")
	s.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

func TestRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Errorf("Server() = %T, want NoopServerHooks", Server())
	}

	p, c, s := &testPipelineHooks{}, &testCacheHooks{}, &testServerHooks{}
	SetPipelineHooks(p)
	SetCacheHooks(c)
	SetServerHooks(s)
	if Pipeline() != p || Cache() != c || Server() != s {
		t.Error("registered hooks not returned")
	}

	Reset()
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Errorf("Server() after Reset = %T, want NoopServerHooks", Server())
	}
}

func TestRegistryConcurrentSet(t *testing.T) {
	Reset()
	defer Reset()

	p, c := &testPipelineHooks{}, &testCacheHooks{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); SetPipelineHooks(p) }()
	go func() { defer wg.Done(); SetCacheHooks(c) }()
	wg.Wait()

	if Pipeline() != p {
		t.Error("pipeline hooks lost by concurrent SetCacheHooks")
	}
	if Cache() != c {
		t.Error("cache hooks lost by concurrent SetPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnStage(ctx, "balance", time.Millisecond)
	h.OnCacheMiss(ctx, "layout")
	h.OnLayoutComplete(ctx, 0, time.Second, errors.New("boom"))
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"layout stage", "stage=balance", "cache miss", "layout failed", "err=boom", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
