package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStreamContext_EndsOnShutdown(t *testing.T) {
	base, shutdown := context.WithCancel(context.Background())
	SetBaseContext(base)
	t.Cleanup(func() { SetBaseContext(nil) })

	ctx, cancel := streamContext(httptest.NewRequest("GET", "/stream.mjpg", nil))
	defer cancel()
	shutdown()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stream context survived shutdown")
	}
}

func TestStreamContext_EndsWithClient(t *testing.T) {
	SetBaseContext(nil)
	reqCtx, disconnect := context.WithCancel(context.Background())
	r := httptest.NewRequest("GET", "/stream.mjpg", nil).WithContext(reqCtx)

	ctx, cancel := streamContext(r)
	defer cancel()
	if ctx.Err() != nil {
		t.Fatalf("canceled early: %v", ctx.Err())
	}
	disconnect()
	<-ctx.Done()
	if baseContext().Err() != nil {
		t.Fatalf("client disconnect leaked into base context")
	}
}
