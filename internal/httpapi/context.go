package httpapi

import (
	"context"
	"net/http"
	"sync"
)

var (
	baseMu  sync.RWMutex
	baseCtx = context.Background()
)

// SetBaseContext installs the process lifetime context. Monitoring sessions
// started through /monitor/start run under it, and open MJPEG streams end
// when it is canceled. A nil ctx restores context.Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	baseMu.Lock()
	baseCtx = ctx
	baseMu.Unlock()
}

func baseContext() context.Context {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return baseCtx
}

// streamContext is r's context, additionally canceled on process shutdown.
func streamContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(baseContext(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
