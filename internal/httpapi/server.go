package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"camwatch/pkg/types"
)

// Service defines the monitoring session methods required by the HTTP API
// layer. monitor.Controller satisfies it.
type Service interface {
	Status() types.StatusResponse
	Start(ctx context.Context) error
	Stop() error
	Running() bool
}

// Options wires the preview pieces into the router.
type Options struct {
	Viewer      *Viewer
	Hub         *Hub
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewMux builds the preview server router.
func NewMux(svc Service, opts Options) http.Handler {
	if opts.Viewer == nil {
		opts.Viewer = NewViewer(ViewerConfig{Logger: opts.Logger})
	}
	if opts.Hub == nil {
		opts.Hub = NewHub(opts.Logger, opts.CORSOrigins)
	}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger(opts.Logger))
	// Compression for JSON and HTML; images and multipart pass through
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Log-Level"},
			MaxAge:         300,
		}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	// @Summary  Live preview
	// @Produce  multipart/x-mixed-replace
	// @Router   /stream.mjpg [get]
	r.Get("/stream.mjpg", func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		streamClients.WithLabelValues("mjpeg").Inc()
		defer streamClients.WithLabelValues("mjpeg").Dec()

		ctx, cancel := streamContext(r)
		defer cancel()

		img, seq := opts.Viewer.Latest()
		for {
			if img != nil {
				if err := writePart(w, img); err != nil {
					return
				}
				flusher.Flush()
			}
			var err error
			img, seq, err = opts.Viewer.Next(ctx, seq)
			if err != nil {
				return
			}
		}
	})

	// @Summary  Latest annotated frame
	// @Produce  image/jpeg
	// @Failure  503 {object} types.ErrorResponse
	// @Router   /snapshot.jpg [get]
	r.Get("/snapshot.jpg", func(w http.ResponseWriter, r *http.Request) {
		img, _ := opts.Viewer.Latest()
		if img == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "no frame yet")
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(img)
	})

	// @Summary  Loop status
	// @Produce  json
	// @Success  200 {object} types.StatusResponse
	// @Router   /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	// @Summary  Start monitoring
	// @Produce  json
	// @Success  200 {object} types.ActionResponse
	// @Failure  409 {object} types.ErrorResponse
	// @Router   /monitor/start [post]
	r.Post("/monitor/start", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Start(baseContext()); err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, types.ActionResponse{Result: "started"})
	})

	// @Summary  Stop monitoring
	// @Produce  json
	// @Success  200 {object} types.ActionResponse
	// @Failure  409 {object} types.ErrorResponse
	// @Router   /monitor/stop [post]
	r.Post("/monitor/stop", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Stop(); err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, types.ActionResponse{Result: "stopped"})
	})

	r.Get("/events", opts.Hub.ServeHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Running() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("stopped"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func writePart(w http.ResponseWriter, img []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(img)); err != nil {
		return err
	}
	if _, err := w.Write(img); err != nil {
		return err
	}
	_, err := w.Write([]byte("\r\n"))
	return err
}
