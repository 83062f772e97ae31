// Package server exposes a session over HTTP: rendered frames, the spectrum,
// a server-sent event stream of frames and an endpoint accepting input events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/TFMV/spectragraph/interaction"
	"github.com/TFMV/spectragraph/render"
	"github.com/TFMV/spectragraph/session"
)

// maxEventBody bounds the size of one POST /api/events body.
const maxEventBody = 64 << 10

// Config for the server
type Config struct {
	Addr            string
	EventsPerSecond float64
	EventBurst      int
	Output          *render.OutputOptions
}

// Server serves one session.
type Server struct {
	sess    *session.Session
	cfg     Config
	limiter *rate.Limiter
	mux     *http.ServeMux
}

// New creates a server for sess and registers its routes.
func New(sess *session.Session, cfg Config) *Server {
	if cfg.Output == nil {
		cfg.Output = render.NewDefaultOptions()
	}
	limit := rate.Inf
	if cfg.EventsPerSecond > 0 {
		limit = rate.Limit(cfg.EventsPerSecond)
	}
	if cfg.EventBurst <= 0 {
		cfg.EventBurst = 1
	}

	s := &Server{
		sess:    sess,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.EventBurst),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex())
	s.mux.HandleFunc("GET /api/frame", s.handleFrame())
	s.mux.HandleFunc("GET /api/spectrum", s.handleSpectrum())
	s.mux.HandleFunc("GET /api/stream", s.handleStream())
	s.mux.HandleFunc("POST /api/events", s.handleEvents())
	return s
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     s.mux,
		ReadTimeout: 10 * time.Second,
		// no WriteTimeout: /api/stream is long lived
		IdleTimeout: 120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s...", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleIndex serves the editor page
func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, indexHTML, s.cfg.Output.Width, s.cfg.Output.Height, s.cfg.Output.Background, s.cfg.Output.NodeRadius, s.cfg.Output.SelectColor)
	}
}

// handleFrame renders the current frame; ?format= picks svg (default), json or text
func (s *Server) handleFrame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "svg"
		}
		renderer, err := render.GetRenderer(format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out, err := renderer.Render(s.sess.Frame(), s.cfg.Output)
		if err != nil {
			http.Error(w, "Error rendering frame: "+err.Error(), http.StatusInternalServerError)
			return
		}

		switch format {
		case "svg":
			w.Header().Set("Content-Type", "image/svg+xml")
		case "json":
			w.Header().Set("Content-Type", "application/json")
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		_, _ = w.Write(out)
	}
}

// handleSpectrum returns eigenvalues, eigenvectors and the cursor position
func (s *Server) handleSpectrum() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sp, err := s.sess.Spectrum(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, sp)
	}
}

// handleStream pushes every published frame as a server-sent event
func (s *Server) handleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		frames, cancel := s.sess.Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case f, ok := <-frames:
				if !ok {
					return
				}
				data, err := json.Marshal(f)
				if err != nil {
					log.Printf("stream: encoding frame: %v", err)
					return
				}
				if _, err := fmt.Fprintf(w, "event: frame\ndata: %s\n\n", data); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

// handleEvents accepts one event or an array of events
func (s *Server) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "Too many events", http.StatusTooManyRequests)
			return
		}

		var raw json.RawMessage
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody)).Decode(&raw); err != nil {
			http.Error(w, "Error parsing event: "+err.Error(), http.StatusBadRequest)
			return
		}

		var events []interaction.Event
		if len(raw) > 0 && raw[0] == '[' {
			if err := json.Unmarshal(raw, &events); err != nil {
				http.Error(w, "Error parsing events: "+err.Error(), http.StatusBadRequest)
				return
			}
		} else {
			var ev interaction.Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				http.Error(w, "Error parsing event: "+err.Error(), http.StatusBadRequest)
				return
			}
			events = append(events, ev)
		}

		for _, ev := range events {
			if err := s.sess.Dispatch(r.Context(), ev); err != nil {
				status := http.StatusServiceUnavailable
				if errors.Is(err, interaction.ErrUnknownEvent) {
					status = http.StatusBadRequest
				}
				http.Error(w, err.Error(), status)
				return
			}
		}

		sel, err := s.sess.Selection(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"accepted":  len(events),
			"selection": sel,
			"revision":  s.sess.Frame().Revision,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
