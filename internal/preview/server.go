package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/ready"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/version"
	"github.com/storykeep/storykeep/internal/watch"
)

// Options configures the preview server.
type Options struct {
	// Addr is the listen address, e.g. ":7465".
	Addr string
	// DBPath is the library database file, watched for external changes.
	DBPath string
	// Announce publishes the server over mDNS when true.
	Announce bool
	// InstanceName is the mDNS instance name. Defaults to "StoryKeep Preview".
	InstanceName string
}

// Server is the read-only LAN preview server.
type Server struct {
	repo  *repo.Repository
	hub   *Hub
	opts  Options
	ready *ready.Gate
}

// NewServer wraps an already-opened repository.
func NewServer(r *repo.Repository, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":7465"
	}
	if opts.InstanceName == "" {
		opts.InstanceName = "StoryKeep Preview"
	}
	return &Server{repo: r, hub: NewHub(), opts: opts}
}

// Hub exposes the change-feed hub, mainly for tests.
func (s *Server) Hub() *Hub { return s.hub }

// NotifyReady makes Run signal the gate once the listener is bound, or with
// the bind error if it never comes up.
func (s *Server) NotifyReady(g *ready.Gate) { s.ready = g }

// Run serves until the context is cancelled. The HTTP listener, the change
// watcher, and the mDNS announcer run under one errgroup so any fatal
// failure tears the whole server down.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	httpSrv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		ln, err := net.Listen("tcp", s.opts.Addr)
		if err != nil {
			if s.ready != nil {
				s.ready.Signal(err)
			}
			return fmt.Errorf("preview listener: %w", err)
		}
		if s.ready != nil {
			s.ready.Signal(nil)
		}
		logging.Info("Preview server listening", zap.String("addr", ln.Addr().String()))
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("preview listener: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.CloseAll()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if s.opts.DBPath != "" {
		g.Go(func() error {
			return s.watchLibrary(ctx)
		})
	}

	if s.opts.Announce {
		g.Go(func() error {
			return s.announce(ctx)
		})
	}

	return g.Wait()
}

// watchLibrary reloads the repository when the database file changes and
// broadcasts to feed clients when the stored generation actually moved.
func (s *Server) watchLibrary(ctx context.Context) error {
	w, err := watch.NewWatcher(s.opts.DBPath)
	if err != nil {
		return fmt.Errorf("watching library: %w", err)
	}
	w.Start(ctx)
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Changes():
			if !ok {
				return nil
			}
			s.reload(ctx)
		}
	}
}

func (s *Server) reload(ctx context.Context) {
	before := s.repo.Generation()
	if err := s.repo.Reload(ctx); err != nil {
		logging.Error("Library reload failed", zap.Error(err))
		return
	}
	after := s.repo.Generation()
	if after == before {
		logging.Debug("Library file touched but generation unchanged")
		return
	}

	logging.Info("Library changed, notifying feed clients",
		zap.String("generation", after),
		zap.Int("clients", s.hub.Len()),
	)
	msg, _ := json.Marshal(map[string]string{
		"type":       "library_changed",
		"generation": after,
	})
	s.hub.Broadcast(msg)
}

// Handler builds the HTTP routes. Split out so tests can drive it through
// httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("GET /api/records/{kind}/{id}", s.handleGetRecord)
	mux.HandleFunc("GET /ws", s.handleFeed)
	return logRequests(mux)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Encoding response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleListRecords serves GET /api/records?kind=<kind>.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	kindParam := r.URL.Query().Get("kind")
	if kindParam == "" {
		writeError(w, http.StatusBadRequest, "missing kind parameter")
		return
	}
	kind, err := entity.ParseKind(kindParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := s.repo.List(kind)
	writeJSON(w, http.StatusOK, map[string]any{
		"kind":       kind.Plural(),
		"generation": s.repo.Generation(),
		"records":    records,
	})
}

// handleGetRecord serves GET /api/records/{kind}/{id}.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := entity.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.repo.Get(kind, r.PathValue("id"))
	if err != nil {
		if repo.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Preview is a trusted-LAN feature; readers connect from arbitrary
	// origins (phone browsers, reader apps).
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleFeed upgrades the connection and pumps hub messages until the
// client goes away.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Feed upgrade failed", zap.Error(err))
		return
	}

	client := s.hub.Register(conn, r.RemoteAddr)
	defer func() {
		s.hub.Unregister(client)
		conn.Close()
	}()

	// Reader goroutine exists only to observe the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-client.Send():
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>StoryKeep Preview</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.6rem; }
ul { list-style: none; padding: 0; }
li { padding: 0.4rem 0; border-bottom: 1px solid #eee; }
.count { color: #888; font-size: 0.9rem; }
footer { margin-top: 2rem; color: #aaa; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>StoryKeep Preview</h1>
<p>Read-only view of this story library. Records by kind:</p>
<ul>
{{range .Sections}}<li><a href="/api/records?kind={{.Plural}}">{{.Label}}</a> <span class="count">{{.Count}}</span></li>
{{end}}</ul>
<footer>storykeep {{.Version}} · generation {{.Generation}}</footer>
</body>
</html>
`))

type indexSection struct {
	Plural string
	Label  string
	Count  int
}

// handleIndex serves the HTML landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	counts := s.repo.Counts()
	sections := make([]indexSection, 0, len(counts))
	for _, k := range entity.Kinds() {
		sections = append(sections, indexSection{
			Plural: k.Plural(),
			Label:  k.Label() + "s",
			Count:  counts[k],
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, map[string]any{
		"Sections":   sections,
		"Version":    version.Version,
		"Generation": s.repo.Generation(),
	})
	if err != nil {
		logging.Error("Rendering index failed", zap.Error(err))
	}
}
