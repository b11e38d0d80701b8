package schedviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// WebTarget serves the analytics dashboard, JSON views of both snapshots, a
// PNG of the scene and the control surface over HTTP.
type WebTarget struct {
	addr       string
	server     *http.Server
	frame      *Frame
	metrics    *MetricsSnapshot
	mu         sync.RWMutex
	dashboard  *Dashboard
	scene      *Scene
	dispatcher *Dispatcher
	started    bool
	logger     *Logger
}

// WebOption configures a WebTarget.
type WebOption func(*WebTarget)

// WithDashboard sets the dashboard rendered at "/".
func WithDashboard(d *Dashboard) WebOption {
	return func(t *WebTarget) {
		t.dashboard = d
	}
}

// WithDispatcher enables the /control endpoints.
func WithDispatcher(d *Dispatcher) WebOption {
	return func(t *WebTarget) {
		t.dispatcher = d
	}
}

// NewWebTarget creates a target that serves over HTTP on addr.
func NewWebTarget(addr string, opts ...WebOption) (*WebTarget, error) {
	target := &WebTarget{
		addr:   addr,
		scene:  NewScene(),
		logger: GetLogger(),
	}

	for _, opt := range opts {
		opt(target)
	}
	if target.dashboard == nil {
		target.dashboard = NewDashboard()
	}
	target.dashboard.Init()

	return target, nil
}

// Name implements Target.
func (t *WebTarget) Name() string {
	return fmt.Sprintf("WebTarget(%s)", t.addr)
}

// Dashboard returns the dashboard served at "/".
func (t *WebTarget) Dashboard() *Dashboard {
	return t.dashboard
}

// Update implements Target. The dashboard is refreshed only when the
// metrics snapshot has been replaced.
func (t *WebTarget) Update(ctx context.Context, frame *Frame) error {
	t.mu.Lock()
	t.frame = frame
	var metrics *MetricsSnapshot
	if frame != nil {
		metrics = frame.Metrics
	}
	refresh := metrics != t.metrics || t.dashboard.Updates() == 0
	t.metrics = metrics
	wasStarted := t.started
	t.mu.Unlock()

	if refresh {
		t.dashboard.Update(metrics)
	}

	// Auto-start server on first update
	if !wasStarted {
		return t.start()
	}
	return nil
}

// Handler returns the HTTP handler for embedding in existing servers.
func (t *WebTarget) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/game", t.handleGame)
	mux.HandleFunc("/api/metrics", t.handleMetrics)
	mux.HandleFunc("/scene.png", t.handleScene)
	mux.HandleFunc("/charts", t.handleCharts)

	if t.dispatcher != nil {
		mux.HandleFunc("/control/start", t.control(func(*http.Request) error { t.dispatcher.Start(); return nil }))
		mux.HandleFunc("/control/pause", t.control(func(*http.Request) error { t.dispatcher.Pause(); return nil }))
		mux.HandleFunc("/control/reset", t.control(func(*http.Request) error { t.dispatcher.Reset(); return nil }))
		mux.HandleFunc("/control/algorithm", t.control(t.selectAlgorithm))
		mux.HandleFunc("/control/move", t.control(t.move))
		mux.HandleFunc("/control/key", t.control(t.key))
	}

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/", t.handleIndex)
	return mux
}

func (t *WebTarget) current() *Frame {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frame
}

func (t *WebTarget) handleGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, FrameToGameJSON(t.current()))
}

func (t *WebTarget) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, FrameToMetricsJSON(t.current()))
}

func (t *WebTarget) handleScene(w http.ResponseWriter, r *http.Request) {
	var game *GameSnapshot
	if f := t.current(); f != nil {
		game = f.Game
	}

	canvas := NewRasterCanvas(SceneWidth, SceneHeight)
	if err := t.scene.DrawFrame(canvas, game); err != nil {
		t.logger.Warnf("scene: %v", err)
	}

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (t *WebTarget) handleCharts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := t.dashboard.RenderCharts(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write(buf.Bytes())
}

func (t *WebTarget) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := t.dashboard.Render(&buf, "/charts"); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write(buf.Bytes())
}

var errBadRequest = errors.New("bad request")

func (t *WebTarget) control(fn func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := fn(r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func (t *WebTarget) selectAlgorithm(r *http.Request) error {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		return fmt.Errorf("%w: index: %v", errBadRequest, err)
	}
	return t.dispatcher.SelectAlgorithm(index)
}

func (t *WebTarget) move(r *http.Request) error {
	q := r.URL.Query()
	dx, err := strconv.Atoi(q.Get("dx"))
	if err != nil {
		return fmt.Errorf("%w: dx: %v", errBadRequest, err)
	}
	dy, err := strconv.Atoi(q.Get("dy"))
	if err != nil {
		return fmt.Errorf("%w: dy: %v", errBadRequest, err)
	}
	t.dispatcher.Move(dx, dy)
	return nil
}

func (t *WebTarget) key(r *http.Request) error {
	k := ParseKey(r.URL.Query().Get("key"))
	if k == KeyUnknown {
		return fmt.Errorf("%w: unknown key", errBadRequest)
	}
	t.dispatcher.KeyDown(k)
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		GetLogger().Warnf("encode response: %v", err)
	}
}

func (t *WebTarget) start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started || t.addr == "" {
		return nil
	}

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: t.Handler(),
	}

	go func() {
		if err := t.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Errorf("web target %s: %v", t.addr, err)
		}
	}()

	t.started = true
	t.logger.Infof("web target listening on %s", t.URL())
	return nil
}

// Close implements Target.
func (t *WebTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.server != nil {
		return t.server.Shutdown(context.Background())
	}
	return nil
}

// URL returns the URL where the web target is serving.
func (t *WebTarget) URL() string {
	return "http://localhost" + t.addr
}
