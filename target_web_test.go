package schedviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestWebTarget(t *testing.T, opts ...WebOption) (*WebTarget, *httptest.Server) {
	t.Helper()
	target, err := NewWebTarget("", opts...)
	if err != nil {
		t.Fatalf("new web target: %v", err)
	}
	srv := httptest.NewServer(target.Handler())
	t.Cleanup(srv.Close)
	return target, srv
}

func testFrame() *Frame {
	game := sceneSnapshot()
	game.Seq = 4
	game.Processes = []ProcessView{{PID: 1, EntityType: EntityPlayer, BurstTime: 1, RemainingTime: 0.5}}
	metrics := dashboardMetrics()
	metrics.Seq = 5
	return &Frame{Game: game, Metrics: metrics, Derived: Derive(game, metrics)}
}

func TestWebTarget_Name(t *testing.T) {
	target, err := NewWebTarget(":9999")
	if err != nil {
		t.Fatal(err)
	}
	if target.Name() != "WebTarget(:9999)" {
		t.Errorf("unexpected name %q", target.Name())
	}
	if target.URL() != "http://localhost:9999" {
		t.Errorf("unexpected url %q", target.URL())
	}
}

func TestWebTarget_APIBeforeFirstFrame(t *testing.T) {
	_, srv := newTestWebTarget(t)

	resp, err := http.Get(srv.URL + "/api/game")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var doc GameJSON
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Snapshot != nil || doc.Overlay != "PLAYING" || doc.Panel.QueueMessage != EmptyQueueMessage {
		t.Errorf("unexpected empty document %+v", doc)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestWebTarget_API(t *testing.T) {
	target, srv := newTestWebTarget(t)
	if err := target.Update(context.Background(), testFrame()); err != nil {
		t.Fatalf("update: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/game")
	if err != nil {
		t.Fatal(err)
	}
	var game struct {
		Seq     uint64 `json:"seq"`
		Overlay string `json:"overlay"`
		Panel   Panel  `json:"panel"`
	}
	json.NewDecoder(resp.Body).Decode(&game)
	resp.Body.Close()
	if game.Seq != 4 || game.Overlay != "PLAYING" || len(game.Panel.Queue) != 1 {
		t.Errorf("unexpected game document %+v", game)
	}

	resp, err = http.Get(srv.URL + "/api/metrics")
	if err != nil {
		t.Fatal(err)
	}
	var metrics struct {
		Seq           uint64 `json:"seq"`
		BestAlgorithm string `json:"best_algorithm"`
		Snapshot      struct {
			Comparison json.RawMessage `json:"comparison"`
		} `json:"snapshot"`
	}
	json.NewDecoder(resp.Body).Decode(&metrics)
	resp.Body.Close()
	if metrics.Seq != 5 || metrics.BestAlgorithm != "Round" {
		t.Errorf("unexpected metrics document %+v", metrics)
	}
	if !strings.HasPrefix(string(metrics.Snapshot.Comparison), `{"Round Robin"`) {
		t.Errorf("comparison order not preserved: %s", metrics.Snapshot.Comparison)
	}
}

func TestWebTarget_DashboardRefreshesOnNewMetrics(t *testing.T) {
	target, _ := newTestWebTarget(t)
	frame := testFrame()

	target.Update(context.Background(), frame)
	target.Update(context.Background(), frame)
	if n := target.Dashboard().Updates(); n != 1 {
		t.Errorf("expected one dashboard update, got %d", n)
	}

	next := *frame
	next.Metrics = dashboardMetrics()
	target.Update(context.Background(), &next)
	if n := target.Dashboard().Updates(); n != 2 {
		t.Errorf("expected two dashboard updates, got %d", n)
	}
}

func TestWebTarget_ScenePNG(t *testing.T) {
	target, srv := newTestWebTarget(t)
	target.Update(context.Background(), testFrame())

	resp, err := http.Get(srv.URL + "/scene.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != SceneWidth || b.Dy() != SceneHeight {
		t.Errorf("expected %dx%d, got %v", SceneWidth, SceneHeight, b)
	}
}

func TestWebTarget_Pages(t *testing.T) {
	target, srv := newTestWebTarget(t)
	target.Update(context.Background(), testFrame())

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, `id="statsTable"`},
		{"/charts", http.StatusOK, "Performance Comparison"},
		{"/health", http.StatusOK, "ok"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.status, resp.StatusCode)
		}
		if tt.want != "" && !strings.Contains(buf.String(), tt.want) {
			t.Errorf("%s: body missing %q", tt.path, tt.want)
		}
	}
}

func TestWebTarget_ControlsDisabledWithoutDispatcher(t *testing.T) {
	_, srv := newTestWebTarget(t)
	resp, err := http.Post(srv.URL+"/control/start", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebTarget_Controls(t *testing.T) {
	out := &recordingSender{}
	_, srv := newTestWebTarget(t, WithDispatcher(NewDispatcher(out)))

	tests := []struct {
		method string
		path   string
		status int
		event  string
	}{
		{http.MethodGet, "/control/start", http.StatusMethodNotAllowed, ""},
		{http.MethodPost, "/control/start", http.StatusAccepted, IntentStartGame},
		{http.MethodPost, "/control/pause", http.StatusAccepted, IntentPauseGame},
		{http.MethodPost, "/control/reset", http.StatusAccepted, IntentResetGame},
		{http.MethodPost, "/control/algorithm?index=4", http.StatusAccepted, IntentSelectAlgorithm},
		{http.MethodPost, "/control/algorithm?index=9", http.StatusBadRequest, ""},
		{http.MethodPost, "/control/algorithm?index=x", http.StatusBadRequest, ""},
		{http.MethodPost, "/control/move?dx=-1&dy=0", http.StatusAccepted, IntentPlayerMove},
		{http.MethodPost, "/control/move?dx=1", http.StatusBadRequest, ""},
		{http.MethodPost, "/control/key?key=ArrowUp", http.StatusAccepted, IntentPlayerMove},
		{http.MethodPost, "/control/key?key=Enter", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		before := len(out.sent())
		req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if resp.StatusCode != tt.status {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.status, resp.StatusCode)
		}
		if tt.status == http.StatusMethodNotAllowed && resp.Header.Get("Allow") != http.MethodPost {
			t.Errorf("%s: expected Allow header", tt.path)
		}

		sent := out.sent()
		if tt.event == "" {
			if len(sent) != before {
				t.Errorf("%s %s: expected no intent", tt.method, tt.path)
			}
			continue
		}
		if len(sent) != before+1 || sent[before].Event != tt.event {
			t.Errorf("%s %s: expected %s intent", tt.method, tt.path, tt.event)
		}
	}

	sent := out.sent()
	for _, in := range sent {
		if in.Event == IntentSelectAlgorithm && in.Data != (AlgorithmSelection{Index: 4}) {
			t.Errorf("unexpected selection %v", in.Data)
		}
	}
}

func TestWebTarget_CloseWithoutServer(t *testing.T) {
	target, err := NewWebTarget("")
	if err != nil {
		t.Fatal(err)
	}
	if err := target.Update(context.Background(), nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := target.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
