package schedviewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	smarttv "github.com/nimsforest/nimsforestsmarttv"
)

// ErrNoReplay is returned by VideoTarget.Start before any frame was recorded.
var ErrNoReplay = errors.New("no frames recorded")

// VideoTarget records the most recent game snapshots and, on Start, encodes
// them as a replay video and streams it to a Smart TV.
type VideoTarget struct {
	tv         *smarttv.TV
	tvRenderer *smarttv.Renderer
	scene      *Scene
	fps        int
	duration   time.Duration
	port       int
	localIP    string
	now        func() time.Time
	encode     func(ctx context.Context, frames []*GameSnapshot, fps int, out string) error

	mu         sync.Mutex
	frames     []*GameSnapshot
	lastSample time.Time
	httpServer *http.Server
	videoFile  string
}

// VideoOption configures a VideoTarget.
type VideoOption func(*VideoTarget)

// WithVideoFPS sets the replay frame rate.
func WithVideoFPS(fps int) VideoOption {
	return func(t *VideoTarget) {
		t.fps = fps
	}
}

// WithVideoDuration sets how much history the replay keeps.
func WithVideoDuration(d time.Duration) VideoOption {
	return func(t *VideoTarget) {
		t.duration = d
	}
}

// WithVideoPort sets the port the replay file is served from.
func WithVideoPort(port int) VideoOption {
	return func(t *VideoTarget) {
		t.port = port
	}
}

// NewVideoTarget creates a replay target for tv.
func NewVideoTarget(tv *smarttv.TV, opts ...VideoOption) (*VideoTarget, error) {
	target := newVideoTarget(opts...)
	target.tv = tv

	renderer, err := smarttv.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create smarttv renderer: %w", err)
	}
	target.tvRenderer = renderer
	target.localIP = getLocalIP()

	return target, nil
}

func newVideoTarget(opts ...VideoOption) *VideoTarget {
	t := &VideoTarget{
		scene:    NewScene(),
		fps:      10,
		duration: 30 * time.Second,
		port:     8889,
		now:      time.Now,
	}
	t.encode = t.encodeFFmpeg
	for _, opt := range opts {
		opt(t)
	}
	if t.fps <= 0 {
		t.fps = 10
	}
	return t
}

// Name implements Target.
func (t *VideoTarget) Name() string {
	if t.tv != nil {
		return fmt.Sprintf("VideoTarget(%s)", t.tv.Name)
	}
	return "VideoTarget"
}

func (t *VideoTarget) capacity() int {
	n := int(t.duration.Seconds() * float64(t.fps))
	if n < 1 {
		n = 1
	}
	return n
}

// Update implements Target. Snapshots are sampled at the replay frame rate;
// the oldest are dropped once the buffer covers the configured duration.
func (t *VideoTarget) Update(ctx context.Context, frame *Frame) error {
	if frame == nil || frame.Game == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	step := time.Second / time.Duration(t.fps)
	if !t.lastSample.IsZero() && now.Sub(t.lastSample) < step {
		return nil
	}
	t.lastSample = now

	t.frames = append(t.frames, frame.Game)
	if over := len(t.frames) - t.capacity(); over > 0 {
		t.frames = append(t.frames[:0], t.frames[over:]...)
	}
	return nil
}

// Recorded returns how many frames the replay currently holds.
func (t *VideoTarget) Recorded() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.frames)
}

// Start encodes the recorded frames and streams the replay to the TV.
func (t *VideoTarget) Start(ctx context.Context) error {
	t.mu.Lock()
	frames := append([]*GameSnapshot(nil), t.frames...)
	t.mu.Unlock()

	if len(frames) == 0 {
		return ErrNoReplay
	}

	videoFile := filepath.Join(os.TempDir(), fmt.Sprintf("schedviewer_replay_%d.mp4", t.now().UnixNano()))
	if err := t.encode(ctx, frames, t.fps, videoFile); err != nil {
		return fmt.Errorf("generate video: %w", err)
	}

	t.mu.Lock()
	previous := t.videoFile
	t.videoFile = videoFile
	t.mu.Unlock()
	if previous != "" {
		os.Remove(previous)
	}

	if err := t.startHTTPServer(); err != nil {
		return fmt.Errorf("start HTTP server: %w", err)
	}

	videoURL := fmt.Sprintf("http://%s:%d/replay.mp4", t.localIP, t.port)
	if err := t.tvRenderer.StreamVideo(ctx, t.tv, videoURL, "CPU Scheduler Replay"); err != nil {
		return fmt.Errorf("stream to TV: %w", err)
	}
	return nil
}

// renderFrames draws every snapshot through the scene and writes raw RGBA
// pixels to w.
func (t *VideoTarget) renderFrames(ctx context.Context, frames []*GameSnapshot, w io.Writer) error {
	canvas := NewRasterCanvas(SceneWidth, SceneHeight)
	for _, snap := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.scene.DrawFrame(canvas, snap); err != nil && !errors.Is(err, ErrOverlayConflict) {
			return err
		}
		if _, err := w.Write(canvas.Image().Pix); err != nil {
			return err
		}
	}
	return nil
}

func (t *VideoTarget) encodeFFmpeg(ctx context.Context, frames []*GameSnapshot, fps int, out string) error {
	ffmpeg := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", SceneWidth, SceneHeight),
		"-r", fmt.Sprintf("%d", fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-profile:v", "baseline",
		"-level", "3.0",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		out,
	)

	ffmpegIn, err := ffmpeg.StdinPipe()
	if err != nil {
		return fmt.Errorf("create pipe: %w", err)
	}
	ffmpeg.Stderr = io.Discard

	if err := ffmpeg.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	renderErr := t.renderFrames(ctx, frames, ffmpegIn)
	ffmpegIn.Close()
	waitErr := ffmpeg.Wait()
	if renderErr != nil {
		return fmt.Errorf("render frames: %w", renderErr)
	}
	if waitErr != nil {
		return fmt.Errorf("ffmpeg encode: %w", waitErr)
	}
	return nil
}

func (t *VideoTarget) startHTTPServer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.httpServer != nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/replay.mp4", func(w http.ResponseWriter, r *http.Request) {
		t.mu.Lock()
		file := t.videoFile
		t.mu.Unlock()
		w.Header().Set("Content-Type", "video/mp4")
		http.ServeFile(w, r, file)
	})

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return err
	}
	t.httpServer = &http.Server{Handler: mux}

	go func() {
		if err := t.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			GetLogger().Errorf("replay server: %v", err)
		}
	}()
	return nil
}

// Close implements Target.
func (t *VideoTarget) Close() error {
	t.mu.Lock()
	server, file := t.httpServer, t.videoFile
	t.httpServer, t.videoFile = nil, ""
	t.mu.Unlock()

	if server != nil {
		server.Shutdown(context.Background())
	}
	if t.tvRenderer != nil {
		t.tvRenderer.Close()
	}
	if file != "" {
		os.Remove(file)
	}
	return nil
}

// Stop stops video playback on the TV.
func (t *VideoTarget) Stop(ctx context.Context) error {
	return t.tvRenderer.Stop(ctx, t.tv)
}

// getLocalIP returns the address the TV should use to reach this host.
func getLocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
