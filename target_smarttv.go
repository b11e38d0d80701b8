package schedviewer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	smarttv "github.com/nimsforest/nimsforestsmarttv"
	sprites "github.com/nimsforest/nimsforestsprites"
)

// TVMode selects what a SmartTVTarget shows.
type TVMode int

const (
	// TVModeScene shows the arcade scene.
	TVModeScene TVMode = iota
	// TVModeQueue shows the ready queue as sprites, one land per algorithm.
	TVModeQueue
)

// ParseTVMode parses "scene" or "queue".
func ParseTVMode(s string) (TVMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scene":
		return TVModeScene, nil
	case "queue":
		return TVModeQueue, nil
	}
	return TVModeScene, fmt.Errorf("unknown tv mode %q", s)
}

func (m TVMode) String() string {
	if m == TVModeQueue {
		return "queue"
	}
	return "scene"
}

// SmartTVTarget pushes still images of the game to a Smart TV via DLNA.
type SmartTVTarget struct {
	tv             *smarttv.TV
	renderer       *smarttv.Renderer
	sprites        *sprites.Renderer
	scene          *Scene
	mode           TVMode
	useJFIF        bool // Convert to JFIF format for better TV compatibility
	spriteOpts     sprites.Options
	mu             sync.Mutex
	lastImageBytes []byte // Cache to avoid redundant updates
}

// TVOption configures a SmartTVTarget.
type TVOption func(*SmartTVTarget)

// WithJFIF enables JFIF conversion for better TV compatibility.
// Requires ffmpeg and imagemagick to be installed.
func WithJFIF(enable bool) TVOption {
	return func(t *SmartTVTarget) {
		t.useJFIF = enable
	}
}

// WithTVMode selects the scene or the queue view.
func WithTVMode(mode TVMode) TVOption {
	return func(t *SmartTVTarget) {
		t.mode = mode
	}
}

// WithSpriteOptions sets the sprite renderer options used by TVModeQueue.
func WithSpriteOptions(opts sprites.Options) TVOption {
	return func(t *SmartTVTarget) {
		t.spriteOpts = opts
	}
}

// NewSmartTVTarget creates a target that displays images on a Smart TV.
func NewSmartTVTarget(tv *smarttv.TV, opts ...TVOption) (*SmartTVTarget, error) {
	target := &SmartTVTarget{
		tv:      tv,
		scene:   NewScene(),
		useJFIF: true,
		spriteOpts: sprites.Options{
			Width:     1920,
			Height:    1080,
			FrameRate: 30,
			UseGPU:    false, // Use software rendering for headless
		},
	}

	for _, opt := range opts {
		opt(target)
	}

	renderer, err := smarttv.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create smarttv renderer: %w", err)
	}
	target.renderer = renderer

	if target.mode == TVModeQueue {
		spriteRenderer, err := sprites.New(target.spriteOpts)
		if err != nil {
			renderer.Close()
			return nil, fmt.Errorf("create sprite renderer: %w", err)
		}
		target.sprites = spriteRenderer
	}

	return target, nil
}

// Name implements Target.
func (t *SmartTVTarget) Name() string {
	if t.tv != nil {
		return fmt.Sprintf("SmartTV(%s, %s)", t.tv.Name, t.mode)
	}
	return "SmartTV"
}

// Update implements Target.
func (t *SmartTVTarget) Update(ctx context.Context, frame *Frame) error {
	var game *GameSnapshot
	if frame != nil {
		game = frame.Game
	}

	img, err := t.render(game)
	if err != nil {
		return err
	}

	var jpegData []byte
	if t.useJFIF {
		jpegData, err = convertToJFIF(img)
	} else {
		jpegData, err = encodeJPEG(img)
	}
	if err != nil {
		return fmt.Errorf("convert to JPEG: %w", err)
	}

	t.mu.Lock()
	if bytes.Equal(jpegData, t.lastImageBytes) {
		t.mu.Unlock()
		return nil
	}
	t.lastImageBytes = jpegData
	t.mu.Unlock()

	if err := t.renderer.DisplayImageJPEG(ctx, t.tv, jpegData); err != nil {
		return fmt.Errorf("display on TV: %w", err)
	}
	return nil
}

func (t *SmartTVTarget) render(game *GameSnapshot) (image.Image, error) {
	if t.mode == TVModeQueue {
		img := t.sprites.Render(NewSpritesStateAdapter(game))
		if img == nil {
			return nil, fmt.Errorf("failed to render frame")
		}
		return img, nil
	}

	canvas := NewRasterCanvas(SceneWidth, SceneHeight)
	if err := t.scene.DrawFrame(canvas, game); err != nil {
		GetLogger().Warnf("%s: %v", t.Name(), err)
	}
	return canvas.Image(), nil
}

// Close implements Target.
func (t *SmartTVTarget) Close() error {
	if t.sprites != nil {
		t.sprites.Close()
	}
	if t.renderer != nil {
		t.renderer.Close()
	}
	return nil
}

// Stop stops playback on the TV.
func (t *SmartTVTarget) Stop(ctx context.Context) error {
	return t.renderer.Stop(ctx, t.tv)
}

// convertToJFIF converts an image to JFIF-compliant JPEG using ffmpeg and
// magick. Some TVs reject plain encoder output.
func convertToJFIF(img image.Image) ([]byte, error) {
	rgba := toRGBA(img)
	bounds := rgba.Bounds()

	stamp := time.Now().UnixNano()
	tmpFile := fmt.Sprintf("%s/schedviewer_%d.jpg", os.TempDir(), stamp)
	jfifFile := fmt.Sprintf("%s/schedviewer_%d_jfif.jpg", os.TempDir(), stamp)
	defer os.Remove(tmpFile)
	defer os.Remove(jfifFile)

	cmd := exec.Command("ffmpeg",
		"-y", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"-i", "pipe:0",
		"-vframes", "1",
		"-pix_fmt", "yuvj420p",
		"-q:v", "2",
		tmpFile,
	)
	cmd.Stdin = bytes.NewReader(rgba.Pix)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}

	if err := exec.Command("magick", tmpFile, jfifFile).Run(); err != nil {
		// Fallback to ffmpeg output if magick not available
		return os.ReadFile(tmpFile)
	}
	return os.ReadFile(jfifFile)
}

// encodeJPEG encodes an image as standard JPEG (may not work on all TVs).
func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, toRGBA(img), &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
