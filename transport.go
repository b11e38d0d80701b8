package schedviewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Inbound event names.
const (
	EventGameUpdate    = "game_update"
	EventMetricsUpdate = "metrics_update"
)

// Outbound intent names.
const (
	IntentStartGame       = "start_game"
	IntentPauseGame       = "pause_game"
	IntentResetGame       = "reset_game"
	IntentPlayerMove      = "player_move"
	IntentSelectAlgorithm = "select_algorithm"
	IntentRequestMetrics  = "request_metrics"
)

// DefaultMetricsInterval is the wall-clock period of request_metrics.
const DefaultMetricsInterval = 2 * time.Second

// ErrNotConnected is returned when sending before Connect.
var ErrNotConnected = errors.New("transport not connected")

// Envelope is the wire frame for every event in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Intent is a user action sent to the simulation. It carries no state.
type Intent struct {
	Event string
	Data  any
}

// Move is the player_move payload.
type Move struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// AlgorithmSelection is the select_algorithm payload.
type AlgorithmSelection struct {
	Index int `json:"index"`
}

// StartGame returns a start_game intent.
func StartGame() Intent { return Intent{Event: IntentStartGame} }

// PauseGame returns a pause_game intent.
func PauseGame() Intent { return Intent{Event: IntentPauseGame} }

// ResetGame returns a reset_game intent.
func ResetGame() Intent { return Intent{Event: IntentResetGame} }

// RequestMetrics returns a request_metrics intent.
func RequestMetrics() Intent { return Intent{Event: IntentRequestMetrics} }

// PlayerMove returns a player_move intent.
func PlayerMove(dx, dy int) Intent {
	return Intent{Event: IntentPlayerMove, Data: Move{DX: dx, DY: dy}}
}

// SelectAlgorithm returns a select_algorithm intent.
func SelectAlgorithm(index int) Intent {
	return Intent{Event: IntentSelectAlgorithm, Data: AlgorithmSelection{Index: index}}
}

// Envelope encodes the intent for the wire.
func (in Intent) Envelope() (Envelope, error) {
	env := Envelope{Event: in.Event}
	if in.Data != nil {
		data, err := json.Marshal(in.Data)
		if err != nil {
			return Envelope{}, fmt.Errorf("encode %s: %w", in.Event, err)
		}
		env.Data = data
	}
	return env, nil
}

// Sender delivers intents upstream.
type Sender interface {
	Send(in Intent) error
}

// Publisher receives decoded snapshots.
type Publisher interface {
	PublishGame(ctx context.Context, snap *GameSnapshot) error
	PublishMetrics(ctx context.Context, snap *MetricsSnapshot) error
}

// Transport is the realtime channel to the simulation process.
// It does not reconnect; a dropped connection ends Run with an error.
type Transport struct {
	url       string
	publisher Publisher
	dialer    *websocket.Dialer
	header    http.Header
	interval  time.Duration
	clientID  string
	logger    *Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithMetricsInterval sets the request_metrics period. Zero disables the timer.
func WithMetricsInterval(d time.Duration) TransportOption {
	return func(t *Transport) {
		t.interval = d
	}
}

// WithDialer sets the websocket dialer.
func WithDialer(d *websocket.Dialer) TransportOption {
	return func(t *Transport) {
		t.dialer = d
	}
}

// WithClientID sets the id sent as the client_id query parameter.
func WithClientID(id string) TransportOption {
	return func(t *Transport) {
		t.clientID = id
	}
}

// WithHeader sets extra handshake headers.
func WithHeader(h http.Header) TransportOption {
	return func(t *Transport) {
		t.header = h
	}
}

// NewTransport creates a Transport for the websocket endpoint at rawURL.
func NewTransport(rawURL string, publisher Publisher, opts ...TransportOption) *Transport {
	t := &Transport{
		url:       rawURL,
		publisher: publisher,
		dialer:    websocket.DefaultDialer,
		interval:  DefaultMetricsInterval,
		clientID:  uuid.NewString(),
		logger:    GetLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns a descriptive name for logging.
func (t *Transport) Name() string {
	return fmt.Sprintf("Transport(%s)", t.url)
}

// ClientID returns the session id presented to the server.
func (t *Transport) ClientID() string {
	return t.clientID
}

// Connect opens the channel and sends the initial request_metrics.
func (t *Transport) Connect(ctx context.Context) error {
	u, err := url.Parse(t.url)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("client_id", t.clientID)
	u.RawQuery = q.Encode()

	conn, _, err := t.dialer.DialContext(ctx, u.String(), t.header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.url, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	t.logger.Infof("connected to %s as %s", t.url, t.clientID)

	if err := t.Send(RequestMetrics()); err != nil {
		return fmt.Errorf("initial request_metrics: %w", err)
	}
	return nil
}

// Run reads inbound events and drives the metrics timer until ctx is
// cancelled or the connection fails.
func (t *Transport) Run(ctx context.Context) error {
	conn := t.current()
	if conn == nil {
		return ErrNotConnected
	}

	errc := make(chan error, 1)
	go func() {
		errc <- t.readLoop(ctx, conn)
	}()

	var tick <-chan time.Time
	if t.interval > 0 {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close()
			<-errc
			return ctx.Err()
		case err := <-errc:
			return err
		case <-tick:
			if err := t.Send(RequestMetrics()); err != nil {
				t.logger.Warnf("request_metrics: %v", err)
			}
		}
	}
}

func (t *Transport) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if err := t.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.logger.Warnf("dropping inbound message: %v", err)
		}
	}
}

func (t *Transport) handle(ctx context.Context, msg []byte) error {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Event {
	case EventGameUpdate:
		snap, err := DecodeGameSnapshot(env.Data)
		if err != nil {
			return err
		}
		return t.publisher.PublishGame(ctx, snap)
	case EventMetricsUpdate:
		snap, err := DecodeMetricsSnapshot(env.Data)
		if err != nil {
			return err
		}
		return t.publisher.PublishMetrics(ctx, snap)
	default:
		t.logger.Debugf("ignoring event %q", env.Event)
	}
	return nil
}

// Send implements Sender. It is fire-and-forget: no acknowledgement is
// awaited and failures are not retried.
func (t *Transport) Send(in Intent) error {
	conn := t.current()
	if conn == nil {
		return ErrNotConnected
	}

	env, err := in.Envelope()
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send %s: %w", in.Event, err)
	}
	t.logger.Debugf("sent %s", in.Event)
	return nil
}

func (t *Transport) current() *websocket.Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn
}

// Close sends a close frame and releases the connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	if conn == nil {
		return nil
	}

	t.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	t.writeMu.Unlock()
	return conn.Close()
}

var (
	_ Sender    = (*Transport)(nil)
	_ Publisher = (*Bus)(nil)
)
