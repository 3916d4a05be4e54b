package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tickpipe/internal/depth"
	"tickpipe/internal/metrics"
)

// DepthFeed maintains a single depth subscription against the streaming
// gateway, with reconnect & resubscribe. It satisfies depth.Feed.
type DepthFeed struct {
	url       string
	token     string
	accountID int64
	symbolID  int64
	log       *slog.Logger

	mu         sync.RWMutex
	connected  bool
	subscribed bool
	wsConn     *websocket.Conn

	updCh chan depth.Snapshot
	errCh chan error
	ackCh chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

func NewDepthFeed(url, token string, accountID, symbolID int64, logger *slog.Logger) *DepthFeed {
	return &DepthFeed{
		url:       url,
		token:     token,
		accountID: accountID,
		symbolID:  symbolID,
		log:       logger,
		updCh:     make(chan depth.Snapshot, 1024),
		errCh:     make(chan error, 16),
		ackCh:     make(chan struct{}, 1),
	}
}

func (f *DepthFeed) Updates() <-chan depth.Snapshot { return f.updCh }

func (f *DepthFeed) Errors() <-chan error { return f.errCh }

func (f *DepthFeed) Connected() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.connected
}

func (f *DepthFeed) setConnected(v bool) {
	f.mu.Lock()
	f.connected = v
	f.mu.Unlock()
}

// Subscribe sends the subscription request and blocks until the gateway
// acknowledges it. If the socket is down, the Run loop sends the request on
// the next successful connect; Subscribe still waits for the ack.
func (f *DepthFeed) Subscribe(ctx context.Context) error {
	f.mu.Lock()
	f.subscribed = true
	ws := f.wsConn
	f.mu.Unlock()

	if ws != nil {
		if err := f.sendSubscribe(ws); err != nil {
			return fmt.Errorf("send subscribe: %w", err)
		}
	}
	select {
	case <-f.ackCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *DepthFeed) Unsubscribe() {
	f.mu.Lock()
	ws := f.wsConn
	f.subscribed = false
	f.mu.Unlock()

	if ws != nil {
		_ = ws.WriteJSON(subscribeRequest{Type: "unsubscribe", AccountID: f.accountID, SymbolID: f.symbolID})
	}
}

// Close stops the run loop. Channels are left open so a racing readLoop send
// can never panic; receivers should select on their own context instead of
// waiting for channel close.
func (f *DepthFeed) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Run drives the connect loop: dial, authenticate, resubscribe if a
// subscription is pending, then pump reads until the socket dies. Backoff
// doubles up to 30s and resets after a successful connect.
func (f *DepthFeed) Run(ctx context.Context, onStatus func(connected bool)) {
	if f.cancel != nil {
		return
	}
	f.ctx, f.cancel = context.WithCancel(ctx)

	backoff := time.Second
	for {
		select {
		case <-f.ctx.Done():
			return
		default:
		}

		ws, err := f.openWS()
		if err != nil {
			onStatus(false)
			f.setConnected(false)
			f.emitErr(fmt.Errorf("ws open: %w", err))
			time.Sleep(backoff)
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		f.mu.Lock()
		f.wsConn = ws
		f.connected = true
		sub := f.subscribed
		f.mu.Unlock()
		onStatus(true)
		backoff = time.Second

		if sub {
			if err := f.sendSubscribe(ws); err != nil {
				f.emitErr(fmt.Errorf("resubscribe: %w", err))
				_ = ws.Close()
				continue
			}
		}

		if err := f.readLoop(); err != nil {
			onStatus(false)
			f.setConnected(false)
			metrics.FeedReconnects.Inc()
			f.emitErr(err)
			// loop will reconnect
		}
	}
}

func (f *DepthFeed) openWS() (*websocket.Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := d.DialContext(f.ctx, f.url, nil)
	if err != nil {
		return nil, err
	}

	// Authenticate the socket before anything else; the gateway drops
	// unauthenticated subscription requests.
	if err := ws.WriteJSON(authRequest{Type: "authenticate", Token: f.token}); err != nil {
		_ = ws.Close()
		return nil, err
	}
	return ws, nil
}

func (f *DepthFeed) sendSubscribe(ws *websocket.Conn) error {
	return ws.WriteJSON(subscribeRequest{Type: "subscribe", AccountID: f.accountID, SymbolID: f.symbolID})
}

func (f *DepthFeed) readLoop() error {
	f.mu.RLock()
	ws := f.wsConn
	f.mu.RUnlock()
	defer func() {
		if ws != nil {
			_ = ws.Close()
		}
	}()

	ws.SetReadLimit(1 << 20)
	_ = ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return nil
		default:
		}

		// Keepalive ping
		select {
		case <-ticker.C:
			_ = ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		default:
		}

		_, data, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("ws read: %w", err)
		}

		var msg inboundMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			f.emitErr(fmt.Errorf("malformed frame: %w", err))
			continue
		}

		switch msg.Type {
		case msgAuthAck:
			f.log.Debug("gateway authenticated")
		case msgSubscribeAck:
			select {
			case f.ackCh <- struct{}{}:
			default:
			}
		case msgDepth:
			snap, err := decodeSnapshot(msg)
			if err != nil {
				f.emitErr(fmt.Errorf("malformed depth event: %w", err))
				continue
			}
			metrics.SnapshotsDecoded.Inc()
			select {
			case f.updCh <- snap:
			case <-f.ctx.Done():
				return nil
			}
		case msgError:
			f.emitErr(errors.New("gateway: " + msg.Message))
		default:
			// heartbeat or unknown frame; ignore
		}
	}
}

func (f *DepthFeed) emitErr(err error) {
	select {
	case f.errCh <- err:
	default:
		// drop if buffer full
	}
}
