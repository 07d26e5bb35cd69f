// Package rtdb is the websocket client for the realtime tree store. It
// implements app.Store over a single socket: writes and one-shot reads are
// correlated request/ack pairs, subscriptions are server-pushed snap frames.
package rtdb

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/app"
)

// ErrClosed indicates the store connection is gone; every in-flight and
// subsequent request fails with it.
var ErrClosed = errors.New("store connection closed")

const requestTimeout = 10 * time.Second

// Client is a connected store session. Snapshot handlers run on the read
// loop goroutine; callers route them onto their own scheduler.
type Client struct {
	conn *websocket.Conn
	log  zerolog.Logger

	writeMu sync.Mutex // the websocket allows one concurrent writer

	mu       sync.Mutex
	nextReq  uint64
	pending  map[uint64]chan frame
	handlers map[string][]*snapHandler
	lastSnap map[string]json.RawMessage

	closed    chan struct{}
	closeOnce sync.Once

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

type snapHandler struct {
	fn func(json.RawMessage)
}

var _ app.Store = (*Client)(nil)

// Dial connects and authenticates against the store endpoint. The token
// rides in the Authorization header of the websocket handshake.
func Dial(ctx context.Context, url, token string, log zerolog.Logger) (*Client, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dialing store at %s: %w", url, err)
	}
	c := &Client{
		conn:     conn,
		log:      log,
		pending:  map[uint64]chan frame{},
		handlers: map[string][]*snapHandler{},
		lastSnap: map[string]json.RawMessage{},
		closed:   make(chan struct{}),
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	go c.readLoop()
	return c, nil
}

// Close tears the connection down. Idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.conn.Close()
}

// Read returns the full subtree at path, one shot. Absent paths come back
// as JSON null.
func (c *Client) Read(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := c.request(ctx, frame{Op: opGet, Path: path})
	if err != nil {
		return nil, err
	}
	if len(resp.Value) == 0 {
		return json.RawMessage("null"), nil
	}
	return resp.Value, nil
}

// WriteFull overwrites the node at path; a nil value deletes it.
func (c *Client) WriteFull(ctx context.Context, path string, value any) error {
	raw, err := rawValue(value)
	if err != nil {
		return err
	}
	_, err = c.request(ctx, frame{Op: opPut, Path: path, Value: raw})
	return err
}

// Append writes value under a client-minted key that sorts chronologically
// among keys pushed to the same path.
func (c *Client) Append(ctx context.Context, path string, value any) (string, error) {
	key, err := c.pushKey()
	if err != nil {
		return "", err
	}
	if err := c.WriteFull(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

// MergeFields shallow-merges the named children into path. A nil field
// marshals to JSON null, which the server treats as a per-field delete.
func (c *Client) MergeFields(ctx context.Context, path string, fields map[string]any) error {
	raw, err := rawValue(fields)
	if err != nil {
		return err
	}
	_, err = c.request(ctx, frame{Op: opPatch, Path: path, Value: raw})
	return err
}

// Subscribe registers fn for path snapshots. The first subscriber opens the
// server-side subscription, whose immediate snap covers the initial fire;
// later subscribers replay the cached last snapshot.
func (c *Client) Subscribe(path string, fn func(json.RawMessage)) (cancel func()) {
	h := &snapHandler{fn: fn}

	c.mu.Lock()
	c.handlers[path] = append(c.handlers[path], h)
	first := len(c.handlers[path]) == 1
	last, seen := c.lastSnap[path]
	c.mu.Unlock()

	if first {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if _, err := c.request(ctx, frame{Op: opSub, Path: path}); err != nil {
				c.log.Warn().Str("path", path).Err(err).Msg("subscribe failed")
			}
		}()
	} else if seen {
		go fn(last)
	}

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(path, h) })
	}
}

func (c *Client) unsubscribe(path string, h *snapHandler) {
	c.mu.Lock()
	hs := c.handlers[path]
	for i := range hs {
		if hs[i] == h {
			hs = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	empty := len(hs) == 0
	if empty {
		delete(c.handlers, path)
		delete(c.lastSnap, path)
	} else {
		c.handlers[path] = hs
	}
	c.mu.Unlock()

	if empty {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if _, err := c.request(ctx, frame{Op: opUnsub, Path: path}); err != nil {
				c.log.Warn().Str("path", path).Err(err).Msg("unsubscribe failed")
			}
		}()
	}
}

func (c *Client) request(ctx context.Context, f frame) (frame, error) {
	ch := make(chan frame, 1)

	c.mu.Lock()
	c.nextReq++
	f.Req = c.nextReq
	c.pending[f.Req] = ch
	c.mu.Unlock()

	if err := c.send(f); err != nil {
		c.dropPending(f.Req)
		return frame{}, fmt.Errorf("sending %s %s: %w", f.Op, f.Path, err)
	}

	select {
	case resp := <-ch:
		if resp.Op == opErr {
			return frame{}, fmt.Errorf("store rejected %s %s: %s", f.Op, f.Path, resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		c.dropPending(f.Req)
		return frame{}, ctx.Err()
	case <-c.closed:
		return frame{}, ErrClosed
	}
}

func (c *Client) dropPending(req uint64) {
	c.mu.Lock()
	delete(c.pending, req)
	c.mu.Unlock()
}

func (c *Client) send(f frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(f)
}

func (c *Client) readLoop() {
	defer c.Close()
	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			select {
			case <-c.closed:
			default:
				c.log.Warn().Err(err).Msg("store connection lost")
			}
			return
		}
		switch f.Op {
		case opSnap:
			c.deliverSnap(f)
		case opAck, opErr:
			c.mu.Lock()
			ch := c.pending[f.Req]
			delete(c.pending, f.Req)
			c.mu.Unlock()
			if ch != nil {
				ch <- f
			}
		default:
			c.log.Warn().Str("op", f.Op).Msg("unexpected frame")
		}
	}
}

func (c *Client) deliverSnap(f frame) {
	value := f.Value
	if len(value) == 0 {
		value = json.RawMessage("null")
	}
	c.mu.Lock()
	c.lastSnap[f.Path] = value
	hs := append([]*snapHandler(nil), c.handlers[f.Path]...)
	c.mu.Unlock()
	for _, h := range hs {
		h.fn(value)
	}
}

func (c *Client) pushKey() (string, error) {
	c.entropyMu.Lock()
	defer c.entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), c.entropy)
	if err != nil {
		return "", fmt.Errorf("minting push key: %w", err)
	}
	return id.String(), nil
}

func rawValue(value any) (json.RawMessage, error) {
	if value == nil {
		return json.RawMessage("null"), nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	return raw, nil
}
