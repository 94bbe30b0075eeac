package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/editor"
)

var (
	// ErrLocked is returned when another client is already editing the
	// document.
	ErrLocked = errors.New("document is being edited by another client")
	ErrClosed = errors.New("hub is stopped")
)

const (
	DefaultAutosaveInterval = 30 * time.Second
	saveTimeout             = 10 * time.Second
)

// Hub admits one editing client per document, routes client messages to
// their sessions and persists dirty sessions.
type Hub struct {
	store      document.Store
	editorOpts []editor.Option
	log        *slog.Logger

	mu      sync.Mutex
	clients map[string]*Client // documentID -> lock holder
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type HubOption func(*Hub)

func WithEditorOptions(opts ...editor.Option) HubOption {
	return func(h *Hub) { h.editorOpts = append(h.editorOpts, opts...) }
}

func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) { h.log = l }
}

func NewHub(store document.Store, opts ...HubOption) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		store:   store,
		log:     slog.Default(),
		clients: make(map[string]*Client),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Join loads the client's document, takes its edit lock and greets the
// client with a welcome and a full sync.
func (h *Hub) Join(ctx context.Context, c *Client) error {
	if h.Editing(c.DocumentID) {
		return ErrLocked
	}
	doc, err := h.store.Get(ctx, c.DocumentID)
	if err != nil {
		return err
	}
	sess, err := NewSession(doc, c.Send, h.log.With("client", c.ClientID), h.editorOpts...)
	if err != nil {
		return err
	}
	c.session = sess

	h.mu.Lock()
	switch {
	case h.stopped:
		err = ErrClosed
	case h.clients[c.DocumentID] != nil:
		err = ErrLocked
	default:
		h.clients[c.DocumentID] = c
	}
	h.mu.Unlock()
	if err != nil {
		sess.Close()
		return err
	}

	c.Send(sess.Welcome(c.ClientID))
	sess.Sync()
	h.log.Info("client joined", "user", c.UserID, "document", c.DocumentID, "client", c.ClientID)
	return nil
}

// Leave saves the client's unsaved edits, disposes its editor and releases
// the document. It is safe to call more than once.
func (h *Hub) Leave(c *Client) {
	if !h.release(c) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	if _, err := h.save(ctx, c, false); err != nil {
		h.log.Error("autosave on leave failed", "document", c.DocumentID, "error", err)
	}
	cancel()
	c.session.Close()
	c.closeSend()
	h.log.Info("client left", "user", c.UserID, "document", c.DocumentID, "client", c.ClientID)
}

func (h *Hub) release(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.DocumentID] != c {
		return false
	}
	delete(h.clients, c.DocumentID)
	return true
}

func (h *Hub) handleMessage(ctx context.Context, c *Client, msg *Message) {
	wantSave, err := c.session.Handle(msg)
	if err != nil {
		h.log.Warn("rejected message", "type", msg.Type, "client", c.ClientID, "error", err)
		c.Send(errorMessage(CodeBadMessage, err.Error()))
		return
	}
	if !wantSave {
		return
	}
	if _, err := h.save(ctx, c, true); err != nil {
		code := CodeSaveFailed
		if errors.Is(err, document.ErrVersionClash) {
			code = CodeConflict
		}
		c.Send(errorMessage(code, err.Error()))
	}
}

// save stores the session content when it is dirty, or always when force
// is set. It reports whether a save happened.
func (h *Hub) save(ctx context.Context, c *Client, force bool) (bool, error) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	content, version, dirty, err := c.session.Snapshot()
	if err != nil {
		return false, err
	}
	if !dirty && !force {
		return false, nil
	}
	doc, err := h.store.Save(ctx, c.DocumentID, content, version)
	if err != nil {
		return false, fmt.Errorf("save document %s: %w", c.DocumentID, err)
	}
	c.session.Saved(content, doc.Version)
	h.log.Info("document saved", "document", c.DocumentID, "version", doc.Version)
	return true, nil
}

// Run autosaves dirty sessions every interval until ctx is done or the hub
// stops.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.autosave(ctx)
		case <-ctx.Done():
			return
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) autosave(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if _, err := h.save(ctx, c, false); err != nil {
			h.log.Error("autosave failed", "document", c.DocumentID, "error", err)
		}
	}
}

// Serve runs the pumps of a joined client until the connection or the hub
// closes.
func (h *Hub) Serve(c *Client) {
	h.wg.Add(1)
	defer h.wg.Done()

	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.WritePump(ctx)
	}()
	c.ReadPump(ctx)
	cancel()
	<-done
}

// Stop closes every connection, saving dirty documents on the way out, and
// waits for the client pumps to finish or ctx to expire.
func (h *Hub) Stop(ctx context.Context) error {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Editing reports whether documentID is locked by a client.
func (h *Hub) Editing(documentID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[documentID]
	return ok
}
