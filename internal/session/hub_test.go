package session

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/inamate/svgedit/internal/auth"
	"github.com/inamate/svgedit/internal/document"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStoreWithDoc(t *testing.T) (*document.MemoryStore, *document.Document) {
	t.Helper()
	store := document.NewMemoryStore()
	doc, err := store.Create(context.Background(), "test", testSVG)
	require.NoError(t, err)
	return store, doc
}

func drag(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	ctx := context.Background()
	h.handleMessage(ctx, c, input(TypePointerDown, `{"clientX":20,"clientY":20}`))
	h.handleMessage(ctx, c, input(TypePointerMove, `{"clientX":25,"clientY":30}`))
	h.handleMessage(ctx, c, input(TypePointerUp, `{"clientX":25,"clientY":30}`))
}

func TestHub_LockAndAutosaveOnLeave(t *testing.T) {
	store, doc := newStoreWithDoc(t)
	h := NewHub(store)
	ctx := context.Background()

	c1 := NewClient(h, nil, "u1", doc.ID, "c1")
	require.NoError(t, h.Join(ctx, c1))
	assert.True(t, h.Editing(doc.ID))

	c2 := NewClient(h, nil, "u2", doc.ID, "c2")
	assert.ErrorIs(t, h.Join(ctx, c2), ErrLocked)

	drag(t, h, c1)
	h.Leave(c1)
	h.Leave(c1)
	assert.False(t, h.Editing(doc.ID))

	saved, err := store.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)
	assert.Contains(t, saved.Content, `x="15"`)

	// The lock is free again.
	c3 := NewClient(h, nil, "u3", doc.ID, "c3")
	require.NoError(t, h.Join(ctx, c3))
	h.Leave(c3)

	require.NoError(t, h.Stop(ctx))
	assert.ErrorIs(t, h.Join(ctx, NewClient(h, nil, "u4", doc.ID, "c4")), ErrClosed)
}

func TestHub_CleanLeaveDoesNotSave(t *testing.T) {
	store, doc := newStoreWithDoc(t)
	h := NewHub(store)
	c := NewClient(h, nil, "u1", doc.ID, "c1")
	require.NoError(t, h.Join(context.Background(), c))
	h.Leave(c)

	got, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	require.NoError(t, h.Stop(context.Background()))
}

func TestHub_JoinMissingDocument(t *testing.T) {
	h := NewHub(document.NewMemoryStore())
	err := h.Join(context.Background(), NewClient(h, nil, "u", "svgdoc_missing", "c"))
	assert.ErrorIs(t, err, document.ErrNotFound)
	assert.False(t, h.Editing("svgdoc_missing"))
}

func TestHub_ExplicitSaveConflict(t *testing.T) {
	store, doc := newStoreWithDoc(t)
	h := NewHub(store)
	ctx := context.Background()
	c := NewClient(h, nil, "u1", doc.ID, "c1")
	require.NoError(t, h.Join(ctx, c))

	// Someone saved behind the session's back.
	_, err := store.Save(ctx, doc.ID, testSVG, 0)
	require.NoError(t, err)

	h.handleMessage(ctx, c, input(TypeDocSave, ``))
	var last []byte
	for len(c.send) > 0 {
		last = <-c.send
	}
	var msg Message
	require.NoError(t, json.Unmarshal(last, &msg))
	require.Equal(t, TypeError, msg.Type)
	var p ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	assert.Equal(t, CodeConflict, p.Code)

	h.Leave(c)
	require.NoError(t, h.Stop(ctx))
}

func TestHub_RunAutosaves(t *testing.T) {
	store, doc := newStoreWithDoc(t)
	h := NewHub(store)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(ctx, 5*time.Millisecond)
	}()

	c := NewClient(h, nil, "u1", doc.ID, "c1")
	require.NoError(t, h.Join(context.Background(), c))
	drag(t, h, c)

	require.Eventually(t, func() bool {
		got, err := store.Get(context.Background(), doc.ID)
		return err == nil && got.Version == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	h.Leave(c)
	require.NoError(t, h.Stop(context.Background()))
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return &msg
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string) *Message {
	t.Helper()
	for {
		if msg := readMessage(t, conn); msg.Type == typ {
			return msg
		}
	}
}

func writeMessage(t *testing.T, conn *websocket.Conn, typ, payload string) {
	t.Helper()
	data, err := json.Marshal(input(typ, payload))
	require.NoError(t, err)
	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, data))
}

func TestHandler_WebsocketSession(t *testing.T) {
	store, doc := newStoreWithDoc(t)
	h := NewHub(store)
	authSvc := auth.NewService("secret")

	r := mux.NewRouter()
	r.Handle("/ws/documents/{documentId}", NewHandler(h, authSvc, false, nil))
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := authSvc.IssueToken("user_1", time.Hour)
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/documents/" + doc.ID
	opts := &websocket.DialOptions{HTTPClient: srv.Client()}

	_, _, err = websocket.Dial(context.Background(), url, opts)
	require.Error(t, err, "unauthenticated dial must fail")

	conn, _, err := websocket.Dial(context.Background(), url+"?token="+token, opts)
	require.NoError(t, err)

	welcome := readMessage(t, conn)
	require.Equal(t, TypeWelcome, welcome.Type)
	var wp WelcomePayload
	require.NoError(t, json.Unmarshal(welcome.Payload, &wp))
	assert.Equal(t, doc.ID, wp.DocumentID)
	assert.Equal(t, 1, wp.Version)
	assert.Equal(t, TypeDocSync, readMessage(t, conn).Type)

	// A second editor of the same document is turned away.
	other, _, err := websocket.Dial(context.Background(), url+"?token="+token, opts)
	require.NoError(t, err)
	rejected := readMessage(t, other)
	require.Equal(t, TypeError, rejected.Type)
	var ep ErrorPayload
	require.NoError(t, json.Unmarshal(rejected.Payload, &ep))
	assert.Equal(t, CodeLocked, ep.Code)
	other.CloseNow()

	writeMessage(t, conn, TypePointerDown, `{"clientX":20,"clientY":20}`)
	writeMessage(t, conn, TypePointerMove, `{"clientX":25,"clientY":30}`)
	writeMessage(t, conn, TypePointerUp, `{"clientX":25,"clientY":30}`)
	readUntil(t, conn, TypeEditorDirty)
	writeMessage(t, conn, TypeDocSave, ``)
	saved := readUntil(t, conn, TypeDocSaved)
	var sp SavedPayload
	require.NoError(t, json.Unmarshal(saved.Payload, &sp))
	assert.Equal(t, 2, sp.Version)

	got, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Content, `x="15"`)

	conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.Stop(ctx))
}
