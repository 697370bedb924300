package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Taze00/chess-coach/internal/bootstrap"
	"github.com/Taze00/chess-coach/internal/progress"
	analysisuc "github.com/Taze00/chess-coach/internal/usecase/analysis"
)

// newProgressWSServer mounts HandleProgressWS and signals when the handler
// returns, so tests can assert the streaming loop actually stops.
func newProgressWSServer(t *testing.T) (*httptest.Server, *progress.MemoryStore, chan struct{}) {
	t.Helper()

	cfg := &bootstrap.Config{}
	log := zap.NewNop().Sugar()
	store := progress.NewMemoryStore()
	uc := analysisuc.NewAnalysisUseCase(cfg, log, nil, store, nil)
	h := NewAnalysisHandler(cfg, log, uc)

	handlerDone := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		h.HandleProgressWS(w, r)
		close(handlerDone)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store, handlerDone
}

func dialProgressWS(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHandleProgressWSStreamsUntilDone(t *testing.T) {
	srv, store, handlerDone := newProgressWSServer(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", progress.Snapshot{
		Status:     progress.StatusRunning,
		CurrentPly: 3,
		TotalPlies: 40,
	}))

	conn := dialProgressWS(t, srv, "user-1")
	defer conn.Close()

	var snap progress.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, progress.StatusRunning, snap.Status)
	assert.Equal(t, 3, snap.CurrentPly)

	require.NoError(t, store.Set(ctx, "user-1", progress.Snapshot{Status: progress.StatusDone}))
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, progress.StatusDone, snap.Status)

	select {
	case <-handlerDone:
	case <-time.After(5 * time.Second):
		t.Fatal("handler kept running after the terminal snapshot")
	}
}

// A client that disconnects mid-run must not leave the handler ticking
// forever on a snapshot that never changes.
func TestHandleProgressWSStopsWhenClientLeaves(t *testing.T) {
	srv, store, handlerDone := newProgressWSServer(t)

	require.NoError(t, store.Set(context.Background(), "user-1", progress.Snapshot{
		Status: progress.StatusRunning,
	}))

	conn := dialProgressWS(t, srv, "user-1")

	var snap progress.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, progress.StatusRunning, snap.Status)

	require.NoError(t, conn.Close())

	select {
	case <-handlerDone:
	case <-time.After(5 * time.Second):
		t.Fatal("handler kept running after the client disconnected")
	}
}
