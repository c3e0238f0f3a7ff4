package room

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/game"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/player"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/player/mocks"
	"ctchen222/Time-Travel-Tic-Tac-Toe/pkg/proto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// renderRecorder collects the render messages written to a mock connection.
type renderRecorder struct {
	mu      sync.Mutex
	renders []proto.RenderMessage
}

func (rr *renderRecorder) write(_ int, data []byte) error {
	var msg proto.RenderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.renders = append(rr.renders, msg)
	return nil
}

func (rr *renderRecorder) count() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.renders)
}

func (rr *renderRecorder) last(t *testing.T) proto.RenderMessage {
	t.Helper()
	rr.mu.Lock()
	defer rr.mu.Unlock()
	require.NotEmpty(t, rr.renders)
	return rr.renders[len(rr.renders)-1]
}

func newTestRoom(t *testing.T) (*Room, *mocks.MockConnection, *renderRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnection(ctrl)
	rec := &renderRecorder{}
	conn.EXPECT().WriteMessage(websocket.TextMessage, gomock.Any()).DoAndReturn(rec.write).AnyTimes()

	r := NewRoom("room-1", player.NewPlayer("player-1", conn), time.Hour)
	return r, conn, rec
}

func click(square int) []byte {
	data, _ := json.Marshal(proto.ClientToServerMessage{Type: proto.TypeClick, Square: &square})
	return data
}

func jump(move int) []byte {
	data, _ := json.Marshal(proto.ClientToServerMessage{Type: proto.TypeJump, Move: &move})
	return data
}

func TestRoom_InitialRender(t *testing.T) {
	r, _, rec := newTestRoom(t)

	r.open(t.Context())

	require.Equal(t, 1, rec.count())
	got := rec.last(t)
	assert.Equal(t, proto.TypeRender, got.Type)
	assert.Equal(t, game.Squares{}, got.Squares)
	assert.Equal(t, "Next player: X", got.Status)
	assert.Equal(t, game.PlayerX, got.Next)
	assert.Equal(t, 0, got.CurrentMove)
	assert.Equal(t, []proto.MoveEntry{{Move: 0, Description: "Go to game start", Current: true}}, got.Moves)
}

func TestRoom_ClickPlaysMove(t *testing.T) {
	r, _, rec := newTestRoom(t)
	r.open(t.Context())

	r.HandleMessage(t.Context(), click(4))

	require.Equal(t, 2, rec.count())
	got := rec.last(t)
	assert.Equal(t, game.PlayerX, got.Squares[4])
	assert.Equal(t, "Next player: O", got.Status)
	assert.Equal(t, 1, got.CurrentMove)
	assert.Equal(t, []proto.MoveEntry{
		{Move: 0, Description: "Go to game start"},
		{Move: 1, Description: "Go to move #1", Current: true},
	}, got.Moves)
}

func TestRoom_IgnoredMessages(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "occupied cell", raw: click(0)},
		{name: "malformed json", raw: []byte(`{"type":`)},
		{name: "unknown type", raw: []byte(`{"type":"undo"}`)},
		{name: "square off the board", raw: []byte(`{"type":"click","square":9}`)},
		{name: "click without square", raw: []byte(`{"type":"click"}`)},
		{name: "jump without move", raw: []byte(`{"type":"jump"}`)},
		{name: "jump past the history", raw: jump(5)},
		{name: "negative jump", raw: []byte(`{"type":"jump","move":-1}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, rec := newTestRoom(t)
			r.open(t.Context())
			r.HandleMessage(t.Context(), click(0))
			require.Equal(t, 2, rec.count())

			r.HandleMessage(t.Context(), tt.raw)

			assert.Equal(t, 2, rec.count(), "ignored message must not re-render")
			assert.Equal(t, 2, r.controller.Len())
			assert.Equal(t, 1, r.controller.CurrentMove())
		})
	}
}

func TestRoom_TimeTravel(t *testing.T) {
	r, _, rec := newTestRoom(t)
	r.open(t.Context())

	for _, square := range []int{0, 4, 1, 5, 2} {
		r.HandleMessage(t.Context(), click(square))
	}
	won := rec.last(t)
	assert.Equal(t, "Winner: X", won.Status)
	assert.Equal(t, game.PlayerX, won.Winner)
	assert.Equal(t, 5, won.CurrentMove)
	assert.Len(t, won.Moves, 6)

	// Clicking after a win does nothing.
	renders := rec.count()
	r.HandleMessage(t.Context(), click(8))
	assert.Equal(t, renders, rec.count())

	r.HandleMessage(t.Context(), jump(2))
	back := rec.last(t)
	assert.Equal(t, 2, back.CurrentMove)
	assert.Equal(t, "Next player: X", back.Status)
	assert.Equal(t, game.PlayerX, back.Squares[0])
	assert.Equal(t, game.PlayerO, back.Squares[4])
	assert.Equal(t, game.None, back.Squares[1])
	assert.Len(t, back.Moves, 6, "jumping keeps the history")
	assert.True(t, back.Moves[2].Current)

	r.HandleMessage(t.Context(), click(8))
	branched := rec.last(t)
	assert.Equal(t, 3, branched.CurrentMove)
	assert.Len(t, branched.Moves, 4)
	assert.Equal(t, game.PlayerX, branched.Squares[8])
	assert.Equal(t, "Next player: O", branched.Status)
}

func TestRoom_FullBoardKeepsNextPlayer(t *testing.T) {
	r, _, rec := newTestRoom(t)
	r.open(t.Context())

	// X O X / X O O / O X X
	for _, square := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		r.HandleMessage(t.Context(), click(square))
	}

	got := rec.last(t)
	assert.Equal(t, 9, got.CurrentMove)
	assert.Empty(t, got.Winner)
	assert.Equal(t, "Next player: O", got.Status)
}

func TestRoom_StartUnregistersOnDisconnect(t *testing.T) {
	r, conn, rec := newTestRoom(t)
	gomock.InOrder(
		conn.EXPECT().ReadMessage().Return(websocket.TextMessage, click(4), nil),
		conn.EXPECT().ReadMessage().Return(0, nil, errors.New("connection reset")),
	)
	conn.EXPECT().Close().Return(nil).Times(1)

	unregister := make(chan *Room, 1)
	finished := make(chan struct{})
	go func() {
		r.Start(t.Context(), unregister)
		close(finished)
	}()

	select {
	case got := <-unregister:
		assert.Same(t, r, got)
	case <-time.After(time.Second):
		t.Fatal("room did not unregister after the connection dropped")
	}
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("room did not stop")
	}

	assert.Equal(t, 2, rec.count())
	assert.Equal(t, game.PlayerX, rec.last(t).Squares[4])
	assert.Equal(t, player.StatusDisconnected, r.Player.Status)
}

func TestRoom_Stop(t *testing.T) {
	r, conn, _ := newTestRoom(t)
	closed := make(chan struct{})
	conn.EXPECT().ReadMessage().DoAndReturn(func() (int, []byte, error) {
		<-closed
		return 0, nil, errors.New("use of closed network connection")
	}).AnyTimes()
	conn.EXPECT().Close().DoAndReturn(func() error {
		close(closed)
		return nil
	}).Times(1)

	unregister := make(chan *Room)
	finished := make(chan struct{})
	go func() {
		r.Start(t.Context(), unregister)
		close(finished)
	}()

	r.Stop()
	r.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("room did not stop")
	}
	select {
	case <-r.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestRoom_Heartbeat(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnection(ctrl)
	closed := make(chan struct{})
	pinged := make(chan struct{}, 1)

	conn.EXPECT().WriteMessage(websocket.TextMessage, gomock.Any()).Return(nil).AnyTimes()
	conn.EXPECT().WriteMessage(websocket.PingMessage, gomock.Any()).DoAndReturn(func(int, []byte) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	}).MinTimes(1)
	conn.EXPECT().ReadMessage().DoAndReturn(func() (int, []byte, error) {
		<-closed
		return 0, nil, errors.New("closed")
	}).AnyTimes()
	conn.EXPECT().Close().DoAndReturn(func() error {
		close(closed)
		return nil
	})

	r := NewRoom("room-ping", player.NewPlayer("player-ping", conn), 5*time.Millisecond)
	finished := make(chan struct{})
	go func() {
		r.Start(t.Context(), make(chan *Room))
		close(finished)
	}()

	select {
	case <-pinged:
	case <-time.After(time.Second):
		t.Fatal("no heartbeat ping sent")
	}
	r.Stop()
	<-finished
}
