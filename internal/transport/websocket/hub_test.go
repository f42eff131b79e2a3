package websocket

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

	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lan/testing/suite"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(suite.NewLogger())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "10.0.0.1")
	}))
	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return hub, cancel, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) <-chan Message {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	received := make(chan Message, sendBuffer)
	go func() {
		defer close(received)
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg
		}
	}()

	return received
}

// publishUntilReceived keeps publishing until the client got a message, since
// registration races with the first publish.
func publishUntilReceived(t *testing.T, hub *Hub, view entity.View, received <-chan Message) Message {
	t.Helper()

	var got Message
	require.Eventually(t, func() bool {
		hub.Publish(view)
		select {
		case msg, ok := <-received:
			got = msg
			return ok
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 50*time.Millisecond)

	return got
}

func TestHub_Publish(t *testing.T) {
	// Given: a running hub with two open pages
	hub, _, url := startHub(t)
	first := dial(t, url)
	second := dial(t, url)

	view := entity.View{Version: 7, Turn: entity.PlayerO}

	// When: a change is published
	firstMsg := publishUntilReceived(t, hub, view, first)
	secondMsg := publishUntilReceived(t, hub, view, second)

	// Then: both pages are told about the new version
	assert.Equal(t, Message{Type: TypeChanged, Version: 7, Turn: entity.PlayerO}, firstMsg)
	assert.Equal(t, firstMsg, secondMsg)
}

func TestHub_Run_ClosesClientsOnShutdown(t *testing.T) {
	// Given: a connected page
	hub, cancel, url := startHub(t)
	received := dial(t, url)
	publishUntilReceived(t, hub, entity.View{Version: 1}, received)

	// When: the hub is stopped
	cancel()

	// Then: the connection is closed
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-received:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHub_Publish_NeverBlocks(t *testing.T) {
	// Given: a hub that is not running
	hub := NewHub(suite.NewLogger())

	// When: more notifications are published than the queue holds
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastQueue*2; i++ {
			hub.Publish(entity.View{Version: uint64(i)})
		}
		close(done)
	}()

	// Then: Publish returns anyway
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestNewChangedMessage(t *testing.T) {
	view := entity.View{Version: 3, Turn: entity.PlayerX, Result: &entity.Result{Draw: true}}

	msg := NewChangedMessage(view)

	assert.Equal(t, TypeChanged, msg.Type)
	assert.Equal(t, uint64(3), msg.Version)
	assert.True(t, msg.Over)
}
