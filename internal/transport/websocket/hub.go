package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
	broadcastQueue = 64
)

// Hub pushes a change notification to every open board page so that it
// reloads after another player moved.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	clients map[*client]struct{}

	register   chan *client
	unregister chan *client
	broadcast  chan Message
	done       chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Message, broadcastQueue),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is canceled, then disconnects every client.
func (that *Hub) Run(ctx context.Context) {
	defer close(that.done)

	for {
		select {
		case c := <-that.register:
			that.clients[c] = struct{}{}
			that.logger.Debug("client connected", "identity", c.identity, "clients", len(that.clients))
		case c := <-that.unregister:
			that.drop(c)
		case msg := <-that.broadcast:
			for c := range that.clients {
				select {
				case c.send <- msg:
				default:
					that.logger.Warn("dropping slow client", "identity", c.identity)
					that.drop(c)
				}
			}
		case <-ctx.Done():
			for c := range that.clients {
				that.drop(c)
			}
			return
		}
	}
}

func (that *Hub) drop(c *client) {
	if _, ok := that.clients[c]; !ok {
		return
	}

	delete(that.clients, c)
	close(c.send)
	that.logger.Debug("client disconnected", "identity", c.identity, "clients", len(that.clients))
}

// Publish queues a change notification for view. It never blocks; when the
// queue is full the notification is dropped.
func (that *Hub) Publish(view entity.View) {
	msg := NewChangedMessage(view)

	select {
	case that.broadcast <- msg:
	default:
		that.logger.Warn("broadcast queue full, dropping notification", "version", view.Version)
	}
}

// Serve upgrades the request and keeps the connection registered until the
// browser goes away.
func (that *Hub) Serve(w http.ResponseWriter, r *http.Request, identity string) {
	log := that.logger.With("method", "Serve", "identity", identity)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		conn:     conn,
		send:     make(chan Message, sendBuffer),
		identity: identity,
	}

	select {
	case that.register <- c:
	case <-that.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	c.readPump(that)
}
