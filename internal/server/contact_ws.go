package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// contactFeed pushes new contact submissions to connected admin clients.
type contactFeed struct {
	clients    map[*feedClient]bool
	broadcast  chan *models.ContactSubmission
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
	mu         sync.RWMutex
	logger     *common.Logger
}

type feedClient struct {
	feed *contactFeed
	conn *websocket.Conn
	send chan []byte
}

func newContactFeed(logger *common.Logger) *contactFeed {
	f := &contactFeed{
		clients:    make(map[*feedClient]bool),
		broadcast:  make(chan *models.ContactSubmission, 256),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go f.run()
	return f
}

func (f *contactFeed) run() {
	for {
		select {
		case <-f.done:
			return

		case client := <-f.register:
			f.mu.Lock()
			f.clients[client] = true
			count := len(f.clients)
			f.mu.Unlock()
			f.logger.Debug().Int("clients", count).Msg("Contact feed client connected")

		case client := <-f.unregister:
			f.mu.Lock()
			if _, ok := f.clients[client]; ok {
				delete(f.clients, client)
				close(client.send)
			}
			count := len(f.clients)
			f.mu.Unlock()
			f.logger.Debug().Int("clients", count).Msg("Contact feed client disconnected")

		case submission := <-f.broadcast:
			data, err := json.Marshal(submission)
			if err != nil {
				f.logger.Warn().Err(err).Msg("Failed to marshal contact submission")
				continue
			}

			f.mu.RLock()
			var slow []*feedClient
			for client := range f.clients {
				select {
				case client.send <- data:
				default:
					slow = append(slow, client)
				}
			}
			f.mu.RUnlock()

			if len(slow) > 0 {
				f.mu.Lock()
				for _, c := range slow {
					delete(f.clients, c)
					close(c.send)
				}
				f.mu.Unlock()
			}
		}
	}
}

func (f *contactFeed) close() {
	select {
	case <-f.done:
		// Already stopped
	default:
		close(f.done)
	}
}

// publish sends a submission to all connected clients without blocking.
func (f *contactFeed) publish(submission *models.ContactSubmission) {
	select {
	case f.broadcast <- submission:
	default:
		f.logger.Warn().Msg("Contact feed channel full, dropping submission")
	}
}

// serveWS upgrades the connection and registers a feed client.
func (f *contactFeed) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &feedClient{
		feed: f,
		conn: conn,
		send: make(chan []byte, 256),
	}

	f.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *feedClient) readPump() {
	defer func() {
		c.feed.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
