package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nitr-himanshu/adb-util/internal/model"
	"github.com/nitr-himanshu/adb-util/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsMessage is one websocket frame: a batch of accepted entries, or the
// terminal signal for the stream.
type wsMessage struct {
	Type    string           `json:"type"` // "entries", "ended", "error"
	Entries []model.LogEntry `json:"entries,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// handleWebSocket upgrades to WebSocket and streams accepted entries.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events := s.sess.Subscribe()

	// Read pump, detects client disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for ev := range events {
		var msg wsMessage
		switch ev.Kind {
		case session.EventEntries:
			msg = wsMessage{Type: "entries", Entries: ev.Entries}
		case session.EventEnded:
			msg = wsMessage{Type: "ended"}
		case session.EventError:
			msg = wsMessage{Type: "error", Error: ev.Err.Error()}
		}

		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("websocket write failed: %v", err)
			return
		}
	}
}
