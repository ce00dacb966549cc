package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/signalhop/signalhop/pkg/logger"
)

const (
	maxMessageSize = 10 * 1024
	pingTime       = pongTime * 9 / 10
	pongTime       = 60 * time.Second
	writeWait      = 10 * time.Second
)

// MessageHandler receives every text message read from the peer.
type MessageHandler func(message []byte, err error)

// WS wraps a single websocket connection with serialized
// read/write pumps and ping/pong liveness.
type WS struct {
	conn    *websocket.Conn
	send    chan []byte
	stop    chan struct{}
	once    sync.Once
	handler MessageHandler

	// Done closes when the connection is fully terminated.
	Done chan struct{}

	log *logger.Logger
}

// NewUpgrader makes an HTTP->WS upgrader locked to the given origin.
// An empty origin allows any.
func NewUpgrader(origin string) *websocket.Upgrader {
	u := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		WriteBufferPool: &sync.Pool{},
	}
	if origin == "" {
		u.CheckOrigin = func(*http.Request) bool { return true }
	} else {
		u.CheckOrigin = func(r *http.Request) bool { return r.Header.Get("Origin") == origin }
	}
	return &u
}

// NewServer upgrades an HTTP request to a server-side websocket.
func NewServer(w http.ResponseWriter, r *http.Request, up *websocket.Upgrader, log *logger.Logger) (*WS, error) {
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, log), nil
}

// NewClient dials a server-side websocket at the given address.
func NewClient(address string, log *logger.Logger) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.Dial(address, nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, log), nil
}

func newSocket(conn *websocket.Conn, log *logger.Logger) *WS {
	return &WS{
		conn: conn,
		send: make(chan []byte, 32),
		stop: make(chan struct{}),
		Done: make(chan struct{}),
		log:  log,
	}
}

func (ws *WS) SetMessageHandler(fn MessageHandler) { ws.handler = fn }

// Listen starts the read/write pumps and returns the Done channel.
// The message handler must be set beforehand.
func (ws *WS) Listen() chan struct{} {
	go ws.writer()
	go ws.reader()
	return ws.Done
}

// Write queues a message for delivery.
// Messages are dropped once the connection terminates.
func (ws *WS) Write(data []byte) {
	select {
	case ws.send <- data:
	case <-ws.stop:
	}
}

// Close terminates the connection gracefully, once.
func (ws *WS) Close() {
	ws.once.Do(func() {
		_ = ws.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		close(ws.stop)
		_ = ws.conn.Close()
	})
}

// reader pumps messages from the websocket connection to the handler.
// Serializes all websocket reads.
func (ws *WS) reader() {
	defer func() {
		ws.Close()
		close(ws.Done)
		ws.log.Debug().Msg("close reader")
	}()
	ws.conn.SetReadLimit(maxMessageSize)
	_ = ws.conn.SetReadDeadline(time.Now().Add(pongTime))
	ws.conn.SetPongHandler(func(string) error {
		return ws.conn.SetReadDeadline(time.Now().Add(pongTime))
	})
	for {
		_, message, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Debug().Err(err).Msg("unexpected close")
			}
			return
		}
		if ws.handler != nil {
			ws.handler(message, nil)
		}
	}
}

// writer pumps messages from the send queue to the websocket connection.
// Serializes all websocket writes.
func (ws *WS) writer() {
	ticker := time.NewTicker(pingTime)
	defer func() {
		ticker.Stop()
		ws.log.Debug().Msg("close writer")
	}()
	for {
		select {
		case message := <-ws.send:
			if err := ws.write(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ws.stop:
			return
		}
	}
}

func (ws *WS) write(t int, mess []byte) error {
	if err := ws.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return ws.conn.WriteMessage(t, mess)
}
