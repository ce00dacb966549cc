package signaler

import (
	"net/http"

	gws "github.com/gorilla/websocket"
	"github.com/signalhop/signalhop/pkg/api"
	"github.com/signalhop/signalhop/pkg/com"
	"github.com/signalhop/signalhop/pkg/config"
	"github.com/signalhop/signalhop/pkg/logger"
	"github.com/signalhop/signalhop/pkg/network/websocket"
)

// Hub accepts websocket connections and feeds their events into
// the router, one session per connection.
type Hub struct {
	conf     config.Signaler
	router   *Router
	sessions com.Map[com.Uid, *Session]
	metrics  *Metrics
	upgrader *gws.Upgrader
	log      *logger.Logger
}

func NewHub(conf config.Signaler, router *Router, metrics *Metrics, log *logger.Logger) *Hub {
	return &Hub{
		conf:     conf,
		router:   router,
		sessions: com.NewMap[com.Uid, *Session](),
		metrics:  metrics,
		upgrader: websocket.NewUpgrader(conf.Origin),
		log:      log,
	}
}

// handleWebsocketConnection serves one peer connection end to end.
func (h *Hub) handleWebsocketConnection(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error().Msgf("recovered from: %v", rec)
		}
	}()

	conn, err := websocket.NewServer(w, r, h.upgrader, h.log)
	if err != nil {
		h.log.Error().Err(err).Msg("couldn't upgrade the connection")
		return
	}
	session := NewSession(&socketSink{conn: conn}, h.log)
	h.sessions.Put(session.Id(), session)
	h.metrics.Connections.Inc()
	session.log.Info().Str(logger.DirectionField, "+").Msg("Connect")

	// the reader pump serializes inbound events, so the router sees
	// this session's envelopes strictly in arrival order
	conn.SetMessageHandler(func(message []byte, err error) {
		if err != nil {
			session.log.Error().Err(err).Msg("read failed")
			return
		}
		h.router.Handle(session, message)
	})
	<-conn.Listen()

	h.router.Disconnect(session)
	h.sessions.RemoveByKey(session.Id())
	h.metrics.Connections.Dec()
	session.log.Info().Str(logger.DirectionField, "-").Msg("Disconnect")
}

// socketSink adapts a websocket connection to the delivery sink.
type socketSink struct {
	conn *websocket.WS
}

func (s *socketSink) Send(envelope any) error {
	data, err := api.Encode(envelope)
	if err != nil {
		return err
	}
	s.conn.Write(data)
	return nil
}

func (s *socketSink) Close() { s.conn.Close() }
