package signaler

import (
	"net/http"

	"github.com/signalhop/signalhop/pkg/config"
	"github.com/signalhop/signalhop/pkg/logger"
	"github.com/signalhop/signalhop/pkg/network/httpx"
)

func NewHTTPServer(conf config.Config, log *logger.Logger, hub *Hub) (*httpx.Server, error) {
	return httpx.NewServer(
		conf.Signaler.Server.GetAddr(),
		func(*httpx.Server) http.Handler {
			h := http.NewServeMux()
			h.HandleFunc("/ws", hub.handleWebsocketConnection)
			h.HandleFunc("/echo", echo)
			return h
		},
		httpx.WithServerConfig(conf.Signaler.Server),
		httpx.WithLogger(log),
	)
}

// echo confirms process liveness; it never touches room state.
func echo(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
