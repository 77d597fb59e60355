package ws

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
)

// Serve upgrades the request and pumps hub events to the connection until
// either side closes or appCtx is cancelled. originPatterns are passed to the
// upgrader; an empty list allows same-origin requests only.
func Serve(appCtx context.Context, hub *Hub, w http.ResponseWriter, r *http.Request, originPatterns []string) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:       originPatterns,
		CompressionMode:      websocket.CompressionContextTakeover,
		CompressionThreshold: 128,
	})
	if err != nil {
		return fmt.Errorf("websocket accept: %w", err)
	}

	client := NewClient(hub, conn)
	hub.Register(client)

	// Cancel when either the server shuts down or the request ends.
	wsCtx, wsCancel := context.WithCancel(appCtx)
	defer wsCancel()
	go func() {
		select {
		case <-r.Context().Done():
			wsCancel()
		case <-wsCtx.Done():
		}
	}()

	go client.WritePump(wsCtx)
	client.ReadPump(wsCtx)

	return nil
}
