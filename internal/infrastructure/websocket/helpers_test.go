package websocket

import "net/http"

// httpHandler 把 Hub 包装成 http.Handler
func httpHandler(hub *Hub) http.Handler {
	return http.HandlerFunc(hub.HandleConnection)
}
