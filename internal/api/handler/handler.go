// Package handler wires the HTTP surface to the chat hub: anon-id token
// issuance and the websocket upgrade.
package handler

import "pairchat/backend/internal/chathub"

// Handler carries the hub reference and the token signing secret.
type Handler struct {
	Coordinator *chathub.Coordinator
	jwtSecret   []byte
}

func NewHandler(co *chathub.Coordinator, jwtSecret []byte) *Handler {
	return &Handler{Coordinator: co, jwtSecret: jwtSecret}
}
