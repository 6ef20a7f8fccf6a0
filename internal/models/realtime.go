package models

// Inbound event kinds, one per frame a connection may send.
const (
	EventProfile = "profile"
	EventNewChat = "new_chat"
	EventEndChat = "end_chat"
	EventMessage = "message"
	EventFile    = "file"
	EventTyping  = "typing"
)

// Outbound event kinds produced by the hub. EventMessage and EventTyping are
// shared with the inbound set: the relayed frame keeps its kind.
const (
	EventPaired      = "paired"
	EventFileMessage = "file_message"
	EventError       = "error"
)

// SystemSender is the sender id used for server-originated messages. A real
// connection id is always a UUID or a prefixed Telegram chat id, so it can
// never collide with this value.
const SystemSender = "System"

// Profile is the optional metadata a connection submits once after
// connecting. Interests are opaque tags; the matcher never reads them.
type Profile struct {
	Gender    string   `json:"gender"`
	Interests []string `json:"interests"`
}

// FilePayload carries a relayed file. Content is raw bytes; over the
// websocket it rides the frame base64-encoded by encoding/json.
type FilePayload struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"content"`
}

// ClientEvent is one decoded inbound frame.
type ClientEvent struct {
	Type    string       `json:"type"`
	Text    string       `json:"text,omitempty"`
	Typing  bool         `json:"typing,omitempty"`
	Profile *Profile     `json:"profile,omitempty"`
	File    *FilePayload `json:"file,omitempty"`
}

// ServerEvent is one outbound frame targeted at a single connection.
// Sender is either SystemSender or the connection id of the originator;
// the front end tells "self" from "partner" by comparing Sender against
// its own id.
type ServerEvent struct {
	Type   string       `json:"type"`
	Sender string       `json:"sender,omitempty"`
	Text   string       `json:"text,omitempty"`
	Typing bool         `json:"typing,omitempty"`
	File   *FilePayload `json:"file,omitempty"`
}
