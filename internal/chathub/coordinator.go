// Package chathub pairs anonymous connections into two-member rooms and
// relays message, file and typing events strictly within a pair. It is
// transport-agnostic: WebSocket and Telegram front ends drive it through the
// same Client interface and event dispatch.
package chathub

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"

	"pairchat/backend/internal/models"
	"pairchat/backend/internal/storage"
)

// System notices delivered into a room on teardown.
const (
	msgPartnerEnded        = "Your partner has ended the chat."
	msgPartnerDisconnected = "Your partner has disconnected."
	msgAlreadyPaired       = "You are already in a chat. End it before requesting a new one."
	msgBanned              = "You are currently banned from matchmaking."
)

const auditBufferSize = 256

// delivery is one outbound event bound to a client. Deliveries are collected
// under the lock and sent after it is released.
type delivery struct {
	client Client
	event  models.ServerEvent
}

type auditEvent struct {
	room   models.ChatRoom
	opened bool
}

// Coordinator owns all mutable pairing state: the session registry, the wait
// queue and the room set. A single mutex serializes every mutation, so no
// caller can observe a half-purged room or a torn queue. Delivery to the
// transports happens outside the lock, against membership snapshots, through
// each client's buffered send channel.
type Coordinator struct {
	mu       sync.Mutex
	registry *Registry
	queue    *WaitQueue
	rooms    map[string]*Room
	roomSeq  uint64

	storage storage.Storage
	auditCh chan auditEvent
}

// NewCoordinator builds a Coordinator. store may be nil; with storage
// configured a single goroutine drains the audit channel so persistence
// latency never holds the lock.
func NewCoordinator(store storage.Storage) *Coordinator {
	co := &Coordinator{
		registry: NewRegistry(),
		queue:    NewWaitQueue(),
		rooms:    make(map[string]*Room),
		storage:  store,
	}
	if store != nil {
		co.auditCh = make(chan auditEvent, auditBufferSize)
		go co.runAudit()
	}
	return co
}

// Register attaches a fresh connection, state idle. A reconnect reusing an
// id supersedes the previous session.
func (co *Coordinator) Register(c Client) {
	id := c.GetAnonID()
	co.Disconnect(id)

	co.mu.Lock()
	co.registry.Register(c)
	co.mu.Unlock()
	log.Printf("connection registered: %s", id)
}

// Disconnect handles transport-disconnect. Always legal and idempotent:
// cleanup runs room, then queue, then registry, and a second call for the
// same id is a no-op since disconnect and explicit end can race.
func (co *Coordinator) Disconnect(id string) {
	co.mu.Lock()
	sess, ok := co.registry.Lookup(id)
	if !ok {
		co.mu.Unlock()
		return
	}

	var pending []delivery
	switch sess.State {
	case models.StatePaired:
		// The partner is told once and left idle; no auto-requeue.
		pending = co.purgeRoomLocked(sess.RoomName, id, msgPartnerDisconnected)
	case models.StateWaiting:
		co.queue.Remove(id)
	}
	co.registry.Remove(id)
	co.mu.Unlock()

	co.send(pending)
	sess.Client.Close()
	log.Printf("connection removed: %s", id)
}

// Dispatch routes one inbound event for a connection. This is the single
// authoritative switch that enforces state-machine legality before touching
// queue or rooms.
func (co *Coordinator) Dispatch(id string, ev models.ClientEvent) {
	switch ev.Type {
	case models.EventProfile:
		co.attachProfile(id, ev.Profile)
	case models.EventNewChat:
		co.requestNewChat(id)
	case models.EventEndChat:
		co.endChat(id)
	case models.EventMessage:
		co.relayMessage(id, ev.Text)
	case models.EventFile:
		co.relayFile(id, ev.File)
	case models.EventTyping:
		co.relayTyping(id, ev.Typing)
	default:
		log.Printf("unknown event type %q from %s", ev.Type, id)
	}
}

// attachProfile stores the optional metadata and doubles as the first
// pairing request, matching the landing-page flow: supply your details, then
// look for a partner. The profile itself never influences matching.
func (co *Coordinator) attachProfile(id string, p *models.Profile) {
	if co.banned(id) {
		log.Printf("rejected pairing request from %s: %v", id, ErrBanned)
		co.sendTo(id, errorEvent(msgBanned))
		return
	}

	co.mu.Lock()
	sess, ok := co.registry.Lookup(id)
	if !ok {
		co.mu.Unlock()
		return
	}
	if p != nil {
		co.registry.AttachProfile(id, p)
	}
	if sess.State == models.StatePaired {
		co.mu.Unlock()
		return
	}
	pending := co.requestPairingLocked(sess, id)
	co.mu.Unlock()
	co.send(pending)
}

// requestNewChat is legal while idle; while waiting it re-routes into the
// pairing engine as an idempotent no-op. While paired it is rejected with a
// user-facing error event, never silently dropped.
func (co *Coordinator) requestNewChat(id string) {
	if co.banned(id) {
		log.Printf("rejected pairing request from %s: %v", id, ErrBanned)
		co.sendTo(id, errorEvent(msgBanned))
		return
	}

	co.mu.Lock()
	sess, ok := co.registry.Lookup(id)
	if !ok {
		co.mu.Unlock()
		return
	}
	if sess.State == models.StatePaired {
		co.mu.Unlock()
		log.Printf("rejected new chat request from %s: %v", id, ErrInvalidState)
		co.sendTo(id, errorEvent(msgAlreadyPaired))
		return
	}
	pending := co.requestPairingLocked(sess, id)
	co.mu.Unlock()
	co.send(pending)
}

// requestPairingLocked matches id against the queue or enqueues it. The
// caller has already validated eligibility: sess is idle or waiting, never
// paired. A queued candidate can go stale between enqueue and dequeue when
// the transport drops it without a disconnect event; stale entries are
// discarded and matching retries. The retry is bounded by the queue length
// at entry and every iteration strictly shrinks the queue.
func (co *Coordinator) requestPairingLocked(sess *Session, id string) []delivery {
	co.queue.Remove(id) // defend against duplicate requests

	for attempts := co.queue.Len(); attempts > 0; attempts-- {
		partnerID, ok := co.queue.DequeueNext()
		if !ok {
			break
		}
		partner, live := co.registry.Lookup(partnerID)
		if !live || partner.State != models.StateWaiting {
			log.Printf("discarding stale queue entry %s", partnerID)
			continue
		}

		co.roomSeq++
		room := &Room{
			Name:    fmt.Sprintf("room-%d", co.roomSeq),
			Members: [2]string{partnerID, id},
			Active:  true,
		}
		co.rooms[room.Name] = room
		partner.State = models.StatePaired
		partner.RoomName = room.Name
		sess.State = models.StatePaired
		sess.RoomName = room.Name

		co.recordRoomOpened(room, partner.Profile, sess.Profile)
		log.Printf("paired %s and %s in %s", partnerID, id, room.Name)

		paired := models.ServerEvent{Type: models.EventPaired, Sender: models.SystemSender}
		return []delivery{{sess.Client, paired}, {partner.Client, paired}}
	}

	co.queue.Enqueue(id)
	sess.State = models.StateWaiting
	log.Printf("connection %s is waiting for a partner", id)
	return nil
}

// endChat is legal only while paired; anything else is the benign UI race
// the front end should have prevented, so it is ignored.
func (co *Coordinator) endChat(id string) {
	co.mu.Lock()
	sess, ok := co.registry.Lookup(id)
	if !ok || sess.State != models.StatePaired {
		co.mu.Unlock()
		return
	}
	pending := co.purgeRoomLocked(sess.RoomName, id, msgPartnerEnded)
	co.mu.Unlock()
	co.send(pending)
}

// purgeRoomLocked tears the room down for both members atomically: the room
// leaves the table and both sessions go idle before the lock is released, so
// no concurrent relay can target the purged room. Members other than byID
// get the notice exactly once.
func (co *Coordinator) purgeRoomLocked(roomName, byID, notice string) []delivery {
	room, ok := co.rooms[roomName]
	if !ok || !room.Active {
		return nil
	}
	room.Active = false
	delete(co.rooms, roomName)

	var pending []delivery
	for _, member := range room.Members {
		sess, ok := co.registry.Lookup(member)
		if !ok {
			continue
		}
		sess.State = models.StateIdle
		sess.RoomName = ""
		if member != byID && notice != "" {
			pending = append(pending, delivery{sess.Client, models.ServerEvent{
				Type:   models.EventMessage,
				Sender: models.SystemSender,
				Text:   notice,
			}})
		}
	}
	co.recordRoomClosed(room)
	log.Printf("purged %s", roomName)
	return pending
}

func (co *Coordinator) relayMessage(id, text string) {
	co.relay(id, false, models.ServerEvent{
		Type:   models.EventMessage,
		Sender: id,
		Text:   text,
	})
}

func (co *Coordinator) relayFile(id string, f *models.FilePayload) {
	if f == nil {
		return
	}
	co.relay(id, false, models.ServerEvent{
		Type:   models.EventFileMessage,
		Sender: id,
		File:   f,
	})
}

// relayTyping goes to the partner only: typing indicators are purely
// informational to the other side, there is no self-echo.
func (co *Coordinator) relayTyping(id string, typing bool) {
	co.relay(id, true, models.ServerEvent{
		Type:   models.EventTyping,
		Sender: id,
		Typing: typing,
	})
}

// relay scopes an event to the sender's current room. Messages and files
// echo to both members, sender included; the front end compares the sender
// id against its own to render "self". A relay from an unpaired connection
// is the ErrNotInRoom case: silently ignored, nothing delivered to anyone.
func (co *Coordinator) relay(id string, partnerOnly bool, ev models.ServerEvent) {
	co.mu.Lock()
	sess, ok := co.registry.Lookup(id)
	if !ok || sess.State != models.StatePaired {
		co.mu.Unlock()
		return
	}
	room, ok := co.rooms[sess.RoomName]
	if !ok || !room.Active {
		co.mu.Unlock()
		return
	}

	var pending []delivery
	for _, member := range room.Members {
		if partnerOnly && member == id {
			continue
		}
		if ms, ok := co.registry.Lookup(member); ok {
			pending = append(pending, delivery{ms.Client, ev})
		}
	}
	co.mu.Unlock()
	co.send(pending)
}

// send pushes collected deliveries into the clients' buffered channels.
// A full channel drops the event for that client only.
func (co *Coordinator) send(pending []delivery) {
	for _, d := range pending {
		select {
		case d.client.GetSendChannel() <- d.event:
		default:
			log.Printf("dropping %s event for slow client %s", d.event.Type, d.client.GetAnonID())
		}
	}
}

// sendTo delivers a single event to one connection, if still live.
func (co *Coordinator) sendTo(id string, ev models.ServerEvent) {
	co.mu.Lock()
	sess, ok := co.registry.Lookup(id)
	co.mu.Unlock()
	if ok {
		co.send([]delivery{{sess.Client, ev}})
	}
}

func errorEvent(text string) models.ServerEvent {
	return models.ServerEvent{Type: models.EventError, Sender: models.SystemSender, Text: text}
}

// banned consults the storage ban flag. Storage errors fail open: a broken
// Redis must not take matchmaking down.
func (co *Coordinator) banned(id string) bool {
	if co.storage == nil {
		return false
	}
	b, err := co.storage.IsBanned(id)
	if err != nil {
		log.Printf("ban lookup failed for %s: %v", id, err)
		return false
	}
	return b
}

// --- audit sink ---

func (co *Coordinator) recordRoomOpened(room *Room, profiles ...*models.Profile) {
	if co.auditCh == nil {
		return
	}
	var tags []string
	for _, p := range profiles {
		if p != nil {
			tags = append(tags, p.Interests...)
		}
	}
	co.record(auditEvent{opened: true, room: models.ChatRoom{
		RoomName:  room.Name,
		User1ID:   room.Members[0],
		User2ID:   room.Members[1],
		Tags:      pq.StringArray(tags),
		IsActive:  true,
		StartedAt: time.Now(),
	}})
}

func (co *Coordinator) recordRoomClosed(room *Room) {
	if co.auditCh == nil {
		return
	}
	co.record(auditEvent{room: models.ChatRoom{
		RoomName: room.Name,
		User1ID:  room.Members[0],
		User2ID:  room.Members[1],
		EndedAt:  time.Now(),
	}})
}

func (co *Coordinator) record(ev auditEvent) {
	select {
	case co.auditCh <- ev:
	default:
		log.Printf("audit backlog full, dropping event for %s", ev.room.RoomName)
	}
}

// runAudit is the only consumer of auditCh. Failures are logged and dropped:
// the audit trail is fire-and-forget and never feeds back into pairing.
func (co *Coordinator) runAudit() {
	for ev := range co.auditCh {
		kind := "closed"
		if ev.opened {
			kind = "opened"
			if err := co.storage.SaveRoom(&ev.room); err != nil {
				log.Printf("failed to save room %s: %v", ev.room.RoomName, err)
			}
		} else {
			if err := co.storage.CloseRoom(ev.room.RoomName); err != nil {
				log.Printf("failed to close room %s: %v", ev.room.RoomName, err)
			}
		}
		err := co.storage.PublishRoomEvent(models.RoomEvent{
			Event:    kind,
			RoomName: ev.room.RoomName,
			User1ID:  ev.room.User1ID,
			User2ID:  ev.room.User2ID,
			At:       time.Now(),
		})
		if err != nil {
			log.Printf("failed to publish room event for %s: %v", ev.room.RoomName, err)
		}
	}
}

// --- snapshot accessors (ops endpoints and tests) ---

// SessionState returns the current state for a live connection.
func (co *Coordinator) SessionState(id string) (models.SessionState, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()
	sess, ok := co.registry.Lookup(id)
	if !ok {
		return 0, false
	}
	return sess.State, true
}

// RoomOf returns the room name id is currently paired into.
func (co *Coordinator) RoomOf(id string) (string, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()
	sess, ok := co.registry.Lookup(id)
	if !ok || sess.State != models.StatePaired {
		return "", false
	}
	return sess.RoomName, true
}

// WaitingCount reports how many connections are queued.
func (co *Coordinator) WaitingCount() int {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.queue.Len()
}

// ActiveRooms reports how many rooms are live.
func (co *Coordinator) ActiveRooms() int {
	co.mu.Lock()
	defer co.mu.Unlock()
	return len(co.rooms)
}

// Connections reports how many connections are registered.
func (co *Coordinator) Connections() int {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.registry.Len()
}
