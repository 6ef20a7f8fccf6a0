package chathub

// WaitQueue is the ordered set of connections looking for a partner.
// Insertion order is significant: the oldest waiter is matched first. An id
// appears at most once; re-enqueueing a waiting id is a no-op so a stray
// repeated request can never claim two slots.
//
// WaitQueue is a plain container with no lock of its own. All access is
// serialized by the Coordinator's mutex.
type WaitQueue struct {
	ids     []string
	present map[string]struct{}
}

func NewWaitQueue() *WaitQueue {
	return &WaitQueue{present: make(map[string]struct{})}
}

// Enqueue appends id unless it is already waiting. Reports whether the id
// was added.
func (q *WaitQueue) Enqueue(id string) bool {
	if _, ok := q.present[id]; ok {
		return false
	}
	q.ids = append(q.ids, id)
	q.present[id] = struct{}{}
	return true
}

// DequeueNext pops the oldest waiting id, FIFO.
func (q *WaitQueue) DequeueNext() (string, bool) {
	if len(q.ids) == 0 {
		return "", false
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	delete(q.present, id)
	return id, true
}

// Remove deletes id wherever it occurs. The O(n) scan is fine at this scale.
// Reports whether the id was present.
func (q *WaitQueue) Remove(id string) bool {
	if _, ok := q.present[id]; !ok {
		return false
	}
	delete(q.present, id)
	for i, v := range q.ids {
		if v == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether id is currently waiting.
func (q *WaitQueue) Contains(id string) bool {
	_, ok := q.present[id]
	return ok
}

func (q *WaitQueue) Len() int { return len(q.ids) }
