package chathub

// Room is a bounded two-member session. Names come from a strictly
// increasing counter and are never reused, so a stale broadcast target can
// never point at a new room. A room has exactly two members from creation
// until it is purged.
type Room struct {
	Name    string
	Members [2]string
	Active  bool
}

// Has reports whether id is a member.
func (r *Room) Has(id string) bool {
	return r.Members[0] == id || r.Members[1] == id
}

// Partner returns the other member's id, or "" if id is not a member.
func (r *Room) Partner(id string) string {
	switch id {
	case r.Members[0]:
		return r.Members[1]
	case r.Members[1]:
		return r.Members[0]
	}
	return ""
}
