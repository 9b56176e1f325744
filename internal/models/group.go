package models

// Member is a participant who can owe or be owed within a group.
type Member struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

// Group is a snapshot of a group as supplied by the group directory.
// Member order is significant: it decides who absorbs indivisible cents.
type Group struct {
	// ID is the group identifier used in expense payloads.
	ID ID `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Trip to Rome").
	Name string `json:"name"`

	// Members lists everyone eligible to share an expense in this group.
	Members []Member `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at,omitempty"`
}

// MemberIDs returns the member identifiers in group order.
func (g *Group) MemberIDs() []ID {
	ids := make([]ID, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether id belongs to the group.
func (g *Group) HasMember(id ID) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Member returns the member with the given id.
func (g *Group) Member(id ID) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
