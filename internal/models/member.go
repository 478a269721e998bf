package models

// Member represents one trip participant.
// Membership is managed by the surrounding application; the engine only
// reads rosters.
type Member struct {
	// ID is the unique identifier of the member within a trip.
	ID string

	// Name is the display name shown in balances and settlement plans.
	Name string
}

// Trip represents a group of members who share expenses.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string

	// Members is the roster of participants, unique per trip.
	Members []Member

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Roster returns the trip's member IDs in roster order.
func (t *Trip) Roster() []string {
	ids := make([]string, len(t.Members))
	for i, m := range t.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether the given member ID is on the roster.
func (t *Trip) HasMember(id string) bool {
	for _, m := range t.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}
