package models

// Activity is one extracurricular offering and its roster. MaxParticipants
// is informational; signups are not capped.
type Activity struct {
	Description     string   `json:"description" db:"description"`
	Schedule        string   `json:"schedule" db:"schedule"`
	MaxParticipants int      `json:"max_participants" db:"max_participants"`
	Participants    []string `json:"participants"`
}

// Activities is the registry keyed by activity name.
type Activities map[string]Activity

// HasParticipant reports whether email is already on the roster.
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate stored rosters.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = append(make([]string, 0, len(a.Participants)), a.Participants...)
	return out
}

// RosterRequest identifies a roster mutation.
type RosterRequest struct {
	Activity string `validate:"required"`
	Email    string `validate:"required"`
}
