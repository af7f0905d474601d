package entity

// Capability is the single authorization primitive: every authenticated
// identity carries exactly one of these, and every guarded operation names
// the capability it requires.
type Capability string

const (
	CapabilityAttendee  Capability = "attendee"
	CapabilityOrganizer Capability = "organizer"
	CapabilityAdmin     Capability = "admin"
)

type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Capability Capability `json:"capability"`
}

// Allows reports whether the user may perform an operation requiring the
// given capability. Admin passes every check.
func (u User) Allows(required Capability) bool {
	return u.Capability == required || u.Capability == CapabilityAdmin
}
