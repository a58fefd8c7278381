package message

// Participant represents one email address with an optional display name.
type Participant struct {
	Email string
	Name  string
}

// NewParticipant creates a Participant from a bare email address.
// The address must not be empty.
func NewParticipant(email string) (Participant, error) {
	if email == "" {
		return Participant{}, &ValidationError{Message: "the participant's email must not be empty"}
	}
	return Participant{Email: email}, nil
}

// String renders the participant in RFC 5322 name-addr form.
func (p Participant) String() string {
	if p.Name == "" {
		return p.Email
	}
	return p.Name + " <" + p.Email + ">"
}
