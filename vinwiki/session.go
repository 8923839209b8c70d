package vinwiki

import "time"

// Session is an authenticated VINwiki login. It is never modified after
// Authenticate returns it; logging in again creates a new Session.
type Session struct {
	token     string
	person    Person
	createdAt time.Time
}

// Token returns the bearer token
func (s *Session) Token() string {
	return s.token
}

// Person returns a copy of the authenticated person's profile
func (s *Session) Person() Person {
	return s.person
}

// PersonUUID returns the authenticated person's UUID
func (s *Session) PersonUUID() string {
	return s.person.UUID
}

// CreatedAt returns when the session was established
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// resolveIdentifier picks the identifier for a person scoped call: the
// supplied one when given, else the session person's UUID.
func resolveIdentifier(op, supplied string, session *Session) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	if session == nil {
		return "", newError(KindSessionRequired, op, ErrSessionRequired.Message, nil)
	}
	if session.person.UUID == "" {
		return "", newError(KindPersonUnavailable, op, ErrPersonUnavailable.Message, nil)
	}
	return session.person.UUID, nil
}
