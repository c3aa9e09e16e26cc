// Package session holds the authentication state of a single connection.
package session

// State is either anonymous or authenticated as one username.
// A State belongs to exactly one connection and is not safe for concurrent use.
type State struct {
	username      string
	authenticated bool
}

func New() *State {
	return &State{}
}

// Login marks the connection as authenticated, replacing any previous identity.
func (s *State) Login(username string) {
	s.username = username
	s.authenticated = true
}

// Logout returns the connection to the anonymous state. Calling it while
// anonymous is a no-op.
func (s *State) Logout() {
	s.username = ""
	s.authenticated = false
}

// Username returns the authenticated username, if any.
func (s *State) Username() (string, bool) {
	return s.username, s.authenticated
}
