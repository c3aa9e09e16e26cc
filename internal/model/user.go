package model

import "context"

// InitialCredits is the credit balance of a freshly registered user.
const InitialCredits = 100

// MaxUsernameLength is the longest accepted username, in bytes.
const MaxUsernameLength = 49

// UserStore defines the operations the dispatcher needs from the user collection.
type UserStore interface {
	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (User, error)
	FindByUsername(ctx context.Context, username string) (User, bool)
	TopByScore(ctx context.Context, n int) []LeaderEntry
}

// User represents a registered forum member.
type User struct {
	Username     string
	PasswordHash string
	Credits      int
	IsManager    bool
	Score        int
}

// LeaderEntry is one row of the leaderboard.
type LeaderEntry struct {
	Rank     int
	Username string
	Score    int
}
