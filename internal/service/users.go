package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dtroode/qaforum-server/internal/logger"
	"github.com/dtroode/qaforum-server/internal/model"
)

var _ model.UserStore = (*Users)(nil)

// Users owns the user collection. All access goes through mu, and every
// mutation rewrites the whole collection through the persister before mu is
// released.
type Users struct {
	mu        sync.Mutex
	users     []model.User
	index     map[string]int
	maxUsers  int
	persister model.Persister
	hasher    PasswordHasher
	logger    *logger.Logger
}

func NewUsers(persister model.Persister, hasher PasswordHasher, maxUsers int, logger *logger.Logger) *Users {
	return &Users{
		index:     make(map[string]int),
		maxUsers:  maxUsers,
		persister: persister,
		hasher:    hasher,
		logger:    logger,
	}
}

// Load replaces the in-memory collection with the persisted one.
func (u *Users) Load(ctx context.Context) error {
	users, err := u.persister.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.users = users
	u.index = make(map[string]int, len(users))
	for i, user := range users {
		u.index[user.Username] = i
	}

	u.logger.Info("Users service: collection loaded", "count", len(users))

	return nil
}

func (u *Users) Register(ctx context.Context, username, password string) error {
	if username == "" || len(username) > model.MaxUsernameLength {
		return model.ErrMalformedRequest
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.index[username]; ok {
		u.logger.Info("Users service: user already exists", "username", username)
		return model.ErrDuplicateUser
	}

	if len(u.users) >= u.maxUsers {
		u.logger.Info("Users service: user limit reached", "limit", u.maxUsers)
		return model.ErrCapacityExceeded
	}

	u.users = append(u.users, model.User{
		Username:     username,
		PasswordHash: u.hasher.Digest(password),
		Credits:      model.InitialCredits,
	})
	u.index[username] = len(u.users) - 1

	if err := u.persister.SaveUsers(ctx, u.users); err != nil {
		u.users = u.users[:len(u.users)-1]
		delete(u.index, username)
		u.logger.Error("Users service: failed to persist new user",
			"username", username,
			"error", err.Error())
		return fmt.Errorf("failed to save users: %w", err)
	}

	u.logger.Info("Users service: user registered", "username", username)

	return nil
}

func (u *Users) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	i, ok := u.index[username]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}

	user := u.users[i]
	if !verifyPassword(u.hasher, user.PasswordHash, password) {
		u.logger.Info("Users service: wrong password", "username", username)
		return model.User{}, model.ErrWrongPassword
	}

	return user, nil
}

// AdjustCredits adds delta to the user's credit balance and persists the collection.
func (u *Users) AdjustCredits(ctx context.Context, username string, delta int) error {
	return u.adjust(ctx, username, func(user *model.User) { user.Credits += delta })
}

// AdjustScore adds delta to the user's cumulative score and persists the collection.
func (u *Users) AdjustScore(ctx context.Context, username string, delta int) error {
	return u.adjust(ctx, username, func(user *model.User) { user.Score += delta })
}

func (u *Users) adjust(ctx context.Context, username string, apply func(*model.User)) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	i, ok := u.index[username]
	if !ok {
		return model.ErrUserNotFound
	}

	before := u.users[i]
	apply(&u.users[i])

	if err := u.persister.SaveUsers(ctx, u.users); err != nil {
		u.users[i] = before
		u.logger.Error("Users service: failed to persist user update",
			"username", username,
			"error", err.Error())
		return fmt.Errorf("failed to save users: %w", err)
	}

	u.logger.Debug("Users service: user updated",
		"username", username,
		"credits", u.users[i].Credits,
		"score", u.users[i].Score)

	return nil
}

func (u *Users) FindByUsername(_ context.Context, username string) (model.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	i, ok := u.index[username]
	if !ok {
		return model.User{}, false
	}

	return u.users[i], true
}

// TopByScore returns at most n users by descending score. Equal scores keep
// registration order.
func (u *Users) TopByScore(_ context.Context, n int) []model.LeaderEntry {
	u.mu.Lock()
	sorted := slices.Clone(u.users)
	u.mu.Unlock()

	slices.SortStableFunc(sorted, func(a, b model.User) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	entries := make([]model.LeaderEntry, 0, len(sorted))
	for i, user := range sorted {
		entries = append(entries, model.LeaderEntry{
			Rank:     i + 1,
			Username: user.Username,
			Score:    user.Score,
		})
	}

	return entries
}
