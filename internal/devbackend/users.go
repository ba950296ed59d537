package devbackend

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("Username already exists")
	ErrEmailTaken         = errors.New("Email already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUserNotFound       = errors.New("User not found")
)

type user struct {
	Username     string
	Email        string
	PasswordHash []byte
}

// users is the in-memory account table. Usernames and emails are unique.
type users struct {
	mu      sync.RWMutex
	byName  map[string]*user
	byEmail map[string]*user
	cost    int
}

func newUsers(cost int) *users {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &users{
		byName:  make(map[string]*user),
		byEmail: make(map[string]*user),
		cost:    cost,
	}
}

func (u *users) create(username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byName[username]; ok {
		return ErrUsernameTaken
	}
	if _, ok := u.byEmail[email]; ok {
		return ErrEmailTaken
	}
	rec := &user{Username: username, Email: email, PasswordHash: hash}
	u.byName[username] = rec
	u.byEmail[email] = rec
	return nil
}

func (u *users) authenticate(username, password string) (*user, error) {
	u.mu.RLock()
	rec, ok := u.byName[username]
	u.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return rec, nil
}

func (u *users) find(username string) (*user, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	rec, ok := u.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return rec, nil
}
