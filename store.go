package main

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the in-memory account table. A single mutex guards the map so
// concurrent registrations of the same username have exactly one winner.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*User)}
}

func (s *UserStore) Create(username, passwordHash, role string) (*User, error) {
	if role == "" {
		role = RoleStudent
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return nil, ErrUserExists
	}
	u := &User{Username: username, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	s.users[username] = u
	return u, nil
}

func (s *UserStore) Get(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}
