package main

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is a registered account. Accounts are never updated or deleted and
// live only as long as the process.
type User struct {
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Claims is the decoded payload of an access token.
type Claims struct {
	Subject   string
	Role      string
	ID        string
	ExpiresAt time.Time
}
