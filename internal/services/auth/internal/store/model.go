package store

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

type Model struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	Model
	ID             int64
	UID            string
	Username       string
	Email          string
	HashedPassword string
	InvitationCode string
	Role           Role
}
