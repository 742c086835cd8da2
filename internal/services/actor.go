package services

import "github.com/hostelcare/hostelcare/internal/database"

// Actor identifies the user performing an operation. Every mutating service
// operation takes the actor explicitly instead of reading it from request
// context, so services can be unit tested without an HTTP pipeline.
type Actor struct {
	ID     string
	Name   string
	Email  string
	Role   database.UserRole
	Hostel string
	Block  string
	Room   string
}

// Ref returns the actor as a denormalized reference for embedding in records.
func (a Actor) Ref() database.UserRef {
	return database.UserRef{ID: a.ID, Name: a.Name, Email: a.Email}
}

// RoleRef returns the actor as a reference that includes their role.
func (a Actor) RoleRef() database.UserRef {
	return database.UserRef{ID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role)}
}

// ActorFromUser builds an Actor from a user record.
func ActorFromUser(u *database.User) Actor {
	return Actor{
		ID:     u.UUID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Hostel: u.Hostel,
		Block:  u.Block,
		Room:   u.Room,
	}
}
