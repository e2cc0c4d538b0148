package auth

import "jobmarket_backend/internal/models"

// Actor is the identity attempting an action. The zero value is anonymous.
type Actor struct {
	UserID uint
	Role   models.Role
}

func NewActor(userID uint, role models.Role) Actor {
	return Actor{UserID: userID, Role: role}
}

func Anonymous() Actor {
	return Actor{}
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0 && a.Role.Valid()
}

func (a Actor) Is(role models.Role) bool {
	return a.Authenticated() && a.Role == role
}
