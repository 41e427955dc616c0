package identity

import (
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const EventTypeUserRegistered = "UserRegistered"

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Name:            user.Name,
		Email:           user.Email,
	}
}
