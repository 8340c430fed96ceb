package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID        uuid.UUID `json:"id"`
	AuthID    string    `json:"authId"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the subset of user fields embedded in other resources
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     *string   `json:"name"`
	Email    string    `json:"email,omitempty"`
	ImageURL *string   `json:"imageUrl"`
}

// Summary returns the embeddable projection of the user
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		ImageURL: u.ImageURL,
	}
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByAuthID(authID string) (*User, error)
	Update(user *User) (*User, error)
	UpdateImageURL(id uuid.UUID, imageURL string) (*User, error)
	// CreateWithPersonalWorkspace atomically creates the user together with
	// their personal workspace and its OWNER membership.
	CreateWithPersonalWorkspace(user *User, workspaceName string) (*User, error)
}
