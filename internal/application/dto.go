package application

import (
	"time"

	"github.com/oksasatya/user-management/internal/domain/entity"
)

// RegisterInput is the raw registration payload.
type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	DisplayName *string
	Password    string
}

// UpdateInput holds the mutable fields of a user. Email and password are not
// part of it.
type UpdateInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	DateOfBirth *time.Time
	DisplayName *string
}

// UserDTO is the public representation of a user.
type UserDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
}

func toDTO(u *entity.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		FullName:    u.FullName(),
		DisplayName: u.DisplayName,
	}
}

func toDTOs(users []*entity.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, *toDTO(u))
	}
	return out
}
