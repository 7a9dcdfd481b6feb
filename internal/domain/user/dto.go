package user

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest is the payload for creating a staff account
type CreateRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	FullName string   `json:"fullName" validate:"required,max=200"`
	Roles    []string `json:"roles"`
}

// UpdateRequest is the admin-side profile update payload
type UpdateRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"fullName" validate:"omitempty,max=200"`
	IsActive *bool   `json:"isActive"`
}

// UpdateMeRequest is the self-service profile update payload
type UpdateMeRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,max=200"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// AssignRolesRequest replaces the user's role set
type AssignRolesRequest struct {
	Roles []string `json:"roles" validate:"required"`
}

// AssignPermissionsRequest replaces the user's direct grants
type AssignPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// UserResponse is the public representation of a user
type UserResponse struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	FullName          string     `json:"fullName"`
	IsActive          bool       `json:"isActive"`
	Roles             []string   `json:"roles"`
	DirectPermissions []string   `json:"directPermissions"`
	LastLoginAt       *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ToResponse converts a user entity to its public representation
func ToResponse(u *User) UserResponse {
	resp := UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		FullName:          u.FullName,
		IsActive:          u.IsActive,
		Roles:             u.Roles,
		DirectPermissions: u.DirectPermissions,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	if resp.DirectPermissions == nil {
		resp.DirectPermissions = []string{}
	}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		resp.LastLoginAt = &t
	}
	return resp
}

// ToResponses converts a slice of users
func ToResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToResponse(&users[i]))
	}
	return out
}
