package api

import (
	"time"

	"github.com/phrazzld/account-api/internal/domain"
)

// RegisterRequest defines the payload for the registration endpoint.
// Field rules live on domain.User so every violation is reported at once.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest defines the payload for the update endpoint. Absent or
// empty fields are left unchanged; password and role are not accepted here.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Changes converts the request into domain changes.
func (r UpdateUserRequest) Changes() domain.UserChanges {
	return domain.UserChanges{Name: r.Name, Email: r.Email}
}

// UserResponse is the public account view returned by register, login,
// update and profile.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserDetailResponse is the account view returned by get and list.
type UserDetailResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse defines the successful response for register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ProfileResponse wraps the authenticated caller's account.
type ProfileResponse struct {
	User UserResponse `json:"user"`
}

// RootResponse is served at the service root.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

func userToDetailResponse(u *domain.User) UserDetailResponse {
	return UserDetailResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
