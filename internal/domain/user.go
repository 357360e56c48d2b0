package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Role is the authorization role of an account.
type Role string

// Supported roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Field length limits for accounts.
const (
	NameMinLength      = 2
	NameMaxLength      = 50
	PasswordMinLength  = 6
	PasswordMaxBytes   = 72 // bcrypt ignores everything past 72 bytes
	DefaultAccountRole = RoleUser
)

// User represents a registered account.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"      validate:"required,min=2,max=50"`
	Email          string    `json:"email"     validate:"required,email"`
	Password       string    `json:"-"         validate:"required,min=6,bcryptlen"` // Plaintext, only set while creating
	HashedPassword string    `json:"-"`                                               // Never expose password hash in JSON
	Role           Role      `json:"role"      validate:"required,oneof=user admin"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserChanges carries the fields the public update path may modify.
// A nil or empty value means "leave unchanged".
type UserChanges struct {
	Name  *string
	Email *string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// bcrypt only looks at the first 72 bytes; runes are not what matters here
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= PasswordMaxBytes
	})
	return v
}

// NewUser builds a normalized account from registration input and validates
// it. The password is kept in plaintext; the store hashes it on Create.
func NewUser(name, email, password string) (*User, error) {
	user := &User{
		Name:     name,
		Email:    email,
		Password: password,
	}
	user.Normalize()

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Normalize trims the name, trims and lowercases the email and applies the
// default role.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = DefaultAccountRole
	}
}

// NormalizeEmail returns the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks every field constraint and returns a *ValidationError
// listing all violations. The password is only checked while a plaintext
// password is present or no hash exists yet.
func (u *User) Validate() error {
	if u.Password == "" && u.HashedPassword != "" {
		return u.ValidateProfile()
	}
	return toValidationError(validate.Struct(u))
}

// ValidateProfile checks everything except the password.
func (u *User) ValidateProfile() error {
	return toValidationError(validate.StructExcept(u, "Password"))
}

// Apply copies the provided, non-empty fields onto u and normalizes it.
// Password and role are never touched.
func (c UserChanges) Apply(u *User) {
	if c.Name != nil && *c.Name != "" {
		u.Name = *c.Name
	}
	if c.Email != nil && *c.Email != "" {
		u.Email = *c.Email
	}
	u.Normalize()
}

// IsEmpty reports whether the changes would modify nothing.
func (c UserChanges) IsEmpty() bool {
	return (c.Name == nil || *c.Name == "") && (c.Email == nil || *c.Email == "")
}

// Public returns a copy of u without any password material.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	cp.HashedPassword = ""
	return &cp
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &ValidationError{}
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.StructField())
		vErr.Add(field, fieldMessage(fe.StructField(), fe.Tag()))
	}
	return vErr
}

func fieldMessage(field, tag string) string {
	switch field {
	case "Name":
		switch tag {
		case "required":
			return "Please provide a name"
		case "min":
			return "Name must be at least 2 characters"
		case "max":
			return "Name cannot be more than 50 characters"
		}
	case "Email":
		switch tag {
		case "required":
			return "Please provide an email"
		case "email":
			return "Please provide a valid email"
		}
	case "Password":
		switch tag {
		case "required":
			return "Please provide a password"
		case "min":
			return "Password must be at least 6 characters"
		case "bcryptlen":
			return "Password cannot be more than 72 bytes"
		}
	case "Role":
		return "Role must be either user or admin"
	}
	return field + " is invalid"
}
