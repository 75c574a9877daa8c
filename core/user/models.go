package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/Eordinary01/View-Assignment/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	College      string    `json:"college"`
	Role         string    `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// SetPassword hashes pwd and stores the hash on the User. Hashing is always
// this explicit call; the storage layer never touches passwords.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) Identity() Identity {
	return Identity{
		ID:      u.ID,
		Email:   u.Email,
		College: u.College,
		Role:    u.Role,
	}
}

// Identity is the normalized requester attached to a request context by the
// auth gate; it never carries the password hash.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	College string `json:"college"`
	Role    string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// NewUser contains information needed to sign a new User up.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	College  string `json:"college" validate:"required"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name, true /* upper */)
	nu.Email = core.CleanString(nu.Email, true /* upper */)
	nu.College = core.CleanString(nu.College, true /* upper */)
	return validate.Struct(nu)
}
