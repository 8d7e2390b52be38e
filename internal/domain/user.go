package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 12

type User struct {
	ID        int
	Name      string
	Email     string
	Phone     *string
	Password  password
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds a customer account from registration input.
func NewUser(name, email string, phone *string, plaintextPassword string) (*User, error) {
	user := &User{
		Name:  strings.TrimSpace(name),
		Email: NormalizeEmail(email),
		Phone: phone,
	}

	err := user.Password.Set(plaintextPassword)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail is applied before an email is stored or looked up, making
// addresses case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type password struct {
	plaintext *string
	Hash      []byte
}

func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return err
	}

	p.plaintext = &plaintext
	p.Hash = hash

	return nil
}

func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintext))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return err == nil, err
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetById(ctx context.Context, id int) (*User, error)
}
