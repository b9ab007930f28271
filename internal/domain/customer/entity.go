package customer

import (
	"time"

	"github.com/google/uuid"
)

// Customer entity. Used for auth and loyalty evaluation.
type Customer struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	createdAt    time.Time
	updatedAt    time.Time
}

func NewCustomer(email Email, passwordHash string, role Role) *Customer {
	return &Customer{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
	}
}

func (c *Customer) ID() uuid.UUID        { return c.id }
func (c *Customer) Email() Email         { return c.email }
func (c *Customer) PasswordHash() string { return c.passwordHash }
func (c *Customer) Role() Role           { return c.role }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }
