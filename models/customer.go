package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/andinotravel/reservas/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CustomerRole identifies the role a customer (or staff member) holds on the
// platform. Reschedule rules are scoped to roles via their AppliesTo field.
type CustomerRole string

const (
	RoleClient  CustomerRole = "CLIENTE"
	RoleAgent   CustomerRole = "AGENTE"
	RoleSupport CustomerRole = "SOPORTE"
	RoleAdmin   CustomerRole = "ADMIN"

	// RoleAll is the wildcard used by rules that apply to every role.
	// It is never stored on a customer.
	RoleAll = "ALL"
)

// Valid checks if the role is valid.
func (r CustomerRole) Valid() bool {
	switch r {
	case RoleClient, RoleAgent, RoleSupport, RoleAdmin:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CustomerRole.
func (r *CustomerRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = CustomerRole(v)
	case []byte:
		*r = CustomerRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CustomerRole", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for CustomerRole.
func (r CustomerRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid CustomerRole: %s", r)
	}
	return string(r), nil
}

// Customer represents a platform user: travel clients plus staff roles.
type Customer struct {
	ID           uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	FirstName    string       `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string       `gorm:"type:varchar(100);not null" json:"last_name"`
	Email        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Mobile       *string      `gorm:"type:varchar(25)" json:"mobile,omitempty"`
	PasswordHash string       `gorm:"type:varchar(255);not null" json:"-"`
	Role         CustomerRole `gorm:"type:varchar(20);not null;default:'CLIENTE';index" json:"role"`
	IsActive     *bool        `gorm:"default:true;index" json:"is_active,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// BeforeCreate ensures UUID and timestamps are set.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// SetPassword hashes and stores the given plaintext password.
func (c *Customer) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (c *Customer) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(plain)) == nil
}

// CustomerFilter represents filter criteria for customer queries.
type CustomerFilter struct {
	ID       *uint         `json:"id,omitempty"`
	UUID     *uuid.UUID    `json:"uuid,omitempty"`
	Email    *string       `json:"email,omitempty"`
	Role     *CustomerRole `json:"role,omitempty"`
	IsActive *bool         `json:"is_active,omitempty"`
}
