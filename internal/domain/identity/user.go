package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserRole represents the authorization role of a user. The role is issued
// as a JWT claim and checked server-side; clients never decide it.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is a known value
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// String returns the string representation of the role
func (r UserRole) String() string {
	return string(r)
}

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a storefront account
// It is the aggregate root for user-related operations
type User struct {
	shared.BaseAggregateRoot
	Name         string   `gorm:"type:varchar(100);not null"`
	Email        string   `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone        string   `gorm:"type:varchar(15)"`
	PasswordHash string   `gorm:"type:varchar(100);not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`
	Verified     bool     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new customer account
func NewUser(name, email, phone, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if phone != "" && !regexp.MustCompile(`^\d{10}$`).MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number must be 10 digits")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Phone:             strings.TrimSpace(phone),
		PasswordHash:      passwordHash,
		Role:              RoleUser,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// UpdateProfile replaces the user's contact details
func (u *User) UpdateProfile(name, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if phone != "" && !regexp.MustCompile(`^\d{10}$`).MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone number must be 10 digits")
	}

	u.Name = name
	u.Email = strings.ToLower(strings.TrimSpace(email))
	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// VerifyPassword checks the password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	passwordHash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// MarkVerified flags the account as verified
func (u *User) MarkVerified() {
	u.Verified = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// PromoteToAdmin grants the admin role
func (u *User) PromoteToAdmin() {
	u.Role = RoleAdmin
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
