package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
)

// Address is stored inline on the users table
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type User struct {
	gorm.Model
	FirstName    string   `json:"firstName" gorm:"column:first_name;not null"`
	LastName     string   `json:"lastName" gorm:"column:last_name;not null"`
	Email        string   `json:"email" gorm:"column:email;unique;not null"`
	Phone        string   `json:"phone" gorm:"column:phone;not null"`
	Password     string   `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string   `json:"-" gorm:"column:password_hash;not null"`
	Role         UserRole `json:"role" gorm:"column:role;not null;default:'customer'"`
	Address      Address  `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	ProfileImage string   `json:"profileImage" gorm:"column:profile_image"`
	IsVerified   bool     `json:"isVerified" gorm:"column:is_verified;default:false"`
	IsActive     bool     `json:"isActive" gorm:"column:is_active;default:true"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
