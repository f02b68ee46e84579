package entity

import (
	"time"
)

const (
	RoleCustomer     = "customer"
	RoleDoctor       = "doctor"
	RoleCompanyAdmin = "company_admin"
	RoleSuperAdmin   = "super_admin"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	AuthID   string `json:"auth_id" firestore:"authId"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Role     string `json:"role" firestore:"role"`
	Active   bool   `json:"active" firestore:"active"`
	Verified bool   `json:"verified" firestore:"verified"`

	LastLoginAt time.Time `json:"last_login_at,omitempty" firestore:"lastLoginAt,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleCompanyAdmin || u.Role == RoleSuperAdmin
}
