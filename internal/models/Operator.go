package models

import "gorm.io/gorm"

type Operator struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Role     string `json:"role"` // "operator" or "admin"
}
