package types

import (
  "time"
)

type User struct {
  ID           int       `gorm:"primaryKey" json:"id"`
  Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
  Password     string    `gorm:"size:128;not null" json:"-"`
  TokenVersion int       `gorm:"default:0;column:token_version" json:"-"`
  IsDisabled   bool      `gorm:"default:false;column:is_disabled" json:"is_disabled"`
  CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
  UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

  Roles []Role `gorm:"many2many:user_role;" json:"roles,omitempty"`
}

func (User) TableName() string {
  return "users"
}

type Role struct {
  ID   int    `gorm:"primaryKey" json:"id"`
  Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`

  Permissions []Permission `gorm:"many2many:role_permission;" json:"permissions,omitempty"`
}

func (Role) TableName() string {
  return "roles"
}

type Permission struct {
  ID   int    `gorm:"primaryKey" json:"id"`
  Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

func (Permission) TableName() string {
  return "permissions"
}
