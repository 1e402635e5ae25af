package types

import (
  "time"
)

type Archive struct {
  ID         int       `gorm:"primaryKey" json:"id"`
  ItemID     int       `gorm:"index;not null" json:"item_id"`
  ArchivedBy int       `gorm:"not null" json:"archived_by"`
  CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
  UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

  Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
  User *User `gorm:"foreignKey:ArchivedBy" json:"user,omitempty"`
}

func (Archive) TableName() string {
  return "archive"
}
