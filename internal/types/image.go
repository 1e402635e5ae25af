package types

import (
  "time"
)

type Image struct {
  ID        int       `gorm:"primaryKey" json:"id"`
  Name      string    `gorm:"size:255;not null" json:"name"`
  Path      string    `gorm:"size:255;not null" json:"path"`
  CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Image) TableName() string {
  return "image"
}
