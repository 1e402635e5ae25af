package types

import (
  "time"
)

const (
  SeriesStatusDeleted = 0
  SeriesStatusActive  = 1
)

type Series struct {
  ID        int       `gorm:"primaryKey" json:"id"`
  Name      string    `gorm:"size:50;not null" json:"name"`
  CreatedBy int       `gorm:"not null" json:"created_by"`
  CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
  Status    int       `gorm:"default:1" json:"status"`

  Creator *User   `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
  Fields  []Field `gorm:"foreignKey:SeriesID" json:"fields,omitempty"`
}

func (Series) TableName() string {
  return "series"
}
