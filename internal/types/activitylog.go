package types

import (
  "time"
  "gorm.io/datatypes"
)

type ActivityLog struct {
  ID        int            `gorm:"primaryKey" json:"id"`
  URL       string         `gorm:"size:255;not null;column:url" json:"url"`
  Method    string         `gorm:"size:10" json:"method"`
  UserID    *int           `gorm:"column:user_id" json:"user_id"`
  Payload   datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
  CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string {
  return "activity_log"
}
