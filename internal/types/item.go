package types

import (
  "time"
)

type Item struct {
  ID        int       `gorm:"primaryKey" json:"id"`
  SeriesID  int       `gorm:"index;not null" json:"series_id"`
  IsDeleted bool      `gorm:"default:false;column:is_deleted" json:"is_deleted"`
  CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

  Series     *Series         `gorm:"foreignKey:SeriesID" json:"series,omitempty"`
  Attributes []ItemAttribute `gorm:"foreignKey:ItemID" json:"attributes,omitempty"`
}

func (Item) TableName() string {
  return "item"
}
