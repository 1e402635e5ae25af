package types

type Field struct {
  ID           int    `gorm:"primaryKey" json:"id"`
  SeriesID     int    `gorm:"index;not null" json:"series_id"`
  Name         string `gorm:"size:50;not null" json:"name"`
  DataType     string `gorm:"size:50;not null;column:data_type" json:"data_type"`
  IsRequired   bool   `gorm:"default:false" json:"is_required"`
  IsFiltered   bool   `gorm:"default:false" json:"is_filtered"`
  SearchErp    bool   `gorm:"default:false;column:search_erp" json:"search_erp"`
  IsErp        bool   `gorm:"default:false;column:is_erp" json:"is_erp"`
  IsLimitField bool   `gorm:"default:false;column:is_limit_field" json:"is_limit_field"`
  Sequence     int    `gorm:"default:0" json:"sequence"`

  Series *Series `gorm:"foreignKey:SeriesID" json:"series,omitempty"`
}

func (Field) TableName() string {
  return "field"
}
