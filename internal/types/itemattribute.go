package types

// ItemAttribute is the EAV cell. The value is always stored as a string (or
// NULL) regardless of the field's declared type; the fieldtype package owns
// the serialization rules.
type ItemAttribute struct {
  ItemID  int     `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
  FieldID int     `gorm:"primaryKey;autoIncrement:false" json:"field_id"`
  Value   *string `gorm:"size:255" json:"value"`

  Item  *Item  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
  Field *Field `gorm:"foreignKey:FieldID" json:"field,omitempty"`
}

func (ItemAttribute) TableName() string {
  return "item_attribute"
}
