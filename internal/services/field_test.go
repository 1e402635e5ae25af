package services

import (
  "strconv"
  "testing"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/types"
)

func TestFieldPatch_Flags(t *testing.T) {
  fx := newFixture(t)
  _, _, priceID, _ := boltFixture(t, fx)

  limit := true
  sequence := 9
  if err := fx.fields.Patch(allPermsCtx(), priceID, PatchFieldInput{IsLimitField: &limit, Sequence: &sequence}); err != nil {
    t.Fatalf("patch: %v", err)
  }
  var field types.Field
  if err := fx.db.First(&field, priceID).Error; err != nil {
    t.Fatalf("load field: %v", err)
  }
  if !field.IsLimitField || field.Sequence != 9 {
    t.Fatalf("patch not applied: %+v", field)
  }
}

func TestFieldPatch_TypeChangeBlockedByData(t *testing.T) {
  fx := newFixture(t)
  seriesID, _, priceID, _ := boltFixture(t, fx)

  newType := "string"
  err := fx.fields.Patch(allPermsCtx(), priceID, PatchFieldInput{DataType: &newType})
  if apierr.StatusOf(err) != 400 {
    t.Fatalf("type change over stored values must 400, got %v", err)
  }

  // a field with no values can still change type
  empty := types.Field{SeriesID: seriesID, Name: "note", DataType: "string", Sequence: 5}
  if err := fx.db.Create(&empty).Error; err != nil {
    t.Fatalf("create field: %v", err)
  }
  numberType := "number"
  if err := fx.fields.Patch(allPermsCtx(), empty.ID, PatchFieldInput{DataType: &numberType}); err != nil {
    t.Fatalf("type change on empty field: %v", err)
  }
}

func TestFieldDelete_CascadesAttributesAndImages(t *testing.T) {
  fx := newFixture(t)
  seriesID, nameID, _, _ := boltFixture(t, fx)

  photo := types.Field{SeriesID: seriesID, Name: "photo", DataType: "picture", Sequence: 3}
  if err := fx.db.Create(&photo).Error; err != nil {
    t.Fatalf("create field: %v", err)
  }
  created, err := fx.products.Create(allPermsCtx(), []CreateItemInput{{
    SeriesID: seriesID,
    Attributes: []AttributeInput{
      {FieldID: nameID, Value: "Anchor"},
      {FieldID: photo.ID, Value: pngPayload(t)},
    },
  }})
  if err != nil {
    t.Fatalf("create: %v", err)
  }

  var attr types.ItemAttribute
  if err := fx.db.Where("item_id = ? AND field_id = ?", created[0].ID, photo.ID).First(&attr).Error; err != nil {
    t.Fatalf("load attribute: %v", err)
  }
  imageID, err := strconv.Atoi(*attr.Value)
  if err != nil {
    t.Fatalf("stored value %q is not an image id", *attr.Value)
  }

  if err := fx.fields.Delete(allPermsCtx(), photo.ID); err != nil {
    t.Fatalf("delete field: %v", err)
  }

  var attrCount int64
  if err := fx.db.Model(&types.ItemAttribute{}).Where("field_id = ?", photo.ID).Count(&attrCount).Error; err != nil {
    t.Fatalf("count attributes: %v", err)
  }
  if attrCount != 0 {
    t.Fatalf("attribute rows must go with the field, %d left", attrCount)
  }
  var imageCount int64
  if err := fx.db.Model(&types.Image{}).Where("id = ?", imageID).Count(&imageCount).Error; err != nil {
    t.Fatalf("count images: %v", err)
  }
  if imageCount != 0 {
    t.Fatal("image row must go with the picture field")
  }
}

func TestFieldDelete_NotFound(t *testing.T) {
  fx := newFixture(t)
  boltFixture(t, fx)
  if err := fx.fields.Delete(allPermsCtx(), 9999); apierr.StatusOf(err) != 404 {
    t.Fatalf("expected 404, got %v", err)
  }
}
