package audit

import (
	"encoding/json"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go_mes/internal/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.MaterialSheetHistory{}, &model.DocumentColumnHistory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestRecordSheet_SnapshotRoundTrip(t *testing.T) {
	db := setupDB(t)

	snapshot := map[string]interface{}{
		"supplier":  "Shengyi",
		"thickness": 0.15,
		"tg":        int64(170),
	}
	if err := RecordSheet(db, model.SheetKindCore, 7, model.ActionUpdate, "ngocanh", snapshot, ""); err != nil {
		t.Fatalf("RecordSheet() failed: %v", err)
	}

	var row model.MaterialSheetHistory
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if row.SheetID != 7 || row.Action != model.ActionUpdate || row.Actor != "ngocanh" {
		t.Errorf("Unexpected history row: %+v", row)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(row.Snapshot, &decoded); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	if decoded["supplier"] != "Shengyi" {
		t.Errorf("Snapshot lost fields: %v", decoded)
	}
}

func TestRecordSheet_DeleteHasNoteOnly(t *testing.T) {
	db := setupDB(t)

	if err := RecordSheet(db, model.SheetKindPP, 3, model.ActionDelete, "ngocanh", nil, "obsolete prepreg sheet"); err != nil {
		t.Fatalf("RecordSheet() failed: %v", err)
	}

	var row model.MaterialSheetHistory
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(row.Snapshot) != 0 {
		t.Errorf("DELETE row should have no snapshot, got %s", row.Snapshot)
	}
	if row.Note != "obsolete prepreg sheet" {
		t.Errorf("Expected note, got %q", row.Note)
	}
}

func TestRecordColumnFields_OneRowPerChange(t *testing.T) {
	db := setupDB(t)

	old := "0.3"
	newV := "0.25"
	changes := []FieldChange{
		{Field: "warpage", Old: &old, New: &newV},
		{Field: "ci_reviewed", Old: nil, New: &newV},
	}
	if err := RecordColumnFields(db, 11, "minhtu", changes); err != nil {
		t.Fatalf("RecordColumnFields() failed: %v", err)
	}

	var count int64
	db.Model(&model.DocumentColumnHistory{}).Where("column_id = ?", 11).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 history rows, got %d", count)
	}
}

func TestRecordColumnFields_NoChangesNoRows(t *testing.T) {
	db := setupDB(t)

	if err := RecordColumnFields(db, 11, "minhtu", nil); err != nil {
		t.Fatalf("RecordColumnFields() failed: %v", err)
	}

	var count int64
	db.Model(&model.DocumentColumnHistory{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no rows, got %d", count)
	}
}

func TestRecordSheet_RollsBackWithCallerTransaction(t *testing.T) {
	db := setupDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := RecordSheet(tx, model.SheetKindCore, 1, model.ActionCreate, "ngocanh", map[string]interface{}{"supplier": "Iteq"}, ""); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction // force rollback
	})
	if err == nil {
		t.Fatal("Expected transaction to fail")
	}

	var count int64
	db.Model(&model.MaterialSheetHistory{}).Count(&count)
	if count != 0 {
		t.Errorf("History row survived a rolled-back transaction: %d rows", count)
	}
}
