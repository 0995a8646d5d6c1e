// Package audit appends immutable history rows describing entity
// mutations. Writers run inside the caller's transaction so a failed
// history append rolls the whole mutation back: history is exactly
// one-to-one with committed mutations.
package audit

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go_mes/internal/model"
)

// RecordSheet appends one material-sheet history row. For CREATE/UPDATE
// the snapshot holds the business fields the caller supplied (absent
// fields are omitted, not read back from the entity store); for DELETE
// snapshot is nil and note carries a free-text description.
func RecordSheet(tx *gorm.DB, kind string, sheetID int, action, actor string, snapshot map[string]interface{}, note string) error {
	var snap datatypes.JSON
	if snapshot != nil {
		b, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal history snapshot: %w", err)
		}
		snap = datatypes.JSON(b)
	}

	row := model.MaterialSheetHistory{
		SheetKind: kind,
		SheetID:   sheetID,
		Action:    action,
		Actor:     actor,
		Snapshot:  snap,
		Note:      note,
	}
	return tx.Create(&row).Error
}

// FieldChange is one old/new value pair on a document column update.
type FieldChange struct {
	Field string
	Old   *string
	New   *string
}

// RecordColumnFields appends one history row per changed field.
func RecordColumnFields(tx *gorm.DB, columnID int, actor string, changes []FieldChange) error {
	if len(changes) == 0 {
		return nil
	}
	rows := make([]model.DocumentColumnHistory, 0, len(changes))
	for _, ch := range changes {
		rows = append(rows, model.DocumentColumnHistory{
			ColumnID:  columnID,
			Action:    model.ActionUpdate,
			FieldName: ch.Field,
			OldValue:  ch.Old,
			NewValue:  ch.New,
			Actor:     actor,
		})
	}
	return tx.Create(&rows).Error
}

// RecordColumnAction appends the single row for CREATE/DELETE/RESTORE.
func RecordColumnAction(tx *gorm.DB, columnID int, action, actor string) error {
	row := model.DocumentColumnHistory{
		ColumnID: columnID,
		Action:   action,
		Actor:    actor,
	}
	return tx.Create(&row).Error
}
