package model

import (
	"time"

	"gorm.io/datatypes"
)

// MaterialSheetHistory is the append-only audit row for material sheet
// mutations. Snapshot is a point-in-time JSON copy of the business fields
// the caller supplied, not a diff; for DELETE only Note is recorded.
// Rows are written in the same transaction as the entity mutation and
// are never updated or deleted.
type MaterialSheetHistory struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	SheetKind string         `gorm:"type:varchar(8);not null" json:"sheetKind"`
	SheetID   int            `gorm:"not null;index:idx_material_history_sheet" json:"sheetId"`
	Action    string         `gorm:"type:varchar(8);not null" json:"action"`
	Actor     string         `gorm:"type:varchar(64);not null" json:"actor"`
	Snapshot  datatypes.JSON `json:"snapshot"`
	Note      string         `gorm:"type:varchar(255)" json:"note"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (MaterialSheetHistory) TableName() string {
	return "material_sheet_history"
}
