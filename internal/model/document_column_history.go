package model

import "time"

// DocumentColumnHistory records document column mutations as per-field
// old/new value pairs: an UPDATE touching N fields appends N rows, while
// CREATE/DELETE/RESTORE append a single row with empty field name.
// Append-only, written in the caller's transaction.
type DocumentColumnHistory struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ColumnID  int       `gorm:"not null;index:idx_document_history_column" json:"columnId"`
	Action    string    `gorm:"type:varchar(8);not null" json:"action"`
	FieldName string    `gorm:"type:varchar(64)" json:"fieldName"`
	OldValue  *string   `gorm:"type:varchar(255)" json:"oldValue"`
	NewValue  *string   `gorm:"type:varchar(255)" json:"newValue"`
	Actor     string    `gorm:"type:varchar(64);not null" json:"actor"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (DocumentColumnHistory) TableName() string {
	return "document_column_history"
}
