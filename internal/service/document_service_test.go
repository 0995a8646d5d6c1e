package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go_mes/internal/model"
)

func newTestDocumentService(t *testing.T) *DocumentService {
	t.Helper()
	return NewDocumentService(setupTestDB(t))
}

func seedColumn(t *testing.T, svc *DocumentService) *model.DocumentColumn {
	t.Helper()
	deadline := "2025-02-01"
	column, err := svc.CreateColumn("ngocanh", CreateColumnInput{
		DocCode:        "DOC-8861",
		PartName:       "Main board rev C",
		ReviewDeadline: &deadline,
		Fields:         map[string]any{"warpage": "0.30"},
	})
	if err != nil {
		t.Fatalf("seed column failed: %v", err)
	}
	return column
}

func TestCreateColumn(t *testing.T) {
	svc := newTestDocumentService(t)
	column := seedColumn(t, svc)

	assert.Equal(t, "DOC-8861", column.DocCode)
	assert.NotNil(t, column.ReviewDeadline)
	if assert.NotNil(t, column.Warpage) {
		assert.Equal(t, 0.3, *column.Warpage)
	}

	history, err := svc.ColumnHistory(column.ID)
	assert.NoError(t, err)
	if assert.Len(t, history, 1) {
		assert.Equal(t, model.ActionCreate, history[0].Action)
	}
}

func TestUpdateColumn_PerFieldOldNewHistory(t *testing.T) {
	svc := newTestDocumentService(t)
	column := seedColumn(t, svc)

	updated, err := svc.UpdateColumn(column.ID, "minhtu", map[string]any{
		"warpage":        "0.25",
		"designReviewed": true,
		"ignoredField":   "x",
	})
	assert.NoError(t, err)
	if assert.NotNil(t, updated.Warpage) {
		assert.Equal(t, 0.25, *updated.Warpage)
	}
	assert.True(t, updated.DesignReviewed)

	history, _ := svc.ColumnHistory(column.ID)
	// 1 CREATE row + 2 per-field UPDATE rows
	assert.Len(t, history, 3)

	byField := map[string]model.DocumentColumnHistory{}
	for _, row := range history[1:] {
		assert.Equal(t, model.ActionUpdate, row.Action)
		byField[row.FieldName] = row
	}

	warpage := byField["warpage"]
	if assert.NotNil(t, warpage.OldValue) {
		assert.Equal(t, "0.3", *warpage.OldValue)
	}
	if assert.NotNil(t, warpage.NewValue) {
		assert.Equal(t, "0.25", *warpage.NewValue)
	}

	reviewed := byField["design_reviewed"]
	if assert.NotNil(t, reviewed.OldValue) {
		assert.Equal(t, "false", *reviewed.OldValue)
	}
	if assert.NotNil(t, reviewed.NewValue) {
		assert.Equal(t, "true", *reviewed.NewValue)
	}
}

func TestUpdateColumn_NullWritesNull(t *testing.T) {
	svc := newTestDocumentService(t)
	column := seedColumn(t, svc)

	updated, err := svc.UpdateColumn(column.ID, "minhtu", map[string]any{"warpage": ""})
	assert.NoError(t, err)
	assert.Nil(t, updated.Warpage)

	history, _ := svc.ColumnHistory(column.ID)
	last := history[len(history)-1]
	assert.Nil(t, last.NewValue)
	if assert.NotNil(t, last.OldValue) {
		assert.Equal(t, "0.3", *last.OldValue)
	}
}

func TestDeleteAndRestoreColumn(t *testing.T) {
	svc := newTestDocumentService(t)
	column := seedColumn(t, svc)

	assert.NoError(t, svc.DeleteColumn(column.ID, "ngocanh"))

	_, err := svc.GetColumn(column.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Idempotent second delete
	assert.ErrorIs(t, svc.DeleteColumn(column.ID, "ngocanh"), ErrNotFound)

	// Updates against a deleted column are NotFound
	_, err = svc.UpdateColumn(column.ID, "minhtu", map[string]any{"warpage": "0.2"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, svc.RestoreColumn(column.ID, "quanglam"))

	restored, err := svc.GetColumn(column.ID)
	assert.NoError(t, err)
	if assert.NotNil(t, restored.DeletedBy) {
		assert.Equal(t, "ngocanh", *restored.DeletedBy)
	}
	if assert.NotNil(t, restored.RestoredBy) {
		assert.Equal(t, "quanglam", *restored.RestoredBy)
	}

	history, _ := svc.ColumnHistory(column.ID)
	actions := make([]string, 0, len(history))
	for _, row := range history {
		actions = append(actions, row.Action)
	}
	assert.Equal(t, []string{model.ActionCreate, model.ActionDelete, model.ActionRestore}, actions)
}

func TestListColumns_OverdueFilter(t *testing.T) {
	svc := newTestDocumentService(t)

	past := "2020-01-01"
	future := "2099-01-01"
	svc.CreateColumn("ngocanh", CreateColumnInput{DocCode: "DOC-1", PartName: "A", ReviewDeadline: &past})
	svc.CreateColumn("ngocanh", CreateColumnInput{DocCode: "DOC-2", PartName: "B", ReviewDeadline: &future})
	svc.CreateColumn("ngocanh", CreateColumnInput{DocCode: "DOC-3", PartName: "C"})

	columns, total, err := svc.ListColumns(ColumnFilter{Overdue: true})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	if assert.Len(t, columns, 1) {
		assert.Equal(t, "DOC-1", columns[0].DocCode)
	}
}
