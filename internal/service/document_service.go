package service

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"go_mes/internal/audit"
	"go_mes/internal/model"
	"go_mes/internal/patch"
)

// DocumentService implements the same pipeline as SheetService for
// document columns, with the per-field old/new history variant.
type DocumentService struct {
	db *gorm.DB
}

// NewDocumentService creates a document column service
func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

// CreateColumnInput is the create payload for one document column
type CreateColumnInput struct {
	DocCode        string         `json:"docCode" binding:"required"`
	PartName       string         `json:"partName" binding:"required"`
	Fields         map[string]any `json:"fields"`
	ReviewDeadline *string        `json:"reviewDeadline"`
}

// CreateColumn inserts one column and its CREATE history row in one
// transaction.
func (s *DocumentService) CreateColumn(actor string, input CreateColumnInput) (*model.DocumentColumn, error) {
	column := model.DocumentColumn{
		DocCode:   input.DocCode,
		PartName:  input.PartName,
		CreatedBy: actor,
	}
	if input.ReviewDeadline != nil {
		if d, ok := patch.Coerce(patch.Date, *input.ReviewDeadline).(time.Time); ok {
			column.ReviewDeadline = &d
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&column).Error; err != nil {
			return err
		}

		if len(input.Fields) > 0 {
			updates, err := documentColumnSchema.Build(input.Fields)
			if err != nil && !errors.Is(err, patch.ErrNoFields) {
				return err
			}
			if len(updates) > 0 {
				delete(updates, "doc_code")
				delete(updates, "part_name")
			}
			if len(updates) > 0 {
				if err := patch.Apply(tx, &model.DocumentColumn{}, column.ID, updates); err != nil {
					return err
				}
			}
		}

		return audit.RecordColumnAction(tx, column.ID, model.ActionCreate, actor)
	})
	if err != nil {
		return nil, err
	}

	var out model.DocumentColumn
	if err := s.db.First(&out, column.ID).Error; err != nil {
		return &column, nil
	}
	return &out, nil
}

// UpdateColumn applies a sparse patch and records one history row per
// supplied field with its old and new value.
func (s *DocumentService) UpdateColumn(id int, actor string, fields map[string]any) (*model.DocumentColumn, error) {
	updates, err := documentColumnSchema.Build(fields)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var old model.DocumentColumn
		if err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		changes := make([]audit.FieldChange, 0, len(updates))
		for name := range fields {
			field, ok := documentColumnSchema.Lookup(name)
			if !ok {
				continue
			}
			changes = append(changes, audit.FieldChange{
				Field: field.Column,
				Old:   columnFieldString(&old, field.Column),
				New:   coercedString(updates[field.Column]),
			})
		}

		if err := patch.Apply(tx, &model.DocumentColumn{}, id, updates); err != nil {
			return err
		}
		return audit.RecordColumnFields(tx, id, actor, changes)
	})
	if err != nil {
		return nil, err
	}

	var column model.DocumentColumn
	if err := s.db.First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// DeleteColumn soft-deletes with who/when stamps. Idempotent: deleting
// an already-deleted column is NotFound and writes no history.
func (s *DocumentService) DeleteColumn(id int, actor string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.DocumentColumn{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"deleted_by": actor,
				"deleted_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return audit.RecordColumnAction(tx, id, model.ActionDelete, actor)
	})
}

// RestoreColumn brings a soft-deleted column back with restore stamps.
func (s *DocumentService) RestoreColumn(id int, actor string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.DocumentColumn{}).
			Where("id = ? AND is_deleted = ?", id, true).
			Updates(map[string]interface{}{
				"is_deleted":  false,
				"restored_by": actor,
				"restored_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return audit.RecordColumnAction(tx, id, model.ActionRestore, actor)
	})
}

// GetColumn returns one live column
func (s *DocumentService) GetColumn(id int) (*model.DocumentColumn, error) {
	var column model.DocumentColumn
	err := s.db.Where("id = ? AND is_deleted = ?", id, false).First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &column, nil
}

// ColumnFilter narrows ListColumns
type ColumnFilter struct {
	DocCode  string
	Overdue  bool
	Page     int
	PageSize int
}

// ListColumns returns live columns, newest first
func (s *DocumentService) ListColumns(f ColumnFilter) ([]model.DocumentColumn, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 15
	}

	query := s.db.Model(&model.DocumentColumn{}).Where("is_deleted = ?", false)
	if f.DocCode != "" {
		query = query.Where("doc_code LIKE ?", "%"+f.DocCode+"%")
	}
	if f.Overdue {
		query = query.Where("review_deadline IS NOT NULL AND review_deadline < ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var columns []model.DocumentColumn
	err := query.Order("id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&columns).Error
	return columns, total, err
}

// ColumnHistory returns the audit trail for one column in operation
// order, including rows from before a soft delete.
func (s *DocumentService) ColumnHistory(id int) ([]model.DocumentColumnHistory, error) {
	var rows []model.DocumentColumnHistory
	err := s.db.Where("column_id = ?", id).Order("id").Find(&rows).Error
	return rows, err
}

// columnFieldString renders the current value of a column field for the
// old-value side of a history row.
func columnFieldString(c *model.DocumentColumn, column string) *string {
	switch column {
	case "doc_code":
		return strPtr(c.DocCode)
	case "part_name":
		return strPtr(c.PartName)
	case "customer_code":
		return c.CustomerCode
	case "warpage":
		return floatString(c.Warpage)
	case "dimension_tolerance":
		return floatString(c.DimensionTolerance)
	case "design_reviewed":
		return strPtr(strconv.FormatBool(c.DesignReviewed))
	case "ci_reviewed":
		return strPtr(strconv.FormatBool(c.CIReviewed))
	case "review_deadline":
		if c.ReviewDeadline == nil {
			return nil
		}
		return strPtr(c.ReviewDeadline.Format("2006-01-02"))
	}
	return nil
}

// coercedString renders a coerced patch value for the new-value side.
func coercedString(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return strPtr(t)
	case bool:
		return strPtr(strconv.FormatBool(t))
	case int64:
		return strPtr(strconv.FormatInt(t, 10))
	case float64:
		return strPtr(strconv.FormatFloat(t, 'f', -1, 64))
	case time.Time:
		return strPtr(t.Format("2006-01-02"))
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}

func floatString(f *float64) *string {
	if f == nil {
		return nil
	}
	return strPtr(strconv.FormatFloat(*f, 'f', -1, 64))
}
