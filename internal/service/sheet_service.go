package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"go_mes/internal/audit"
	"go_mes/internal/model"
	"go_mes/internal/notify"
	"go_mes/internal/patch"
)

// Service-level sentinel errors mapped to HTTP codes by the handlers.
var (
	ErrNotFound       = patch.ErrNotFound
	ErrNoFields       = patch.ErrNoFields
	ErrLengthMismatch = errors.New("parallel value lists must have equal length")
	ErrStateConflict  = errors.New("current status does not allow operation")
	ErrUnknownKind    = errors.New("unknown material kind")
)

// SheetService implements the partial-update/audit/notify pipeline for
// every material kind. The per-kind schema is the only thing that
// varies; the pipeline itself is shared.
type SheetService struct {
	db         *gorm.DB
	mailer     notify.Enqueuer
	recipients []string
}

// NewSheetService creates a sheet service. recipients is the fixed
// allow-list copied on approval notifications; the sheet creator's
// email, when on file, is appended per message.
func NewSheetService(db *gorm.DB, mailer notify.Enqueuer, recipients []string) *SheetService {
	return &SheetService{db: db, mailer: mailer, recipients: recipients}
}

// CreateSheetsInput is one create request, possibly fanning out into
// several sheets (one per lot number). LotDates, when present, pairs
// with LotNos by index.
type CreateSheetsInput struct {
	MaterialCode string         `json:"materialCode" binding:"required"`
	LotNos       []string       `json:"lotNos"`
	LotDates     []string       `json:"lotDates"`
	Fields       map[string]any `json:"fields"`
}

// CreateSheets creates one sheet per lot number (or a single sheet when
// no lots are given). All rows and their CREATE history commit in one
// transaction. The fan-out is resolved before the update engine runs;
// the engine only ever sees one entity id at a time.
func (s *SheetService) CreateSheets(kind, actor string, input CreateSheetsInput) ([]model.MaterialSheet, error) {
	schema, ok := SheetSchemaFor(kind)
	if !ok {
		return nil, ErrUnknownKind
	}
	if len(input.LotDates) > 0 && len(input.LotDates) != len(input.LotNos) {
		return nil, ErrLengthMismatch
	}

	// Status is server-assigned on create.
	fields := make(map[string]any, len(input.Fields))
	for k, v := range input.Fields {
		if k == "status" || k == "materialCode" {
			continue
		}
		fields[k] = v
	}

	lots := input.LotNos
	if len(lots) == 0 {
		lots = []string{""}
	}

	var created []model.MaterialSheet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i, lot := range lots {
			sheet := model.MaterialSheet{
				Kind:         kind,
				MaterialCode: input.MaterialCode,
				Status:       model.SheetStatusPending,
				CreatedBy:    actor,
			}
			if lot != "" {
				l := lot
				sheet.LotNo = &l
			}
			if len(input.LotDates) > 0 {
				if d, ok := patch.Coerce(patch.Date, input.LotDates[i]).(time.Time); ok {
					sheet.LotDate = &d
				}
			}
			if err := tx.Create(&sheet).Error; err != nil {
				return err
			}

			snapshot := map[string]interface{}{
				"material_code": input.MaterialCode,
				"status":        model.SheetStatusPending,
			}
			if sheet.LotNo != nil {
				snapshot["lot_no"] = *sheet.LotNo
			}
			if sheet.LotDate != nil {
				snapshot["lot_date"] = sheet.LotDate.Format("2006-01-02")
			}

			if len(fields) > 0 {
				updates, err := schema.Build(fields)
				if err != nil && !errors.Is(err, patch.ErrNoFields) {
					return err
				}
				if len(updates) > 0 {
					if err := patch.Apply(tx, &model.MaterialSheet{}, sheet.ID, updates); err != nil {
						return err
					}
					for col, v := range updates {
						snapshot[col] = v
					}
				}
			}

			if err := audit.RecordSheet(tx, kind, sheet.ID, model.ActionCreate, actor, snapshot, ""); err != nil {
				return err
			}

			created = append(created, sheet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload to pick up patched fields
	ids := make([]int, len(created))
	for i, sh := range created {
		ids[i] = sh.ID
	}
	var out []model.MaterialSheet
	if err := s.db.Where("id IN ?", ids).Order("id").Find(&out).Error; err != nil {
		return created, nil
	}
	return out, nil
}

// UpdateSheet applies a sparse patch to one sheet, appends the UPDATE
// history row in the same transaction and, after commit, runs the
// notification trigger against the status change.
func (s *SheetService) UpdateSheet(kind string, id int, actor string, fields map[string]any) (*model.MaterialSheet, bool, error) {
	schema, ok := SheetSchemaFor(kind)
	if !ok {
		return nil, false, ErrUnknownKind
	}

	// Resolve the patch before touching the database: an empty patch
	// must not open a transaction at all.
	updates, err := schema.Build(fields)
	if err != nil {
		return nil, false, err
	}

	var oldStatus string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var old model.MaterialSheet
		if err := tx.Where("id = ? AND kind = ? AND is_deleted = ?", id, kind, false).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		oldStatus = old.Status

		if err := patch.Apply(tx, &model.MaterialSheet{}, id, updates); err != nil {
			return err
		}
		return audit.RecordSheet(tx, kind, id, model.ActionUpdate, actor, updates, "")
	})
	if err != nil {
		return nil, false, err
	}

	var sheet model.MaterialSheet
	if err := s.db.First(&sheet, id).Error; err != nil {
		return nil, false, err
	}

	notified := notify.SheetStatusChanged(s.mailer, &sheet, oldStatus, sheet.Status, actor, s.approvalRecipients(&sheet))
	return &sheet, notified, nil
}

// SoftDeleteSheet flags a sheet deleted and appends the DELETE history
// row. Deleting an already-deleted sheet is NotFound and writes nothing.
func (s *SheetService) SoftDeleteSheet(kind string, id int, actor, note string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.MaterialSheet{}).
			Where("id = ? AND kind = ? AND is_deleted = ?", id, kind, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return audit.RecordSheet(tx, kind, id, model.ActionDelete, actor, nil, note)
	})
}

// GetSheet returns one live sheet
func (s *SheetService) GetSheet(kind string, id int) (*model.MaterialSheet, error) {
	var sheet model.MaterialSheet
	err := s.db.Where("id = ? AND kind = ? AND is_deleted = ?", id, kind, false).First(&sheet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sheet, nil
}

// SheetFilter narrows ListSheets
type SheetFilter struct {
	Status       string
	MaterialCode string
	Page         int
	PageSize     int
}

// ListSheets returns live sheets of one kind, newest first
func (s *SheetService) ListSheets(kind string, f SheetFilter) ([]model.MaterialSheet, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 15
	}

	query := s.db.Model(&model.MaterialSheet{}).
		Where("kind = ? AND is_deleted = ?", kind, false)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.MaterialCode != "" {
		query = query.Where("material_code LIKE ?", "%"+f.MaterialCode+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sheets []model.MaterialSheet
	err := query.Order("id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&sheets).Error
	return sheets, total, err
}

// SheetHistory returns the audit trail for one sheet in operation
// order. Soft-deleted sheets stay joinable here.
func (s *SheetService) SheetHistory(kind string, id int) ([]model.MaterialSheetHistory, error) {
	var rows []model.MaterialSheetHistory
	err := s.db.Where("sheet_kind = ? AND sheet_id = ?", kind, id).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// approvalRecipients is the fixed allow-list plus the creator's email
// when their account has one on file.
func (s *SheetService) approvalRecipients(sheet *model.MaterialSheet) []string {
	recipients := append([]string{}, s.recipients...)
	var user model.User
	if err := s.db.Where("username = ?", sheet.CreatedBy).First(&user).Error; err == nil && user.Email != "" {
		recipients = append(recipients, user.Email)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[SheetService] Failed to look up creator email for %s: %v", sheet.CreatedBy, err)
	}
	return recipients
}
