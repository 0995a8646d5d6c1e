package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"go_mes/internal/model"
	"go_mes/internal/notify"
)

// CertService runs the UL certification workflow over approved
// material sheets.
type CertService struct {
	db         *gorm.DB
	mailer     notify.Enqueuer
	recipients []string
}

// NewCertService creates a certification service
func NewCertService(db *gorm.DB, mailer notify.Enqueuer, recipients []string) *CertService {
	return &CertService{db: db, mailer: mailer, recipients: recipients}
}

// CreateRequest opens a certification request for an approved sheet.
// Pending or cancelled sheets cannot be submitted.
func (s *CertService) CreateRequest(kind string, sheetID int, actor string, ulFileNo, remark *string) (*model.CertificationRequest, error) {
	if _, ok := SheetSchemaFor(kind); !ok {
		return nil, ErrUnknownKind
	}

	var sheet model.MaterialSheet
	err := s.db.Where("id = ? AND kind = ? AND is_deleted = ?", sheetID, kind, false).First(&sheet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sheet.Status != model.SheetStatusApprove {
		return nil, ErrStateConflict
	}

	req := model.CertificationRequest{
		SheetKind:   kind,
		SheetID:     sheetID,
		ULFileNo:    ulFileNo,
		Status:      model.CertStatusSubmitted,
		RequestedBy: actor,
		Remark:      remark,
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// Transition moves a request to a new status. Illegal jumps (e.g.
// submitted straight to certified) are rejected; reaching a terminal
// status stamps the reviewer and notifies the requester.
func (s *CertService) Transition(id int, newStatus, actor string) (*model.CertificationRequest, bool, error) {
	var req model.CertificationRequest
	var oldStatus string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		oldStatus = req.Status

		if !model.CanTransition(oldStatus, newStatus) {
			return ErrStateConflict
		}

		updates := map[string]interface{}{"status": newStatus}
		if newStatus == model.CertStatusCertified || newStatus == model.CertStatusRejected {
			now := time.Now()
			updates["reviewed_by"] = actor
			updates["reviewed_at"] = now
		}
		return tx.Model(&req).Updates(updates).Error
	})
	if err != nil {
		return nil, false, err
	}

	notified := notify.CertStatusChanged(s.mailer, &req, oldStatus, newStatus, actor, s.requestRecipients(&req))
	return &req, notified, nil
}

// ListRequests returns certification requests, newest first
func (s *CertService) ListRequests(status string, page, pageSize int) ([]model.CertificationRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 15
	}

	query := s.db.Model(&model.CertificationRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []model.CertificationRequest
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reqs).Error
	return reqs, total, err
}

// requestRecipients is the QA allow-list plus the requester's email
// when on file.
func (s *CertService) requestRecipients(req *model.CertificationRequest) []string {
	recipients := append([]string{}, s.recipients...)
	var user model.User
	if err := s.db.Where("username = ?", req.RequestedBy).First(&user).Error; err == nil && user.Email != "" {
		recipients = append(recipients, user.Email)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[CertService] Failed to look up requester email for %s: %v", req.RequestedBy, err)
	}
	return recipients
}
