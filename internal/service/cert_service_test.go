package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go_mes/internal/model"
)

func newTestCertService(t *testing.T) (*CertService, *SheetService, *recordingEnqueuer, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	enq := &recordingEnqueuer{}
	return NewCertService(db, enq, []string{"ul-desk@factory.local"}),
		NewSheetService(db, enq, nil), enq, db
}

func approvedSheet(t *testing.T, sheets *SheetService) *model.MaterialSheet {
	t.Helper()
	created, err := sheets.CreateSheets(model.SheetKindCore, "ngocanh", CreateSheetsInput{MaterialCode: "CORE-1"})
	if err != nil {
		t.Fatalf("seed sheet failed: %v", err)
	}
	sheet, _, err := sheets.UpdateSheet(model.SheetKindCore, created[0].ID, "minhtu", map[string]any{"status": model.SheetStatusApprove})
	if err != nil {
		t.Fatalf("approve sheet failed: %v", err)
	}
	return sheet
}

func TestCreateRequest_RequiresApprovedSheet(t *testing.T) {
	certs, sheets, _, _ := newTestCertService(t)

	created, _ := sheets.CreateSheets(model.SheetKindCore, "ngocanh", CreateSheetsInput{MaterialCode: "CORE-1"})
	_, err := certs.CreateRequest(model.SheetKindCore, created[0].ID, "ngocanh", nil, nil)
	assert.ErrorIs(t, err, ErrStateConflict, "pending sheet cannot be submitted")

	sheet := approvedSheet(t, sheets)
	req, err := certs.CreateRequest(model.SheetKindCore, sheet.ID, "ngocanh", nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, model.CertStatusSubmitted, req.Status)
}

func TestTransition_WorkflowAndNotifications(t *testing.T) {
	certs, sheets, enq, _ := newTestCertService(t)
	sheet := approvedSheet(t, sheets)
	req, _ := certs.CreateRequest(model.SheetKindCore, sheet.ID, "ngocanh", nil, nil)

	mailsBefore := len(enq.messages)

	// Illegal jump
	_, _, err := certs.Transition(req.ID, model.CertStatusCertified, "qa-lead")
	assert.ErrorIs(t, err, ErrStateConflict)

	// submitted to testing: legal, silent
	_, notified, err := certs.Transition(req.ID, model.CertStatusTesting, "qa-lead")
	assert.NoError(t, err)
	assert.False(t, notified)

	// testing to certified: legal, notifies, stamps reviewer
	updated, notified, err := certs.Transition(req.ID, model.CertStatusCertified, "qa-lead")
	assert.NoError(t, err)
	assert.True(t, notified)
	assert.Equal(t, model.CertStatusCertified, updated.Status)
	if assert.NotNil(t, updated.ReviewedBy) {
		assert.Equal(t, "qa-lead", *updated.ReviewedBy)
	}
	assert.NotNil(t, updated.ReviewedAt)

	assert.Equal(t, mailsBefore+1, len(enq.messages))

	// Terminal status: nothing further is legal
	_, _, err = certs.Transition(req.ID, model.CertStatusTesting, "qa-lead")
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestTransition_NotFound(t *testing.T) {
	certs, _, _, _ := newTestCertService(t)
	_, _, err := certs.Transition(404, model.CertStatusTesting, "qa-lead")
	assert.ErrorIs(t, err, ErrNotFound)
}
