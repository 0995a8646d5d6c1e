package notify

import (
	"strings"
	"testing"

	"go_mes/internal/model"
)

type recordingEnqueuer struct {
	messages []Message
}

func (r *recordingEnqueuer) Enqueue(msg Message) {
	r.messages = append(r.messages, msg)
}

func testSheet() *model.MaterialSheet {
	supplier := "Shengyi"
	return &model.MaterialSheet{
		Kind:         model.SheetKindCore,
		MaterialCode: "CORE-S1000-2",
		Supplier:     &supplier,
	}
}

func TestSheetStatusChanged_PendingToApproveNotifies(t *testing.T) {
	enq := &recordingEnqueuer{}

	sent := SheetStatusChanged(enq, testSheet(), model.SheetStatusPending, model.SheetStatusApprove, "ngocanh", []string{"qa@factory.local"})
	if !sent {
		t.Fatal("Expected the Pending to Approve change to notify")
	}
	if len(enq.messages) != 1 {
		t.Fatalf("Expected exactly 1 message, got %d", len(enq.messages))
	}

	msg := enq.messages[0]
	if !strings.Contains(msg.Subject, "CORE-S1000-2") {
		t.Errorf("Subject missing material code: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "Shengyi") || !strings.Contains(msg.HTMLBody, "ngocanh") {
		t.Errorf("Body missing projection fields: %q", msg.HTMLBody)
	}
}

func TestSheetStatusChanged_NoOpTransitionSilent(t *testing.T) {
	enq := &recordingEnqueuer{}

	if SheetStatusChanged(enq, testSheet(), model.SheetStatusApprove, model.SheetStatusApprove, "ngocanh", nil) {
		t.Error("Same-status update must not notify")
	}
	if len(enq.messages) != 0 {
		t.Errorf("Expected 0 messages, got %d", len(enq.messages))
	}
}

func TestSheetStatusChanged_TransitionsOutsideAllowListSilent(t *testing.T) {
	enq := &recordingEnqueuer{}

	cases := [][2]string{
		{model.SheetStatusPending, model.SheetStatusCancel},
		{model.SheetStatusApprove, model.SheetStatusPending},
		{model.SheetStatusApprove, model.SheetStatusCancel},
		{model.SheetStatusCancel, model.SheetStatusPending},
	}
	for _, c := range cases {
		if SheetStatusChanged(enq, testSheet(), c[0], c[1], "ngocanh", nil) {
			t.Errorf("Change from %s to %s must not notify", c[0], c[1])
		}
	}
	if len(enq.messages) != 0 {
		t.Errorf("Expected 0 messages, got %d", len(enq.messages))
	}
}

func TestCertStatusChanged(t *testing.T) {
	enq := &recordingEnqueuer{}
	req := &model.CertificationRequest{SheetKind: model.SheetKindCore, SheetID: 4}
	req.ID = 9

	if !CertStatusChanged(enq, req, model.CertStatusTesting, model.CertStatusCertified, "qa-lead", []string{"requester@factory.local"}) {
		t.Error("Reaching certified should notify")
	}
	if CertStatusChanged(enq, req, model.CertStatusSubmitted, model.CertStatusTesting, "qa-lead", nil) {
		t.Error("Reaching testing must not notify")
	}
	if len(enq.messages) != 1 {
		t.Errorf("Expected exactly 1 message, got %d", len(enq.messages))
	}
}
