package notify

import (
	"fmt"

	"go_mes/internal/model"
)

// notifiedSheetTransitions is the single allow-list of status changes
// worth an email, shared by every material kind. Transitions outside
// the list are silently not notified.
var notifiedSheetTransitions = map[[2]string]bool{
	{model.SheetStatusPending, model.SheetStatusApprove}: true,
}

// notifiedCertStatuses lists certification statuses that notify the
// requester on entry.
var notifiedCertStatuses = map[string]bool{
	model.CertStatusCertified: true,
	model.CertStatusRejected:  true,
}

// SheetStatusChanged enqueues a notification when an update moved the
// sheet through an allow-listed status transition. Returns whether a
// message was enqueued.
func SheetStatusChanged(enq Enqueuer, sheet *model.MaterialSheet, oldStatus, newStatus, actor string, recipients []string) bool {
	if oldStatus == newStatus {
		return false
	}
	if !notifiedSheetTransitions[[2]string{oldStatus, newStatus}] {
		return false
	}

	enq.Enqueue(Message{
		To:       recipients,
		Subject:  fmt.Sprintf("[MES] Material sheet %s approved", sheet.MaterialCode),
		HTMLBody: sheetApprovedBody(sheet, actor),
	})
	return true
}

// CertStatusChanged enqueues a notification when a certification request
// reached a terminal status. Returns whether a message was enqueued.
func CertStatusChanged(enq Enqueuer, req *model.CertificationRequest, oldStatus, newStatus, actor string, recipients []string) bool {
	if oldStatus == newStatus || !notifiedCertStatuses[newStatus] {
		return false
	}

	enq.Enqueue(Message{
		To:       recipients,
		Subject:  fmt.Sprintf("[MES] UL certification request #%d %s", req.ID, newStatus),
		HTMLBody: certStatusBody(req, newStatus, actor),
	})
	return true
}

func sheetApprovedBody(sheet *model.MaterialSheet, actor string) string {
	supplier := ""
	if sheet.Supplier != nil {
		supplier = *sheet.Supplier
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<h2 style="color: #2c3e50;">Material sheet approved</h2>
			<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
				<tr><td><b>Material code</b></td><td>%s</td></tr>
				<tr><td><b>Kind</b></td><td>%s</td></tr>
				<tr><td><b>Supplier</b></td><td>%s</td></tr>
				<tr><td><b>Approved by</b></td><td>%s</td></tr>
			</table>
			<p>Open the MES portal for the full spec sheet.</p>
		</div>`,
		sheet.MaterialCode, sheet.Kind, supplier, actor)
}

func certStatusBody(req *model.CertificationRequest, newStatus, actor string) string {
	ulFileNo := ""
	if req.ULFileNo != nil {
		ulFileNo = *req.ULFileNo
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<h2 style="color: #2c3e50;">UL certification request %s</h2>
			<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
				<tr><td><b>Request</b></td><td>#%d</td></tr>
				<tr><td><b>Sheet</b></td><td>%s #%d</td></tr>
				<tr><td><b>UL file no.</b></td><td>%s</td></tr>
				<tr><td><b>Reviewed by</b></td><td>%s</td></tr>
			</table>
		</div>`,
		newStatus, req.ID, req.SheetKind, req.SheetID, ulFileNo, actor)
}
