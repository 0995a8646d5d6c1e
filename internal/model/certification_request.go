package model

import "time"

// Certification request status values
const (
	CertStatusSubmitted = "submitted"
	CertStatusTesting   = "testing"
	CertStatusCertified = "certified"
	CertStatusRejected  = "rejected"
)

// CertificationRequest tracks a UL certification workflow over an
// approved material sheet.
type CertificationRequest struct {
	BaseModel
	SheetKind   string     `gorm:"type:varchar(8);not null" json:"sheetKind"`
	SheetID     int        `gorm:"not null;index" json:"sheetId"`
	ULFileNo    *string    `gorm:"type:varchar(64)" json:"ulFileNo"`
	Status      string     `gorm:"type:varchar(16);not null;default:'submitted'" json:"status"`
	RequestedBy string     `gorm:"type:varchar(64);not null" json:"requestedBy"`
	ReviewedBy  *string    `gorm:"type:varchar(64)" json:"reviewedBy"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	Remark      *string    `gorm:"type:text" json:"remark"`

	Sheet *MaterialSheet `gorm:"foreignKey:SheetID" json:"sheet,omitempty"`
}

// TableName specifies the table name
func (CertificationRequest) TableName() string {
	return "certification_requests"
}

// certTransitions lists the allowed next statuses per current status.
var certTransitions = map[string][]string{
	CertStatusSubmitted: {CertStatusTesting, CertStatusRejected},
	CertStatusTesting:   {CertStatusCertified, CertStatusRejected},
}

// CanTransition reports whether a certification request may move from
// one status to another.
func CanTransition(from, to string) bool {
	for _, next := range certTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
