package model

import "time"

// DocumentColumn is a per-part measurement record reviewed by the design
// and CI teams. Soft-deleted columns carry who/when stamps for both the
// delete and a later restore.
type DocumentColumn struct {
	BaseModel
	DocCode      string `gorm:"type:varchar(64);not null;index" json:"docCode"`
	PartName     string `gorm:"type:varchar(128);not null" json:"partName"`
	CustomerCode *string `gorm:"type:varchar(64)" json:"customerCode"`

	// Measurements under review
	Warpage            *float64 `gorm:"type:decimal(10,4)" json:"warpage"`
	DimensionTolerance *float64 `gorm:"type:decimal(10,4)" json:"dimensionTolerance"`

	DesignReviewed bool       `gorm:"not null;default:false" json:"designReviewed"`
	CIReviewed     bool       `gorm:"not null;default:false" json:"ciReviewed"`
	ReviewDeadline *time.Time `gorm:"index" json:"reviewDeadline"`

	IsDeleted  bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedBy  string     `gorm:"type:varchar(64);not null" json:"createdBy"`
	DeletedBy  *string    `gorm:"type:varchar(64)" json:"deletedBy"`
	DeletedAt  *time.Time `json:"deletedAt"`
	RestoredBy *string    `gorm:"type:varchar(64)" json:"restoredBy"`
	RestoredAt *time.Time `json:"restoredAt"`
}

// TableName specifies the table name
func (DocumentColumn) TableName() string {
	return "document_columns"
}
