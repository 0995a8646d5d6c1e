package model

import "time"

// Material sheet kinds. Core and PP are laminate stock; "new" tracks
// qualification of materials not yet in the approved vendor list.
const (
	SheetKindCore = "core"
	SheetKindPP   = "pp"
	SheetKindNew  = "new"
)

// Sheet status values. Transitions are unconstrained in the schema;
// the notify package decides which transitions are worth an email.
const (
	SheetStatusPending = "Pending"
	SheetStatusApprove = "Approve"
	SheetStatusCancel  = "Cancel"
)

// MaterialSheet is the current-state row for a material spec sheet.
// All three kinds share the table; the per-kind field schema in the
// service layer controls which columns each kind may touch.
// Business fields are pointers so an absent measurement round-trips
// as SQL NULL.
type MaterialSheet struct {
	BaseModel
	Kind         string `gorm:"type:varchar(8);not null;index:idx_material_sheets_kind" json:"kind"`
	MaterialCode string `gorm:"type:varchar(64);not null;index" json:"materialCode"`
	Status       string `gorm:"type:varchar(16);not null;default:'Pending'" json:"status"`

	Supplier *string    `gorm:"type:varchar(128)" json:"supplier"`
	LotNo    *string    `gorm:"type:varchar(64)" json:"lotNo"`
	LotDate  *time.Time `json:"lotDate"`
	ULFileNo *string    `gorm:"type:varchar(64)" json:"ulFileNo"`

	// Core laminate measurements
	Thickness  *float64 `gorm:"type:decimal(10,4)" json:"thickness"`
	CopperFoil *string  `gorm:"type:varchar(32)" json:"copperFoil"`
	Tg         *int64   `json:"tg"`
	Dk         *float64 `gorm:"type:decimal(10,4)" json:"dk"`
	Df         *float64 `gorm:"type:decimal(10,4)" json:"df"`

	// Prepreg measurements
	ResinContent *float64 `gorm:"type:decimal(10,4)" json:"resinContent"`
	ResinFlow    *float64 `gorm:"type:decimal(10,4)" json:"resinFlow"`
	GelTime      *int64   `json:"gelTime"`

	// New-material qualification
	QualificationDate *time.Time `json:"qualificationDate"`
	TrialLotQty       *int64     `json:"trialLotQty"`
	Remark            *string    `gorm:"type:text" json:"remark"`

	IsDeleted bool   `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedBy string `gorm:"type:varchar(64);not null" json:"createdBy"`
}

// TableName specifies the table name
func (MaterialSheet) TableName() string {
	return "material_sheets"
}
