package model

// Project status values
const (
	ProjectStatusActive = "active"
	ProjectStatusClosed = "closed"
)

// Project groups tasks for one engineering effort
type Project struct {
	BaseModel
	Code        string  `gorm:"type:varchar(32);uniqueIndex:uk_projects_code;not null" json:"code"`
	Name        string  `gorm:"type:varchar(128);not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	OwnerID     int     `gorm:"not null;index" json:"ownerId"`
	Status      string  `gorm:"type:varchar(16);not null;default:'active'" json:"status"`

	Owner *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// TableName specifies the table name
func (Project) TableName() string {
	return "projects"
}
