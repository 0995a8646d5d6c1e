package model

import "time"

// Task status values
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
	TaskStatusCancelled  = "cancelled"
)

// Task is a work item inside a project
type Task struct {
	BaseModel
	ProjectID   int        `gorm:"not null;index" json:"projectId"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	AssigneeID  *int       `gorm:"index" json:"assigneeId"`
	Status      string     `gorm:"type:varchar(16);not null;default:'open'" json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedBy   string     `gorm:"type:varchar(64);not null" json:"createdBy"`

	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User    `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

// TableName specifies the table name
func (Task) TableName() string {
	return "tasks"
}
