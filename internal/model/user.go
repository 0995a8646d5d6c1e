package model

// User is a portal account
type User struct {
	BaseModel
	Username   string `gorm:"type:varchar(64);uniqueIndex:uk_users_username;not null" json:"username"`
	Password   string `gorm:"type:varchar(128);not null" json:"-"`
	FullName   string `gorm:"type:varchar(128)" json:"fullName"`
	Email      string `gorm:"type:varchar(128)" json:"email"`
	Role       string `gorm:"type:varchar(16);not null;default:'staff'" json:"role"`
	Department string `gorm:"type:varchar(16)" json:"department"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Department constants. Design and CI drive the review-reminder split.
const (
	DeptDesign     = "design"
	DeptCI         = "ci"
	DeptProduction = "production"
	DeptQA         = "qa"
)
