package model

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Teacher links an external account to survey ownership.
// swagger:model Teacher
type Teacher struct {
	BaseModel
	UserID      uint     `gorm:"uniqueIndex;not null" json:"userId"`
	DisplayName string   `gorm:"size:150" json:"displayName"`
	Surveys     []Survey `gorm:"foreignKey:TeacherID" json:"surveys,omitempty"`
}

func (Teacher) TableName() string {
	return "teachers"
}

// swagger:model Student
type Student struct {
	BaseModel
	UserID         uint          `gorm:"uniqueIndex;not null" json:"userId"`
	FirstName      string        `gorm:"size:100" json:"firstName"`
	MiddleName     string        `gorm:"size:100" json:"middleName,omitempty"`
	LastName       string        `gorm:"size:100" json:"lastName"`
	ClassSectionID *uint         `gorm:"index" json:"classSectionId"` // nil 表示暂未分班
	ClassSection   *ClassSection `gorm:"foreignKey:ClassSectionID" json:"classSection,omitempty"`
}

func (Student) TableName() string {
	return "students"
}
