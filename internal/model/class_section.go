package model

// swagger:model ClassSection
type ClassSection struct {
	BaseModel
	Name      string    `gorm:"size:120;not null" json:"name"`
	Code      string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	YearLevel int       `gorm:"default:1" json:"yearLevel"`
	Students  []Student `gorm:"foreignKey:ClassSectionID" json:"students,omitempty"`
}

func (ClassSection) TableName() string {
	return "class_sections"
}
