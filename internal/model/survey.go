package model

import (
	"time"
)

type SurveyStatus string

const (
	SurveyDraft     SurveyStatus = "draft"
	SurveyPublished SurveyStatus = "published"
	SurveyClosed    SurveyStatus = "closed"
)

func (s SurveyStatus) Valid() bool {
	switch s {
	case SurveyDraft, SurveyPublished, SurveyClosed:
		return true
	}
	return false
}

// swagger:model Survey
type Survey struct {
	BaseModel
	TeacherID   uint               `gorm:"not null;index:idx_surveys_teacher_status,priority:1" json:"teacherId"`
	Title       string             `gorm:"size:200;not null" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	Status      SurveyStatus       `gorm:"size:12;not null;default:'draft';index:idx_surveys_teacher_status,priority:2" json:"status"`
	DueDate     *time.Time         `gorm:"index" json:"dueDate,omitempty"` // 日期，存为 UTC 零点
	PublishedAt *time.Time         `json:"publishedAt,omitempty"`
	ClosedAt    *time.Time         `json:"closedAt,omitempty"`
	Questions   []Question         `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	Assignments []SurveyAssignment `gorm:"foreignKey:SurveyID" json:"assignments,omitempty"`
}

func (Survey) TableName() string {
	return "surveys"
}

// IsExpired reports whether the due date lies before today. today must be a
// value produced by CalendarDate.
func (s *Survey) IsExpired(today time.Time) bool {
	return s.DueDate != nil && s.DueDate.Before(today)
}

// CanTransitionTo lists the lifecycle moves a teacher may make:
// draft → published → closed, and draft → closed.
func (s *Survey) CanTransitionTo(next SurveyStatus) bool {
	switch s.Status {
	case SurveyDraft:
		return next == SurveyPublished || next == SurveyClosed
	case SurveyPublished:
		return next == SurveyClosed
	}
	return false
}

// CalendarDate returns the calendar date of t as seen in loc, normalised to
// midnight UTC so it compares equal across storage drivers.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SurveyAssignment makes a survey visible to one class section. The pair is
// unique at the storage level.
// swagger:model SurveyAssignment
type SurveyAssignment struct {
	Record
	SurveyID       uint          `gorm:"not null;uniqueIndex:uq_survey_assignments_pair,priority:1" json:"surveyId"`
	ClassSectionID uint          `gorm:"not null;uniqueIndex:uq_survey_assignments_pair,priority:2;index" json:"classSectionId"`
	AssignedAt     time.Time     `json:"assignedAt"`
	ClassSection   *ClassSection `gorm:"foreignKey:ClassSectionID" json:"classSection,omitempty"`
}

func (SurveyAssignment) TableName() string {
	return "survey_assignments"
}

// SurveySummary is a survey row plus the counters shown in the teacher's
// survey list.
type SurveySummary struct {
	Survey
	QuestionCount   int64 `json:"questionCount"`
	SubmissionCount int64 `json:"submissionCount"`
}
