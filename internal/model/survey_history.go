package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HistoryStatus string

const (
	HistoryDraft     HistoryStatus = "DRAFT"
	HistorySubmitted HistoryStatus = "SUBMITTED"
)

var (
	ErrHistoryAlreadySubmitted = errors.New("survey history already submitted")
	ErrAnswerImmutable         = errors.New("student answers are write-once")
)

// SurveyHistory is one student's attempt at one survey.
//
// SubmittedStudentID mirrors StudentID once the attempt is SUBMITTED and is
// NULL before that. The unique index over (survey_id, submitted_student_id)
// therefore allows any number of drafts but only one submitted attempt per
// (survey, student), and the database rejects the second committing writer.
// swagger:model SurveyHistory
type SurveyHistory struct {
	Record
	SurveyID           uint            `gorm:"not null;index:idx_survey_histories_pair,priority:1;uniqueIndex:uq_survey_histories_submitted,priority:1" json:"surveyId"`
	StudentID          uint            `gorm:"not null;index:idx_survey_histories_pair,priority:2" json:"studentId"`
	SubmittedStudentID *uint           `gorm:"uniqueIndex:uq_survey_histories_submitted,priority:2" json:"-"`
	Status             HistoryStatus   `gorm:"size:12;not null;index:idx_survey_histories_status,priority:1" json:"status"`
	StartedAt          time.Time       `gorm:"not null" json:"startedAt"`
	SubmittedAt        *time.Time      `gorm:"index:idx_survey_histories_status,priority:2" json:"submittedAt,omitempty"`
	Rejections         datatypes.JSON  `json:"rejections,omitempty"`
	Answers            []StudentAnswer `gorm:"foreignKey:HistoryID" json:"answers,omitempty"`
}

func (SurveyHistory) TableName() string {
	return "survey_histories"
}

func NewDraftHistory(surveyID, studentID uint, now time.Time) *SurveyHistory {
	return &SurveyHistory{
		SurveyID:  surveyID,
		StudentID: studentID,
		Status:    HistoryDraft,
		StartedAt: now,
	}
}

func (h *SurveyHistory) IsSubmitted() bool {
	return h.Status == HistorySubmitted
}

// MarkSubmitted is the only state change an attempt makes, and it happens once.
func (h *SurveyHistory) MarkSubmitted(now time.Time) error {
	if h.IsSubmitted() {
		return ErrHistoryAlreadySubmitted
	}
	h.Status = HistorySubmitted
	h.SubmittedAt = &now
	return nil
}

func (h *SurveyHistory) BeforeSave(tx *gorm.DB) error {
	if h.Status == "" {
		h.Status = HistoryDraft
	}
	if h.IsSubmitted() {
		studentID := h.StudentID
		h.SubmittedStudentID = &studentID
	} else {
		h.SubmittedStudentID = nil
	}
	return nil
}

// AnswerValue is the payload of a StudentAnswer: OptionAnswer, LikertAnswer
// or TextAnswer.
type AnswerValue interface {
	Kind() QuestionType
	apply(a *StudentAnswer)
}

type OptionAnswer struct {
	OptionID uint `json:"optionId"`
}

type LikertAnswer struct {
	Value int `json:"value"`
}

type TextAnswer struct {
	Text string `json:"text"`
}

func (OptionAnswer) Kind() QuestionType { return QuestionMCQ }
func (LikertAnswer) Kind() QuestionType { return QuestionLikert }
func (TextAnswer) Kind() QuestionType   { return QuestionShort }

func (v OptionAnswer) apply(a *StudentAnswer) {
	id := v.OptionID
	a.MCQOptionID = &id
}

func (v LikertAnswer) apply(a *StudentAnswer) {
	n := v.Value
	a.LikertValue = &n
}

func (v TextAnswer) apply(a *StudentAnswer) {
	t := v.Text
	a.ShortText = &t
}

// StudentAnswer stores one answer to one question within one attempt. The
// three nullable columns are only written through NewStudentAnswer, so exactly
// one of them is set.
// swagger:model StudentAnswer
type StudentAnswer struct {
	Record
	HistoryID   uint    `gorm:"not null;uniqueIndex:uq_student_answers_history_question,priority:1" json:"historyId"`
	QuestionID  uint    `gorm:"not null;uniqueIndex:uq_student_answers_history_question,priority:2;index" json:"questionId"`
	MCQOptionID *uint   `gorm:"column:mcq_option_id;index" json:"mcqOptionId,omitempty"`
	LikertValue *int    `json:"likertValue,omitempty"`
	ShortText   *string `gorm:"type:text" json:"shortText,omitempty"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}

func NewStudentAnswer(historyID, questionID uint, v AnswerValue) StudentAnswer {
	a := StudentAnswer{HistoryID: historyID, QuestionID: questionID}
	v.apply(&a)
	return a
}

// Value decodes the stored payload back into its AnswerValue variant.
func (a *StudentAnswer) Value() (AnswerValue, error) {
	set := 0
	var v AnswerValue
	if a.MCQOptionID != nil {
		set++
		v = OptionAnswer{OptionID: *a.MCQOptionID}
	}
	if a.LikertValue != nil {
		set++
		v = LikertAnswer{Value: *a.LikertValue}
	}
	if a.ShortText != nil {
		set++
		v = TextAnswer{Text: *a.ShortText}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: answer %d has %d payloads", ErrInvalidAnswerValue, a.ID, set)
	}
	return v, nil
}

func (a *StudentAnswer) BeforeUpdate(tx *gorm.DB) error {
	return ErrAnswerImmutable
}
