package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMCQ    QuestionType = "MCQ"
	QuestionLikert QuestionType = "LIKERT"
	QuestionShort  QuestionType = "SHORT"
)

// ParseQuestionType accepts the stored codes plus the aliases the survey
// builder sends.
func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mcq", "multiple_choice":
		return QuestionMCQ, nil
	case "likert", "likert_scale":
		return QuestionLikert, nil
	case "short", "short_answer", "paragraph":
		return QuestionShort, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, s)
}

const (
	DefaultLikertMin       = 1
	DefaultLikertMax       = 5
	DefaultLikertStep      = 1
	DefaultShortAnswerSize = 500
)

// swagger:model Question
type Question struct {
	Record
	SurveyID    uint                 `gorm:"not null;uniqueIndex:uq_questions_survey_position,priority:1" json:"surveyId"`
	Text        string               `gorm:"type:text;not null" json:"text"`
	Type        QuestionType         `gorm:"column:question_type;size:12;not null" json:"questionType"`
	Order       int                  `gorm:"column:position;not null;uniqueIndex:uq_questions_survey_position,priority:2" json:"order"`
	Options     []MCQOption          `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	Likert      *LikertQuestion      `gorm:"foreignKey:QuestionID" json:"likert,omitempty"`
	ShortAnswer *ShortAnswerQuestion `gorm:"foreignKey:QuestionID" json:"shortAnswer,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Validate checks the question and whatever subtype config is attached to it.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return configError("text", "must not be empty")
	}
	if q.Order < 1 {
		return configError("order", "must be positive")
	}

	switch q.Type {
	case QuestionMCQ:
		if q.Likert != nil || q.ShortAnswer != nil {
			return configError("", "MCQ question cannot carry Likert or short answer settings")
		}
		if len(q.Options) == 0 {
			return configError("options", "MCQ question needs at least one option")
		}
		for i := range q.Options {
			if err := q.Options[i].Validate(); err != nil {
				return err
			}
		}
	case QuestionLikert:
		if len(q.Options) > 0 || q.ShortAnswer != nil {
			return configError("", "Likert question cannot carry options or short answer settings")
		}
		if q.Likert != nil {
			return q.Likert.Validate()
		}
	case QuestionShort:
		if len(q.Options) > 0 || q.Likert != nil {
			return configError("", "short answer question cannot carry options or Likert settings")
		}
		if q.ShortAnswer != nil {
			return q.ShortAnswer.Validate()
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, q.Type)
	}
	return nil
}

// QuestionSpec is the type-specific half of a question. Exactly one of
// MCQSpec, LikertSpec and ShortSpec implements it.
type QuestionSpec interface {
	Kind() QuestionType
	isQuestionSpec()
}

type MCQSpec struct {
	Options []MCQOption
}

type LikertSpec struct {
	Scale LikertQuestion
}

type ShortSpec struct {
	// MaxLength is 0 when no short answer settings exist.
	MaxLength int
}

func (MCQSpec) Kind() QuestionType    { return QuestionMCQ }
func (LikertSpec) Kind() QuestionType { return QuestionLikert }
func (ShortSpec) Kind() QuestionType  { return QuestionShort }

func (MCQSpec) isQuestionSpec()    {}
func (LikertSpec) isQuestionSpec() {}
func (ShortSpec) isQuestionSpec()  {}

// Spec decodes the stored question_type and loaded subtype config into a
// QuestionSpec. A LIKERT question without settings uses the 1..5 step 1 scale.
func (q *Question) Spec() (QuestionSpec, error) {
	switch q.Type {
	case QuestionMCQ:
		return MCQSpec{Options: q.Options}, nil
	case QuestionLikert:
		if q.Likert == nil {
			return LikertSpec{Scale: LikertQuestion{
				QuestionID: q.ID,
				ScaleMin:   DefaultLikertMin,
				ScaleMax:   DefaultLikertMax,
				Step:       DefaultLikertStep,
			}}, nil
		}
		return LikertSpec{Scale: *q.Likert}, nil
	case QuestionShort:
		if q.ShortAnswer == nil {
			return ShortSpec{}, nil
		}
		return ShortSpec{MaxLength: q.ShortAnswer.MaxLength}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, q.Type)
}

// FindOption returns the option with the given id if it belongs to q.
func (q *Question) FindOption(id uint) (*MCQOption, bool) {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// swagger:model MCQOption
type MCQOption struct {
	Record
	QuestionID uint   `gorm:"not null;index" json:"questionId"`
	Text       string `gorm:"size:255;not null" json:"text"`
	Position   int    `gorm:"not null" json:"position"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"` // 预留，可用于自动评分
}

func (MCQOption) TableName() string {
	return "mcq_options"
}

func (o *MCQOption) Validate() error {
	text := strings.TrimSpace(o.Text)
	if text == "" {
		return configError("options.text", "must not be empty")
	}
	if utf8.RuneCountInString(text) > 255 {
		return configError("options.text", "must not exceed 255 characters")
	}
	return nil
}

func (o *MCQOption) BeforeCreate(tx *gorm.DB) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return requireParentType(tx, o.QuestionID, QuestionMCQ)
}

// swagger:model LikertQuestion
type LikertQuestion struct {
	Record
	QuestionID uint `gorm:"not null;uniqueIndex" json:"questionId"`
	ScaleMin   int  `gorm:"not null" json:"scaleMin"`
	ScaleMax   int  `gorm:"not null" json:"scaleMax"`
	Step       int  `gorm:"not null" json:"step"`
}

func (LikertQuestion) TableName() string {
	return "likert_questions"
}

func (l *LikertQuestion) Validate() error {
	if l.ScaleMin >= l.ScaleMax {
		return configError("scaleMin", "must be less than scaleMax")
	}
	if l.Step <= 0 {
		return configError("step", "must be positive")
	}
	return nil
}

// Accepts reports whether v lies on the scale: inside [ScaleMin, ScaleMax]
// and reachable from ScaleMin in whole steps.
func (l *LikertQuestion) Accepts(v int) bool {
	if l.Step <= 0 || v < l.ScaleMin || v > l.ScaleMax {
		return false
	}
	return (v-l.ScaleMin)%l.Step == 0
}

func (l *LikertQuestion) BeforeCreate(tx *gorm.DB) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return requireParentType(tx, l.QuestionID, QuestionLikert)
}

// swagger:model ShortAnswerQuestion
type ShortAnswerQuestion struct {
	Record
	QuestionID uint `gorm:"not null;uniqueIndex" json:"questionId"`
	MaxLength  int  `gorm:"not null" json:"maxLength"`
}

func (ShortAnswerQuestion) TableName() string {
	return "short_answer_questions"
}

func (s *ShortAnswerQuestion) Validate() error {
	if s.MaxLength <= 0 {
		return configError("maxLength", "must be positive")
	}
	return nil
}

func (s *ShortAnswerQuestion) BeforeCreate(tx *gorm.DB) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return requireParentType(tx, s.QuestionID, QuestionShort)
}

// requireParentType looks the parent question up inside the writing
// transaction, so a config row can never point at a question of another type.
func requireParentType(tx *gorm.DB, questionID uint, want QuestionType) error {
	var got string
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Question{}).
		Select("question_type").
		Where("id = ?", questionID).
		Scan(&got).Error
	if err != nil {
		return err
	}
	if QuestionType(got) != want {
		return configError("questionType", fmt.Sprintf("settings for %s cannot attach to a %q question", want, got))
	}
	return nil
}
