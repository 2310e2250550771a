package repository

import (
	"context"

	"surveylyze_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// insertQuestion writes the question row first and its subtype config after
// it, so the config hooks can see the parent's type inside tx.
func insertQuestion(tx *gorm.DB, q *model.Question) error {
	if err := tx.Omit(clause.Associations).Create(q).Error; err != nil {
		return wrapUnique(err, "create question")
	}

	switch q.Type {
	case model.QuestionMCQ:
		for i := range q.Options {
			q.Options[i].QuestionID = q.ID
			if q.Options[i].Position == 0 {
				q.Options[i].Position = i + 1
			}
		}
		if len(q.Options) > 0 {
			if err := tx.Create(&q.Options).Error; err != nil {
				return err
			}
		}
	case model.QuestionLikert:
		if q.Likert != nil {
			q.Likert.QuestionID = q.ID
			if err := tx.Create(q.Likert).Error; err != nil {
				return err
			}
		}
	case model.QuestionShort:
		if q.ShortAnswer != nil {
			q.ShortAnswer.QuestionID = q.ID
			if err := tx.Create(q.ShortAnswer).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertQuestion(tx, q)
	})
}

// NextOrder returns the first free position after the survey's last question.
func (r *QuestionRepository) NextOrder(ctx context.Context, surveyID uint) (int, error) {
	var last int
	err := r.DB.WithContext(ctx).
		Model(&model.Question{}).
		Select("COALESCE(MAX(position), 0)").
		Where("survey_id = ?", surveyID).
		Scan(&last).Error
	return last + 1, err
}

func preloadQuestionConfig(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Likert").
		Preload("ShortAnswer")
}

// ListBySurveys loads the questions of the given surveys together with their
// subtype config, in survey then position order.
func (r *QuestionRepository) ListBySurveys(ctx context.Context, surveyIDs []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(surveyIDs) == 0 {
		return questions, nil
	}
	err := preloadQuestionConfig(r.DB.WithContext(ctx)).
		Where("survey_id IN ?", surveyIDs).
		Order("survey_id ASC, position ASC").
		Find(&questions).Error
	return questions, err
}
