package repository

import (
	"context"
	"errors"

	"surveylyze_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) HasSubmitted(ctx context.Context, surveyID, studentID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.SurveyHistory{}).
		Where("survey_id = ? AND student_id = ? AND status = ?", surveyID, studentID, model.HistorySubmitted).
		Count(&n).Error
	return n > 0, err
}

// CreateSubmitted writes a submitted attempt and its answers atomically.
// A second submitted attempt for the same (survey, student) is rejected by
// the unique index and reported as ErrDuplicateKey, with nothing written.
func (r *HistoryRepository) CreateSubmitted(ctx context.Context, history *model.SurveyHistory, answers []model.StudentAnswer) error {
	if !history.IsSubmitted() {
		return errors.New("history must be marked submitted before it is stored")
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(history).Error; err != nil {
			return wrapUnique(err, "create submitted history")
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].HistoryID = history.ID
		}
		if err := tx.Create(&answers).Error; err != nil {
			return wrapUnique(err, "create student answers")
		}
		history.Answers = answers
		return nil
	})
}

func (r *HistoryRepository) CreateDraft(ctx context.Context, history *model.SurveyHistory) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(history).Error
}

// FindDraft returns the student's most recent draft for the survey.
func (r *HistoryRepository) FindDraft(ctx context.Context, surveyID, studentID uint) (*model.SurveyHistory, error) {
	var history model.SurveyHistory
	err := r.DB.WithContext(ctx).
		Where("survey_id = ? AND student_id = ? AND status = ?", surveyID, studentID, model.HistoryDraft).
		Order("started_at DESC, id DESC").
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *HistoryRepository) FindSubmitted(ctx context.Context, surveyID, studentID uint) (*model.SurveyHistory, error) {
	var history model.SurveyHistory
	err := r.DB.WithContext(ctx).
		Preload("Answers").
		Where("survey_id = ? AND student_id = ? AND status = ?", surveyID, studentID, model.HistorySubmitted).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}
