package repository

import (
	"context"

	"surveylyze_backend/internal/model"

	"gorm.io/gorm"
)

// AnalyticsRepository holds the read queries behind the teacher analytics
// pages. Only answers belonging to submitted attempts are ever returned.
type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) ListSubmittedAnswers(ctx context.Context, surveyIDs []uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	if len(surveyIDs) == 0 {
		return answers, nil
	}
	err := r.DB.WithContext(ctx).
		Model(&model.StudentAnswer{}).
		Select("student_answers.*").
		Joins("JOIN survey_histories h ON h.id = student_answers.history_id").
		Where("h.survey_id IN ? AND h.status = ?", surveyIDs, model.HistorySubmitted).
		Order("student_answers.id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *AnalyticsRepository) CountSubmittedForTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.SurveyHistory{}).
		Joins("JOIN surveys s ON s.id = survey_histories.survey_id").
		Where("s.teacher_id = ? AND s.deleted_at IS NULL", teacherID).
		Where("survey_histories.status = ?", model.HistorySubmitted).
		Count(&n).Error
	return n, err
}
