package repository

import (
	"context"

	"surveylyze_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// Create fails with ErrDuplicateKey when the pair already exists.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.SurveyAssignment) error {
	return wrapUnique(r.DB.WithContext(ctx).Create(a).Error, "create survey assignment")
}

func (r *AssignmentRepository) Delete(ctx context.Context, surveyID, sectionID uint) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("survey_id = ? AND class_section_id = ?", surveyID, sectionID).
		Delete(&model.SurveyAssignment{})
	return res.RowsAffected, res.Error
}

func (r *AssignmentRepository) ListBySurvey(ctx context.Context, surveyID uint) ([]model.SurveyAssignment, error) {
	var assignments []model.SurveyAssignment
	err := r.DB.WithContext(ctx).
		Preload("ClassSection").
		Where("survey_id = ?", surveyID).
		Order("assigned_at ASC, id ASC").
		Find(&assignments).Error
	return assignments, err
}
