package repository

import (
	"context"
	"time"

	"surveylyze_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

// Create stores the survey, its questions with their config and the initial
// section assignments in one transaction.
func (r *SurveyRepository) Create(ctx context.Context, survey *model.Survey, sectionIDs []uint, assignedAt time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(survey).Error; err != nil {
			return err
		}

		for i := range survey.Questions {
			survey.Questions[i].SurveyID = survey.ID
			if err := insertQuestion(tx, &survey.Questions[i]); err != nil {
				return err
			}
		}

		for _, sectionID := range sectionIDs {
			a := model.SurveyAssignment{
				SurveyID:       survey.ID,
				ClassSectionID: sectionID,
				AssignedAt:     assignedAt,
			}
			if err := tx.Create(&a).Error; err != nil {
				return wrapUnique(err, "create survey assignment")
			}
			survey.Assignments = append(survey.Assignments, a)
		}
		return nil
	})
}

func (r *SurveyRepository) FindByID(ctx context.Context, id uint) (*model.Survey, error) {
	var survey model.Survey
	err := r.DB.WithContext(ctx).First(&survey, id).Error
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// FindWithQuestions loads the survey with ordered questions, their config and
// the assigned sections.
func (r *SurveyRepository) FindWithQuestions(ctx context.Context, id uint) (*model.Survey, error) {
	var survey model.Survey
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return preloadQuestionConfig(db).Order("position ASC")
		}).
		Preload("Assignments.ClassSection").
		First(&survey, id).Error
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *SurveyRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]model.SurveySummary, error) {
	var rows []model.SurveySummary
	err := r.DB.WithContext(ctx).
		Model(&model.Survey{}).
		Select(`surveys.*,
			(SELECT COUNT(*) FROM questions q WHERE q.survey_id = surveys.id) AS question_count,
			(SELECT COUNT(*) FROM survey_histories h WHERE h.survey_id = surveys.id AND h.status = ?) AS submission_count`,
			model.HistorySubmitted).
		Where("surveys.teacher_id = ?", teacherID).
		Order("surveys.created_at DESC, surveys.id DESC").
		Scan(&rows).Error
	return rows, err
}

// UpdateStatus persists a lifecycle change together with its timestamps.
func (r *SurveyRepository) UpdateStatus(ctx context.Context, survey *model.Survey) error {
	return r.DB.WithContext(ctx).
		Model(survey).
		Select("status", "published_at", "closed_at").
		Updates(survey).Error
}

func (r *SurveyRepository) ListIDsByTeacher(ctx context.Context, teacherID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.Survey{}).
		Where("teacher_id = ?", teacherID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *SurveyRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.Survey{}).
		Where("teacher_id = ?", teacherID).
		Count(&n).Error
	return n, err
}

// CountActiveByTeacher counts published surveys that are not past due.
func (r *SurveyRepository) CountActiveByTeacher(ctx context.Context, teacherID uint, today time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.Survey{}).
		Where("teacher_id = ? AND status = ?", teacherID, model.SurveyPublished).
		Where("(due_date IS NULL OR due_date >= ?)", today).
		Count(&n).Error
	return n, err
}

// openForSection is the shared visibility rule: published, not past due and
// assigned to the section.
func openForSection(db *gorm.DB, sectionID uint, today time.Time) *gorm.DB {
	return db.
		Joins("JOIN survey_assignments sa ON sa.survey_id = surveys.id").
		Where("sa.class_section_id = ?", sectionID).
		Where("surveys.status = ?", model.SurveyPublished).
		Where("(surveys.due_date IS NULL OR surveys.due_date >= ?)", today)
}

// ListVisibleForStudent returns the surveys the student can still answer,
// due date first (undated last), then title, then id.
func (r *SurveyRepository) ListVisibleForStudent(ctx context.Context, studentID, sectionID uint, today time.Time) ([]model.Survey, error) {
	var surveys []model.Survey
	err := openForSection(r.DB.WithContext(ctx).Model(&model.Survey{}), sectionID, today).
		Select("surveys.*").
		Where(`NOT EXISTS (SELECT 1 FROM survey_histories h
			WHERE h.survey_id = surveys.id AND h.student_id = ? AND h.status = ?)`,
			studentID, model.HistorySubmitted).
		Order("CASE WHEN surveys.due_date IS NULL THEN 1 ELSE 0 END").
		Order("surveys.due_date ASC").
		Order("surveys.title ASC").
		Order("surveys.id ASC").
		Find(&surveys).Error
	return surveys, err
}

// IsOpenForSection applies the same rule to a single survey.
func (r *SurveyRepository) IsOpenForSection(ctx context.Context, surveyID, sectionID uint, today time.Time) (bool, error) {
	var n int64
	err := openForSection(r.DB.WithContext(ctx).Model(&model.Survey{}), sectionID, today).
		Where("surveys.id = ?", surveyID).
		Count(&n).Error
	return n > 0, err
}
