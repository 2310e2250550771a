package service

import (
	"context"
	"errors"
	"time"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/repository"
	"surveylyze_backend/internal/util"

	"gorm.io/gorm"
)

// VisibilityService decides which surveys a student may see and answer.
// Results are computed from storage on every call.
type VisibilityService struct {
	userRepo    *repository.UserRepository
	surveyRepo  *repository.SurveyRepository
	historyRepo *repository.HistoryRepository
	loc         *time.Location
	now         func() time.Time
}

func NewVisibilityService(
	userRepo *repository.UserRepository,
	surveyRepo *repository.SurveyRepository,
	historyRepo *repository.HistoryRepository,
	loc *time.Location,
) *VisibilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &VisibilityService{
		userRepo:    userRepo,
		surveyRepo:  surveyRepo,
		historyRepo: historyRepo,
		loc:         loc,
		now:         time.Now,
	}
}

// Today is the current calendar date in the service timezone.
func (s *VisibilityService) Today() time.Time {
	return model.CalendarDate(s.now(), s.loc)
}

func (s *VisibilityService) loadStudent(ctx context.Context, studentID uint) (*model.Student, error) {
	student, err := s.userRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// VisibleSurveys lists the published, unexpired surveys assigned to the
// student's section that the student has not submitted yet.
func (s *VisibilityService) VisibleSurveys(ctx context.Context, studentID uint) ([]model.Survey, error) {
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.ClassSectionID == nil {
		return []model.Survey{}, nil
	}
	return s.surveyRepo.ListVisibleForStudent(ctx, student.ID, *student.ClassSectionID, s.Today())
}

// IsEligible applies the visibility rule to one survey, ignoring whether the
// student already submitted it.
func (s *VisibilityService) IsEligible(ctx context.Context, student *model.Student, surveyID uint) (bool, error) {
	if student.ClassSectionID == nil {
		return false, nil
	}
	return s.surveyRepo.IsOpenForSection(ctx, surveyID, *student.ClassSectionID, s.Today())
}

// OpenSurvey returns a survey with its questions for a student about to
// answer it.
func (s *VisibilityService) OpenSurvey(ctx context.Context, studentID, surveyID uint) (*model.Survey, error) {
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	submitted, err := s.historyRepo.HasSubmitted(ctx, surveyID, student.ID)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, util.ErrAlreadySubmitted
	}

	ok, err := s.IsEligible(ctx, student, surveyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrNotEligible
	}

	survey, err := s.surveyRepo.FindWithQuestions(ctx, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSurveyNotFound
		}
		return nil, err
	}
	// 学生端不暴露分班信息与正确答案
	survey.Assignments = nil
	for i := range survey.Questions {
		for j := range survey.Questions[i].Options {
			survey.Questions[i].Options[j].IsCorrect = false
		}
	}
	return survey, nil
}
