package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/repository"
	"surveylyze_backend/internal/util"
	"surveylyze_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SurveyService covers the teacher side: building, publishing and assigning
// surveys. Every method takes the acting teacher's id explicitly.
type SurveyService struct {
	surveyRepo     *repository.SurveyRepository
	questionRepo   *repository.QuestionRepository
	assignmentRepo *repository.AssignmentRepository
	sectionRepo    *repository.ClassSectionRepository
	loc            *time.Location
	now            func() time.Time
}

func NewSurveyService(
	surveyRepo *repository.SurveyRepository,
	questionRepo *repository.QuestionRepository,
	assignmentRepo *repository.AssignmentRepository,
	sectionRepo *repository.ClassSectionRepository,
	loc *time.Location,
) *SurveyService {
	if loc == nil {
		loc = time.UTC
	}
	return &SurveyService{
		surveyRepo:     surveyRepo,
		questionRepo:   questionRepo,
		assignmentRepo: assignmentRepo,
		sectionRepo:    sectionRepo,
		loc:            loc,
		now:            time.Now,
	}
}

type LikertInput struct {
	ScaleMin int `json:"scaleMin"`
	ScaleMax int `json:"scaleMax"`
	Step     int `json:"step"`
}

type QuestionInput struct {
	Text      string       `json:"text" binding:"required"`
	Type      string       `json:"type" binding:"required"`
	Order     int          `json:"order"`
	Options   []string     `json:"options"`
	Likert    *LikertInput `json:"likert"`
	MaxLength *int         `json:"maxLength"`
}

type CreateSurveyInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Publish     bool
	SectionIDs  []uint
	Questions   []QuestionInput
}

// buildQuestion turns builder input into a question with its config. LIKERT
// without settings gets the 1..5 scale, SHORT without a limit gets 500.
func buildQuestion(in QuestionInput, order int) (*model.Question, error) {
	qt, err := model.ParseQuestionType(in.Type)
	if err != nil {
		return nil, err
	}

	q := &model.Question{
		Text:  strings.TrimSpace(in.Text),
		Type:  qt,
		Order: order,
	}

	switch qt {
	case model.QuestionMCQ:
		for i, text := range in.Options {
			q.Options = append(q.Options, model.MCQOption{
				Text:     strings.TrimSpace(text),
				Position: i + 1,
			})
		}
	case model.QuestionLikert:
		q.Likert = &model.LikertQuestion{
			ScaleMin: model.DefaultLikertMin,
			ScaleMax: model.DefaultLikertMax,
			Step:     model.DefaultLikertStep,
		}
		if in.Likert != nil {
			q.Likert.ScaleMin = in.Likert.ScaleMin
			q.Likert.ScaleMax = in.Likert.ScaleMax
			q.Likert.Step = in.Likert.Step
		}
	case model.QuestionShort:
		q.ShortAnswer = &model.ShortAnswerQuestion{MaxLength: model.DefaultShortAnswerSize}
		if in.MaxLength != nil {
			q.ShortAnswer.MaxLength = *in.MaxLength
		}
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SurveyService) today() time.Time {
	return model.CalendarDate(s.now(), s.loc)
}

func (s *SurveyService) requireSections(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		if _, err := s.sectionRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrSectionNotFound
			}
			return err
		}
	}
	return nil
}

func (s *SurveyService) CreateSurvey(ctx context.Context, teacherID uint, in CreateSurveyInput) (*model.Survey, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &model.ConfigurationError{Field: "title", Reason: "must not be empty"}
	}

	survey := &model.Survey{
		TeacherID:   teacherID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      model.SurveyDraft,
		DueDate:     in.DueDate,
	}
	if in.Publish {
		now := s.now()
		survey.Status = model.SurveyPublished
		survey.PublishedAt = &now
	}

	usedOrders := make(map[int]bool, len(in.Questions))
	for i, qi := range in.Questions {
		order := qi.Order
		if order == 0 {
			order = i + 1
		}
		if usedOrders[order] {
			return nil, util.ErrDuplicateOrder
		}
		usedOrders[order] = true

		q, err := buildQuestion(qi, order)
		if err != nil {
			return nil, err
		}
		survey.Questions = append(survey.Questions, *q)
	}

	sectionIDs := uniqueIDs(in.SectionIDs)
	if len(sectionIDs) > 0 {
		if survey.IsExpired(s.today()) {
			return nil, util.ErrNotAssignable
		}
		if err := s.requireSections(ctx, sectionIDs); err != nil {
			return nil, err
		}
	}

	if err := s.surveyRepo.Create(ctx, survey, sectionIDs, s.now()); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.ErrDuplicateOrder
		}
		return nil, err
	}

	logger.Log.Info("Survey created",
		zap.Uint("survey_id", survey.ID),
		zap.Uint("teacher_id", teacherID),
		zap.Int("questions", len(survey.Questions)),
		zap.String("status", string(survey.Status)),
	)
	return survey, nil
}

// ownedSurvey loads a survey and checks it belongs to teacherID.
func (s *SurveyService) ownedSurvey(ctx context.Context, teacherID, surveyID uint) (*model.Survey, error) {
	survey, err := s.surveyRepo.FindByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSurveyNotFound
		}
		return nil, err
	}
	if survey.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	return survey, nil
}

func (s *SurveyService) AddQuestion(ctx context.Context, teacherID, surveyID uint, in QuestionInput) (*model.Question, error) {
	survey, err := s.ownedSurvey(ctx, teacherID, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status == model.SurveyClosed {
		return nil, util.ErrSurveyClosed
	}

	order := in.Order
	if order == 0 {
		if order, err = s.questionRepo.NextOrder(ctx, survey.ID); err != nil {
			return nil, err
		}
	}

	q, err := buildQuestion(in, order)
	if err != nil {
		return nil, err
	}
	q.SurveyID = survey.ID

	if err := s.questionRepo.Create(ctx, q); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.ErrDuplicateOrder
		}
		return nil, err
	}
	return q, nil
}

func (s *SurveyService) GetSurvey(ctx context.Context, teacherID, surveyID uint) (*model.Survey, error) {
	if _, err := s.ownedSurvey(ctx, teacherID, surveyID); err != nil {
		return nil, err
	}
	return s.surveyRepo.FindWithQuestions(ctx, surveyID)
}

func (s *SurveyService) ListSurveys(ctx context.Context, teacherID uint) ([]model.SurveySummary, error) {
	return s.surveyRepo.ListByTeacher(ctx, teacherID)
}

func (s *SurveyService) Publish(ctx context.Context, teacherID, surveyID uint) (*model.Survey, error) {
	return s.transition(ctx, teacherID, surveyID, model.SurveyPublished)
}

func (s *SurveyService) Close(ctx context.Context, teacherID, surveyID uint) (*model.Survey, error) {
	return s.transition(ctx, teacherID, surveyID, model.SurveyClosed)
}

func (s *SurveyService) transition(ctx context.Context, teacherID, surveyID uint, next model.SurveyStatus) (*model.Survey, error) {
	survey, err := s.ownedSurvey(ctx, teacherID, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.CanTransitionTo(next) {
		return nil, util.ErrInvalidStatusChange
	}

	now := s.now()
	survey.Status = next
	switch next {
	case model.SurveyPublished:
		survey.PublishedAt = &now
	case model.SurveyClosed:
		survey.ClosedAt = &now
	}

	if err := s.surveyRepo.UpdateStatus(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Assign links a survey to a section. Closed and past-due surveys cannot
// take new assignments.
func (s *SurveyService) Assign(ctx context.Context, teacherID, surveyID, sectionID uint) (*model.SurveyAssignment, error) {
	survey, err := s.ownedSurvey(ctx, teacherID, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status == model.SurveyClosed || survey.IsExpired(s.today()) {
		return nil, util.ErrNotAssignable
	}
	if err := s.requireSections(ctx, []uint{sectionID}); err != nil {
		return nil, err
	}

	a := &model.SurveyAssignment{
		SurveyID:       survey.ID,
		ClassSectionID: sectionID,
		AssignedAt:     s.now(),
	}
	if err := s.assignmentRepo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.ErrDuplicateAssignment
		}
		return nil, err
	}
	return a, nil
}

func (s *SurveyService) Unassign(ctx context.Context, teacherID, surveyID, sectionID uint) error {
	if _, err := s.ownedSurvey(ctx, teacherID, surveyID); err != nil {
		return err
	}
	n, err := s.assignmentRepo.Delete(ctx, surveyID, sectionID)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrAssignmentNotFound
	}
	return nil
}

func (s *SurveyService) ListAssignments(ctx context.Context, teacherID, surveyID uint) ([]model.SurveyAssignment, error) {
	if _, err := s.ownedSurvey(ctx, teacherID, surveyID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListBySurvey(ctx, surveyID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
