package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"surveylyze_backend/internal/cache"
	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/repository"
	"surveylyze_backend/internal/util"
	"surveylyze_backend/pkg/logger"
	"surveylyze_backend/pkg/monitoring"
	"surveylyze_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerInput is one submitted answer. A nil Value means the question was
// skipped.
type AnswerInput struct {
	QuestionID uint
	Value      *string
}

type SubmissionResult struct {
	History  *model.SurveyHistory `json:"history"`
	Accepted int                  `json:"accepted"`
	Rejected []ValidationFailure  `json:"rejected"`
}

type SubmissionService struct {
	userRepo    *repository.UserRepository
	surveyRepo  *repository.SurveyRepository
	historyRepo *repository.HistoryRepository
	visibility  *VisibilityService
	cache       cache.AnalyticsCache
	now         func() time.Time
}

func NewSubmissionService(
	userRepo *repository.UserRepository,
	surveyRepo *repository.SurveyRepository,
	historyRepo *repository.HistoryRepository,
	visibility *VisibilityService,
	analyticsCache cache.AnalyticsCache,
) *SubmissionService {
	if analyticsCache == nil {
		analyticsCache = cache.NewNoopAnalyticsCache()
	}
	return &SubmissionService{
		userRepo:    userRepo,
		surveyRepo:  surveyRepo,
		historyRepo: historyRepo,
		visibility:  visibility,
		cache:       analyticsCache,
		now:         time.Now,
	}
}

// admit runs the checks shared by Submit and StartDraft. A student who has
// already submitted gets ErrAlreadySubmitted even if the survey has since
// expired or been closed.
func (s *SubmissionService) admit(ctx context.Context, studentID, surveyID uint) (*model.Student, *model.Survey, error) {
	student, err := s.userRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrStudentNotFound
		}
		return nil, nil, err
	}

	survey, err := s.surveyRepo.FindWithQuestions(ctx, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrSurveyNotFound
		}
		return nil, nil, err
	}

	submitted, err := s.historyRepo.HasSubmitted(ctx, survey.ID, student.ID)
	if err != nil {
		return nil, nil, err
	}
	if submitted {
		return nil, nil, util.ErrAlreadySubmitted
	}

	eligible, err := s.visibility.IsEligible(ctx, student, survey.ID)
	if err != nil {
		return nil, nil, err
	}
	if !eligible {
		return nil, nil, util.ErrNotEligible
	}
	return student, survey, nil
}

// Submit records one student's completed attempt at a survey. Invalid
// answers are dropped and reported in the result; the rest are stored
// together with the attempt in a single transaction.
func (s *SubmissionService) Submit(ctx context.Context, studentID, surveyID uint, inputs []AnswerInput) (*SubmissionResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SubmissionService.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("survey.id", int64(surveyID)),
		attribute.Int64("student.id", int64(studentID)),
	)

	student, survey, err := s.admit(ctx, studentID, surveyID)
	if err != nil {
		s.recordOutcome(err)
		if !isDomainRejection(err) {
			tracing.Fail(span, err)
		}
		return nil, err
	}

	now := s.now()
	history := model.NewDraftHistory(survey.ID, student.ID, now)
	if err := history.MarkSubmitted(now); err != nil {
		return nil, err
	}

	answers, rejected := collectAnswers(survey.Questions, inputs)
	if len(rejected) > 0 {
		raw, err := json.Marshal(rejected)
		if err != nil {
			return nil, err
		}
		history.Rejections = datatypes.JSON(raw)
	}

	if err := s.historyRepo.CreateSubmitted(ctx, history, answers); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// lost the race against a concurrent submission
			monitoring.RecordSubmission(monitoring.OutcomeAlreadySubmitted)
			return nil, util.ErrAlreadySubmitted
		}
		monitoring.RecordSubmission(monitoring.OutcomeError)
		tracing.Fail(span, err)
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, survey.ID); err != nil {
		logger.Log.Warn("Failed to invalidate analytics cache",
			zap.Uint("survey_id", survey.ID),
			zap.Error(err),
		)
	}

	monitoring.RecordSubmission(monitoring.OutcomeAccepted)
	for _, f := range rejected {
		monitoring.RecordRejectedAnswer(string(f.Kind))
		logger.Log.Info("Answer rejected",
			zap.Uint("history_id", history.ID),
			zap.Uint("question_id", f.QuestionID),
			zap.String("kind", string(f.Kind)),
			zap.String("detail", f.Detail),
		)
	}
	span.SetAttributes(
		attribute.Int("answers.accepted", len(answers)),
		attribute.Int("answers.rejected", len(rejected)),
	)

	return &SubmissionResult{
		History:  history,
		Accepted: len(answers),
		Rejected: rejected,
	}, nil
}

// StartDraft opens (or resumes) an in-progress attempt. Drafts carry no
// answers and do not block a later submission.
func (s *SubmissionService) StartDraft(ctx context.Context, studentID, surveyID uint) (*model.SurveyHistory, error) {
	student, survey, err := s.admit(ctx, studentID, surveyID)
	if err != nil {
		return nil, err
	}

	draft, err := s.historyRepo.FindDraft(ctx, survey.ID, student.ID)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	draft = model.NewDraftHistory(survey.ID, student.ID, s.now())
	if err := s.historyRepo.CreateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// collectAnswers validates inputs in order. The first answer to a question
// is the one that counts; later ones are rejected as duplicates whether or
// not the first was valid.
func collectAnswers(questions []model.Question, inputs []AnswerInput) ([]model.StudentAnswer, []ValidationFailure) {
	byID := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	answers := make([]model.StudentAnswer, 0, len(inputs))
	rejected := []ValidationFailure{}
	seen := make(map[uint]bool, len(inputs))

	for _, in := range inputs {
		raw := ""
		if in.Value != nil {
			raw = *in.Value
		}
		if IsBlank(raw, in.Value != nil) {
			continue
		}

		q, ok := byID[in.QuestionID]
		if !ok {
			rejected = append(rejected, *reject(in.QuestionID, FailureUnknownQuestion, "not part of this survey"))
			continue
		}
		if seen[q.ID] {
			rejected = append(rejected, *reject(q.ID, FailureDuplicate, "question answered more than once"))
			continue
		}
		seen[q.ID] = true

		value, err := ValidateAnswer(q, raw)
		if err != nil {
			var failure *ValidationFailure
			if errors.As(err, &failure) {
				rejected = append(rejected, *failure)
				continue
			}
			rejected = append(rejected, *reject(q.ID, FailureUnsupportedType, "%v", err))
			continue
		}
		answers = append(answers, model.NewStudentAnswer(0, q.ID, value))
	}
	return answers, rejected
}

func isDomainRejection(err error) bool {
	return errors.Is(err, util.ErrAlreadySubmitted) ||
		errors.Is(err, util.ErrNotEligible) ||
		errors.Is(err, util.ErrStudentNotFound) ||
		errors.Is(err, util.ErrSurveyNotFound)
}

func (s *SubmissionService) recordOutcome(err error) {
	switch {
	case errors.Is(err, util.ErrAlreadySubmitted):
		monitoring.RecordSubmission(monitoring.OutcomeAlreadySubmitted)
	case errors.Is(err, util.ErrNotEligible):
		monitoring.RecordSubmission(monitoring.OutcomeNotEligible)
	case !isDomainRejection(err):
		monitoring.RecordSubmission(monitoring.OutcomeError)
	}
}
