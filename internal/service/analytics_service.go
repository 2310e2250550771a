package service

import (
	"context"
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
	"gorm.io/gorm"
)

type AnalyticsService struct {
	surveyRepo    *repository.SurveyRepository
	questionRepo  *repository.QuestionRepository
	analyticsRepo *repository.AnalyticsRepository
	cache         cache.AnalyticsCache
	keywordLimit  int
	loc           *time.Location
	now           func() time.Time
}

func NewAnalyticsService(
	surveyRepo *repository.SurveyRepository,
	questionRepo *repository.QuestionRepository,
	analyticsRepo *repository.AnalyticsRepository,
	analyticsCache cache.AnalyticsCache,
	keywordLimit int,
	loc *time.Location,
) *AnalyticsService {
	if analyticsCache == nil {
		analyticsCache = cache.NewNoopAnalyticsCache()
	}
	if keywordLimit <= 0 {
		keywordLimit = DefaultKeywordLimit
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{
		surveyRepo:    surveyRepo,
		questionRepo:  questionRepo,
		analyticsRepo: analyticsRepo,
		cache:         analyticsCache,
		keywordLimit:  keywordLimit,
		loc:           loc,
		now:           time.Now,
	}
}

// QuestionAnalytics aggregates every question of the teacher's surveys, or
// of one survey when surveyFilter is set. Stats are cached per survey.
func (s *AnalyticsService) QuestionAnalytics(ctx context.Context, teacherID uint, surveyFilter *uint) ([]model.QuestionStats, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AnalyticsService.QuestionAnalytics")
	defer span.End()

	var surveyIDs []uint
	if surveyFilter != nil {
		survey, err := s.surveyRepo.FindByID(ctx, *surveyFilter)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrSurveyNotFound
			}
			return nil, err
		}
		if survey.TeacherID != teacherID {
			return nil, util.ErrPermissionDenied
		}
		surveyIDs = []uint{survey.ID}
	} else {
		ids, err := s.surveyRepo.ListIDsByTeacher(ctx, teacherID)
		if err != nil {
			return nil, err
		}
		surveyIDs = ids
	}
	span.SetAttributes(attribute.Int("surveys", len(surveyIDs)))

	perSurvey := make(map[uint][]model.QuestionStats, len(surveyIDs))
	var missing []uint
	for _, id := range surveyIDs {
		stats, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			// 缓存不可用时直接回源
			logger.Log.Warn("Analytics cache read failed", zap.Uint("survey_id", id), zap.Error(err))
		}
		monitoring.RecordCacheLookup(ok)
		if ok {
			perSurvey[id] = stats
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		computed, err := s.compute(ctx, missing)
		if err != nil {
			tracing.Fail(span, err)
			return nil, err
		}
		for _, id := range missing {
			stats := computed[id]
			perSurvey[id] = stats
			if err := s.cache.Set(ctx, id, stats); err != nil {
				logger.Log.Warn("Analytics cache write failed", zap.Uint("survey_id", id), zap.Error(err))
			}
		}
	}

	result := []model.QuestionStats{}
	for _, id := range surveyIDs {
		result = append(result, perSurvey[id]...)
	}
	return result, nil
}

func (s *AnalyticsService) compute(ctx context.Context, surveyIDs []uint) (map[uint][]model.QuestionStats, error) {
	questions, err := s.questionRepo.ListBySurveys(ctx, surveyIDs)
	if err != nil {
		return nil, err
	}
	answers, err := s.analyticsRepo.ListSubmittedAnswers(ctx, surveyIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[uint][]model.QuestionStats, len(surveyIDs))
	for _, st := range aggregate(questions, answers, s.keywordLimit) {
		out[st.SurveyID] = append(out[st.SurveyID], st)
	}
	return out, nil
}

func (s *AnalyticsService) Overview(ctx context.Context, teacherID uint) (*model.SurveyOverview, error) {
	total, err := s.surveyRepo.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	active, err := s.surveyRepo.CountActiveByTeacher(ctx, teacherID, model.CalendarDate(s.now(), s.loc))
	if err != nil {
		return nil, err
	}
	submissions, err := s.analyticsRepo.CountSubmittedForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return &model.SurveyOverview{
		SurveysTotal:  total,
		ActiveSurveys: active,
		Submissions:   submissions,
	}, nil
}

// Aggregate builds per-question stats from submitted answers. Questions are
// reported in the order given and skipped when nobody answered them.
func Aggregate(questions []model.Question, answers []model.StudentAnswer) []model.QuestionStats {
	return aggregate(questions, answers, DefaultKeywordLimit)
}

func aggregate(questions []model.Question, answers []model.StudentAnswer, keywordLimit int) []model.QuestionStats {
	byQuestion := make(map[uint][]model.AnswerValue)
	for i := range answers {
		v, err := answers[i].Value()
		if err != nil {
			logger.Log.Warn("Skipping malformed answer", zap.Uint("answer_id", answers[i].ID), zap.Error(err))
			continue
		}
		byQuestion[answers[i].QuestionID] = append(byQuestion[answers[i].QuestionID], v)
	}

	stats := []model.QuestionStats{}
	for i := range questions {
		q := &questions[i]
		values := byQuestion[q.ID]
		if len(values) == 0 {
			continue
		}

		st := model.QuestionStats{
			QuestionID: q.ID,
			SurveyID:   q.SurveyID,
			Text:       q.Text,
			Type:       q.Type,
			Order:      q.Order,
		}

		switch q.Type {
		case model.QuestionMCQ:
			st.Distribution, st.ResponseCount = optionDistribution(q, values)
		case model.QuestionLikert:
			st.AgreementLevels, st.OutOfScale, st.ResponseCount = agreementLevels(values)
		case model.QuestionShort:
			var texts []string
			for _, v := range values {
				if t, ok := v.(model.TextAnswer); ok {
					texts = append(texts, t.Text)
				}
			}
			st.ResponseCount = len(texts)
			st.Sentiment = tallySentiment(texts)
			st.Keywords = topKeywords(texts, keywordLimit)
		default:
			continue
		}

		if st.ResponseCount == 0 {
			continue
		}
		stats = append(stats, st)
	}
	return stats
}

// optionDistribution lists every option of q, unchosen ones with a zero count.
func optionDistribution(q *model.Question, values []model.AnswerValue) ([]model.OptionCount, int) {
	dist := make([]model.OptionCount, len(q.Options))
	index := make(map[uint]int, len(q.Options))
	for i, o := range q.Options {
		dist[i] = model.OptionCount{OptionID: o.ID, Text: o.Text}
		index[o.ID] = i
	}

	responses := 0
	for _, v := range values {
		a, ok := v.(model.OptionAnswer)
		if !ok {
			continue
		}
		responses++
		if i, ok := index[a.OptionID]; ok {
			dist[i].Count++
		}
	}
	return dist, responses
}

// agreementLevels buckets values 1..5 under the fixed labels. Anything else
// is counted separately rather than dropped.
func agreementLevels(values []model.AnswerValue) ([]model.LevelCount, int, int) {
	levels := make([]model.LevelCount, len(likertLabels))
	for i, label := range likertLabels {
		levels[i] = model.LevelCount{Value: i + 1, Label: label}
	}

	outOfScale, responses := 0, 0
	for _, v := range values {
		a, ok := v.(model.LikertAnswer)
		if !ok {
			continue
		}
		responses++
		if a.Value < 1 || a.Value > len(likertLabels) {
			outOfScale++
			continue
		}
		levels[a.Value-1].Count++
	}
	return levels, outOfScale, responses
}
