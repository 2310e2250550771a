package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"surveylyze_backend/internal/cache"
	"surveylyze_backend/internal/config"
	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/repository"
	"surveylyze_backend/pkg/database"

	"gorm.io/gorm"
)

// testNow is 09:00 on 2026-05-10 UTC; every service in a fixture sees it.
var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	clock time.Time

	users     *repository.UserRepository
	sections  *repository.ClassSectionRepository
	histories *repository.HistoryRepository

	userSvc       *UserService
	sectionSvc    *SectionService
	surveySvc     *SurveyService
	visibilitySvc *VisibilityService
	submissionSvc *SubmissionService
	analyticsSvc  *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{db: db, clock: testNow}

	f.users = repository.NewUserRepository(db)
	f.sections = repository.NewClassSectionRepository(db)
	f.histories = repository.NewHistoryRepository(db)
	surveys := repository.NewSurveyRepository(db)
	questions := repository.NewQuestionRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	analytics := repository.NewAnalyticsRepository(db)

	now := func() time.Time { return f.clock }

	f.userSvc = NewUserService(f.users)
	f.sectionSvc = NewSectionService(f.sections, f.users)
	f.surveySvc = NewSurveyService(surveys, questions, assignments, f.sections, time.UTC)
	f.surveySvc.now = now
	f.visibilitySvc = NewVisibilityService(f.users, surveys, f.histories, time.UTC)
	f.visibilitySvc.now = now
	f.submissionSvc = NewSubmissionService(f.users, surveys, f.histories, f.visibilitySvc, cache.NewNoopAnalyticsCache())
	f.submissionSvc.now = now
	f.analyticsSvc = NewAnalyticsService(surveys, questions, analytics, cache.NewNoopAnalyticsCache(), 0, time.UTC)
	f.analyticsSvc.now = now

	return f
}

// day returns the fixture's calendar date shifted by days.
func (f *fixture) day(days int) *time.Time {
	d := model.CalendarDate(f.clock, time.UTC).AddDate(0, 0, days)
	return &d
}

var nextUserID uint = 1000

func (f *fixture) teacher(t *testing.T) *model.Teacher {
	t.Helper()
	nextUserID++
	teacher := &model.Teacher{UserID: nextUserID, DisplayName: "Ms. Reyes"}
	if err := f.users.CreateTeacher(context.Background(), teacher); err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	return teacher
}

func (f *fixture) section(t *testing.T, code string) *model.ClassSection {
	t.Helper()
	section, err := f.sectionSvc.CreateSection(context.Background(), SectionInput{Name: "Grade 10 " + code, Code: code, YearLevel: 10})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	return section
}

func (f *fixture) student(t *testing.T, section *model.ClassSection) *model.Student {
	t.Helper()
	nextUserID++
	student := &model.Student{UserID: nextUserID, FirstName: "Ana", LastName: "Cruz"}
	if section != nil {
		student.ClassSectionID = &section.ID
	}
	if err := f.users.CreateStudent(context.Background(), student); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return student
}

// survey creates a published survey with one question of each type,
// assigned to the given sections.
func (f *fixture) survey(t *testing.T, teacher *model.Teacher, title string, due *time.Time, sections ...*model.ClassSection) *model.Survey {
	t.Helper()
	var ids []uint
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	survey, err := f.surveySvc.CreateSurvey(context.Background(), teacher.ID, CreateSurveyInput{
		Title:      title,
		DueDate:    due,
		Publish:    true,
		SectionIDs: ids,
		Questions: []QuestionInput{
			{Text: "Favourite topic?", Type: "MCQ", Options: []string{"Algebra", "Geometry", "Statistics"}},
			{Text: "The pacing was right", Type: "LIKERT"},
			{Text: "Any comments?", Type: "SHORT", MaxLength: intPtr(40)},
		},
	})
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	return survey
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func optionRaw(q model.Question, i int) *string {
	return strPtr(strconv.FormatUint(uint64(q.Options[i].ID), 10))
}
