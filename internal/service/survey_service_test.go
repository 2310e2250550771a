package service

import (
	"context"
	"errors"
	"testing"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/util"
)

func TestCreateSurveyRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teacher := f.teacher(t)
	section := f.section(t, "8-A")

	tests := []struct {
		name string
		in   CreateSurveyInput
		want error
	}{
		{
			name: "empty title",
			in:   CreateSurveyInput{Title: "  "},
			want: model.ErrInvalidConfiguration,
		},
		{
			name: "unsupported type",
			in:   CreateSurveyInput{Title: "T", Questions: []QuestionInput{{Text: "Rank these", Type: "ranking"}}},
			want: model.ErrUnsupportedQuestionType,
		},
		{
			name: "mcq without options",
			in:   CreateSurveyInput{Title: "T", Questions: []QuestionInput{{Text: "Pick", Type: "MCQ"}}},
			want: model.ErrInvalidConfiguration,
		},
		{
			name: "likert min above max",
			in: CreateSurveyInput{Title: "T", Questions: []QuestionInput{
				{Text: "Rate", Type: "LIKERT", Likert: &LikertInput{ScaleMin: 5, ScaleMax: 1, Step: 1}},
			}},
			want: model.ErrInvalidConfiguration,
		},
		{
			name: "short with zero limit",
			in:   CreateSurveyInput{Title: "T", Questions: []QuestionInput{{Text: "Say", Type: "SHORT", MaxLength: intPtr(0)}}},
			want: model.ErrInvalidConfiguration,
		},
		{
			name: "duplicate order",
			in: CreateSurveyInput{Title: "T", Questions: []QuestionInput{
				{Text: "A", Type: "SHORT", Order: 2},
				{Text: "B", Type: "SHORT", Order: 2},
			}},
			want: util.ErrDuplicateOrder,
		},
		{
			name: "past due with sections",
			in:   CreateSurveyInput{Title: "T", DueDate: f.day(-1), SectionIDs: []uint{section.ID}},
			want: util.ErrNotAssignable,
		},
		{
			name: "unknown section",
			in:   CreateSurveyInput{Title: "T", SectionIDs: []uint{9999}},
			want: util.ErrSectionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.surveySvc.CreateSurvey(ctx, teacher.ID, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	// nothing from the failed calls was stored
	surveys, err := f.surveySvc.ListSurveys(ctx, teacher.ID)
	if err != nil || len(surveys) != 0 {
		t.Fatalf("surveys = %+v, %v", surveys, err)
	}
}

func TestCreateSurveyDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teacher := f.teacher(t)

	survey, err := f.surveySvc.CreateSurvey(ctx, teacher.ID, CreateSurveyInput{
		Title: "Defaults",
		Questions: []QuestionInput{
			{Text: "Rate", Type: "likert_scale"},
			{Text: "Explain", Type: "paragraph"},
		},
	})
	if err != nil {
		t.Fatalf("CreateSurvey: %v", err)
	}
	if survey.Status != model.SurveyDraft || survey.PublishedAt != nil {
		t.Fatalf("status = %s publishedAt = %v", survey.Status, survey.PublishedAt)
	}

	loaded, err := f.surveySvc.GetSurvey(ctx, teacher.ID, survey.ID)
	if err != nil {
		t.Fatalf("GetSurvey: %v", err)
	}
	likert, short := loaded.Questions[0], loaded.Questions[1]
	if likert.Order != 1 || likert.Likert == nil || likert.Likert.ScaleMin != 1 || likert.Likert.ScaleMax != 5 || likert.Likert.Step != 1 {
		t.Fatalf("likert = %+v / %+v", likert, likert.Likert)
	}
	if short.Order != 2 || short.ShortAnswer == nil || short.ShortAnswer.MaxLength != model.DefaultShortAnswerSize {
		t.Fatalf("short = %+v / %+v", short, short.ShortAnswer)
	}
}

func TestAddQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teacher := f.teacher(t)
	other := f.teacher(t)
	survey := f.survey(t, teacher, "Growing", nil)

	q, err := f.surveySvc.AddQuestion(ctx, teacher.ID, survey.ID, QuestionInput{
		Text: "Which day?", Type: "MCQ", Options: []string{"Mon", "Fri"},
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if q.Order != 4 || len(q.Options) != 2 || q.Options[1].Position != 2 {
		t.Fatalf("question = %+v", q)
	}

	_, err = f.surveySvc.AddQuestion(ctx, teacher.ID, survey.ID, QuestionInput{Text: "Again", Type: "SHORT", Order: 4})
	if !errors.Is(err, util.ErrDuplicateOrder) {
		t.Fatalf("reused order: got %v", err)
	}

	_, err = f.surveySvc.AddQuestion(ctx, other.ID, survey.ID, QuestionInput{Text: "Mine?", Type: "SHORT"})
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("other teacher: got %v", err)
	}

	if _, err := f.surveySvc.Close(ctx, teacher.ID, survey.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err = f.surveySvc.AddQuestion(ctx, teacher.ID, survey.ID, QuestionInput{Text: "Late", Type: "SHORT"})
	if !errors.Is(err, util.ErrSurveyClosed) {
		t.Fatalf("closed survey: got %v", err)
	}
}

func TestSurveyLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teacher := f.teacher(t)

	survey, err := f.surveySvc.CreateSurvey(ctx, teacher.ID, CreateSurveyInput{Title: "Lifecycle"})
	if err != nil {
		t.Fatalf("CreateSurvey: %v", err)
	}

	published, err := f.surveySvc.Publish(ctx, teacher.ID, survey.ID)
	if err != nil || published.Status != model.SurveyPublished || published.PublishedAt == nil {
		t.Fatalf("publish = %+v, %v", published, err)
	}
	if _, err := f.surveySvc.Publish(ctx, teacher.ID, survey.ID); !errors.Is(err, util.ErrInvalidStatusChange) {
		t.Fatalf("publish twice: got %v", err)
	}

	closed, err := f.surveySvc.Close(ctx, teacher.ID, survey.ID)
	if err != nil || closed.Status != model.SurveyClosed || closed.ClosedAt == nil {
		t.Fatalf("close = %+v, %v", closed, err)
	}
	if _, err := f.surveySvc.Publish(ctx, teacher.ID, survey.ID); !errors.Is(err, util.ErrInvalidStatusChange) {
		t.Fatalf("reopen: got %v", err)
	}

	summaries, err := f.surveySvc.ListSurveys(ctx, teacher.ID)
	if err != nil || len(summaries) != 1 || summaries[0].Status != model.SurveyClosed {
		t.Fatalf("summaries = %+v, %v", summaries, err)
	}
}

func TestAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teacher := f.teacher(t)
	a := f.section(t, "7-A")
	b := f.section(t, "7-B")
	survey := f.survey(t, teacher, "Assign me", nil, a)

	if _, err := f.surveySvc.Assign(ctx, teacher.ID, survey.ID, a.ID); !errors.Is(err, util.ErrDuplicateAssignment) {
		t.Fatalf("duplicate assign: got %v", err)
	}
	if _, err := f.surveySvc.Assign(ctx, teacher.ID, survey.ID, b.ID); err != nil {
		t.Fatalf("assign b: %v", err)
	}
	if _, err := f.surveySvc.Assign(ctx, teacher.ID, survey.ID, 9999); !errors.Is(err, util.ErrSectionNotFound) {
		t.Fatalf("unknown section: got %v", err)
	}

	list, err := f.surveySvc.ListAssignments(ctx, teacher.ID, survey.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("assignments = %+v, %v", list, err)
	}

	if err := f.surveySvc.Unassign(ctx, teacher.ID, survey.ID, a.ID); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if err := f.surveySvc.Unassign(ctx, teacher.ID, survey.ID, a.ID); !errors.Is(err, util.ErrAssignmentNotFound) {
		t.Fatalf("unassign twice: got %v", err)
	}

	if _, err := f.surveySvc.Close(ctx, teacher.ID, survey.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.surveySvc.Assign(ctx, teacher.ID, survey.ID, a.ID); !errors.Is(err, util.ErrNotAssignable) {
		t.Fatalf("assign closed: got %v", err)
	}
}

func TestSectionsAndProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	section, err := f.sectionSvc.CreateSection(ctx, SectionInput{Name: "Grade 7 Sampaguita", Code: "g7-s"})
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if section.Code != "G7-S" || section.YearLevel != 1 {
		t.Fatalf("section = %+v", section)
	}
	if _, err := f.sectionSvc.CreateSection(ctx, SectionInput{Name: "Copy", Code: "G7-S"}); !errors.Is(err, util.ErrSectionCodeDuplicate) {
		t.Fatalf("duplicate code: got %v", err)
	}

	student, err := f.userSvc.CreateStudentProfile(ctx, 501, StudentProfileInput{FirstName: "Jose", LastName: "Rizal"})
	if err != nil {
		t.Fatalf("CreateStudentProfile: %v", err)
	}
	if _, err := f.userSvc.CreateStudentProfile(ctx, 501, StudentProfileInput{FirstName: "J", LastName: "R"}); !errors.Is(err, util.ErrProfileExists) {
		t.Fatalf("second profile: got %v", err)
	}

	if err := f.sectionSvc.EnrollStudent(ctx, student.ID, section.ID); err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}
	resolved, err := f.userSvc.ResolveStudent(ctx, 501)
	if err != nil || resolved.ClassSectionID == nil || *resolved.ClassSectionID != section.ID {
		t.Fatalf("resolved = %+v, %v", resolved, err)
	}

	if err := f.sectionSvc.EnrollStudent(ctx, 9999, section.ID); !errors.Is(err, util.ErrStudentNotFound) {
		t.Fatalf("unknown student: got %v", err)
	}
	if err := f.sectionSvc.EnrollStudent(ctx, student.ID, 9999); !errors.Is(err, util.ErrSectionNotFound) {
		t.Fatalf("unknown section: got %v", err)
	}
	if _, err := f.userSvc.ResolveTeacher(ctx, 501); !errors.Is(err, util.ErrTeacherNotFound) {
		t.Fatalf("student resolved as teacher: got %v", err)
	}
}
