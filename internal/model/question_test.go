package model

import (
	"errors"
	"testing"
)

func TestLikertAccepts(t *testing.T) {
	tests := []struct {
		name  string
		scale LikertQuestion
		value int
		want  bool
	}{
		{"lower bound", LikertQuestion{ScaleMin: 1, ScaleMax: 5, Step: 1}, 1, true},
		{"upper bound", LikertQuestion{ScaleMin: 1, ScaleMax: 5, Step: 1}, 5, true},
		{"below", LikertQuestion{ScaleMin: 1, ScaleMax: 5, Step: 1}, 0, false},
		{"above", LikertQuestion{ScaleMin: 1, ScaleMax: 5, Step: 1}, 6, false},
		{"on step", LikertQuestion{ScaleMin: 0, ScaleMax: 10, Step: 2}, 4, true},
		{"off step", LikertQuestion{ScaleMin: 0, ScaleMax: 10, Step: 2}, 3, false},
		{"step from min", LikertQuestion{ScaleMin: 1, ScaleMax: 9, Step: 4}, 5, true},
		{"negative scale", LikertQuestion{ScaleMin: -2, ScaleMax: 2, Step: 1}, -2, true},
		{"zero step", LikertQuestion{ScaleMin: 1, ScaleMax: 5, Step: 0}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scale.Accepts(tt.value); got != tt.want {
				t.Fatalf("Accepts(%d) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr error
	}{
		{
			name: "mcq ok",
			q:    Question{Text: "Pick", Type: QuestionMCQ, Order: 1, Options: []MCQOption{{Text: "A"}}},
		},
		{
			name:    "mcq without options",
			q:       Question{Text: "Pick", Type: QuestionMCQ, Order: 1},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "mcq with likert settings",
			q:       Question{Text: "Pick", Type: QuestionMCQ, Order: 1, Options: []MCQOption{{Text: "A"}}, Likert: &LikertQuestion{ScaleMin: 1, ScaleMax: 5, Step: 1}},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "blank option",
			q:       Question{Text: "Pick", Type: QuestionMCQ, Order: 1, Options: []MCQOption{{Text: "  "}}},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "likert min not below max",
			q:       Question{Text: "Rate", Type: QuestionLikert, Order: 1, Likert: &LikertQuestion{ScaleMin: 5, ScaleMax: 5, Step: 1}},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "likert zero step",
			q:       Question{Text: "Rate", Type: QuestionLikert, Order: 1, Likert: &LikertQuestion{ScaleMin: 1, ScaleMax: 5}},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name: "likert without settings",
			q:    Question{Text: "Rate", Type: QuestionLikert, Order: 1},
		},
		{
			name:    "short with zero limit",
			q:       Question{Text: "Say", Type: QuestionShort, Order: 1, ShortAnswer: &ShortAnswerQuestion{}},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "short with options",
			q:       Question{Text: "Say", Type: QuestionShort, Order: 1, Options: []MCQOption{{Text: "A"}}},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "empty text",
			q:       Question{Text: " ", Type: QuestionShort, Order: 1},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "order not positive",
			q:       Question{Text: "Say", Type: QuestionShort},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "unknown type",
			q:       Question{Text: "Say", Type: "ESSAY", Order: 1},
			wantErr: ErrUnsupportedQuestionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseQuestionType(t *testing.T) {
	for in, want := range map[string]QuestionType{
		"MCQ":             QuestionMCQ,
		"multiple_choice": QuestionMCQ,
		" likert ":        QuestionLikert,
		"likert_scale":    QuestionLikert,
		"short_answer":    QuestionShort,
		"Paragraph":       QuestionShort,
	} {
		got, err := ParseQuestionType(in)
		if err != nil || got != want {
			t.Fatalf("ParseQuestionType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseQuestionType("checkbox"); !errors.Is(err, ErrUnsupportedQuestionType) {
		t.Fatalf("expected ErrUnsupportedQuestionType, got %v", err)
	}
}

func TestQuestionSpec(t *testing.T) {
	q := Question{Record: Record{ID: 7}, Type: QuestionLikert}
	spec, err := q.Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	ls, ok := spec.(LikertSpec)
	if !ok {
		t.Fatalf("expected LikertSpec, got %T", spec)
	}
	if ls.Scale.ScaleMin != 1 || ls.Scale.ScaleMax != 5 || ls.Scale.Step != 1 {
		t.Fatalf("default scale = %+v", ls.Scale)
	}

	short := Question{Type: QuestionShort, ShortAnswer: &ShortAnswerQuestion{MaxLength: 40}}
	spec, _ = short.Spec()
	if s, ok := spec.(ShortSpec); !ok || s.MaxLength != 40 {
		t.Fatalf("short spec = %#v", spec)
	}

	bad := Question{Type: "ESSAY"}
	if _, err := bad.Spec(); !errors.Is(err, ErrUnsupportedQuestionType) {
		t.Fatalf("expected ErrUnsupportedQuestionType, got %v", err)
	}
}

func TestFindOption(t *testing.T) {
	q := Question{Options: []MCQOption{
		{Record: Record{ID: 3}, Text: "A"},
		{Record: Record{ID: 4}, Text: "B"},
	}}
	if o, ok := q.FindOption(4); !ok || o.Text != "B" {
		t.Fatalf("FindOption(4) = %v, %v", o, ok)
	}
	if _, ok := q.FindOption(5); ok {
		t.Fatal("option 5 should not be found")
	}
}
