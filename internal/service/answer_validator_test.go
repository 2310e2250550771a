package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"surveylyze_backend/internal/model"
)

func likertQuestion(id uint, min, max, step int) *model.Question {
	return &model.Question{
		Record: model.Record{ID: id},
		Text:   "The session was useful",
		Type:   model.QuestionLikert,
		Order:  1,
		Likert: &model.LikertQuestion{ScaleMin: min, ScaleMax: max, Step: step},
	}
}

func failureKind(t *testing.T, err error) FailureKind {
	t.Helper()
	var f *ValidationFailure
	if !errors.As(err, &f) {
		t.Fatalf("expected *ValidationFailure, got %T (%v)", err, err)
	}
	return f.Kind
}

func TestValidateLikert(t *testing.T) {
	q := likertQuestion(1, 1, 5, 1)

	tests := []struct {
		raw      string
		want     int
		wantKind FailureKind
	}{
		{raw: "3", want: 3},
		{raw: " 5 ", want: 5},
		{raw: "6", wantKind: FailureOutOfRange},
		{raw: "0", wantKind: FailureOutOfRange},
		{raw: "abc", wantKind: FailureNotANumber},
		{raw: "3.5", wantKind: FailureNotANumber},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := ValidateAnswer(q, tt.raw)
			if tt.wantKind != "" {
				if kind := failureKind(t, err); kind != tt.wantKind {
					t.Fatalf("kind = %s, want %s", kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != (model.LikertAnswer{Value: tt.want}) {
				t.Fatalf("value = %#v, want %d", v, tt.want)
			}
		})
	}
}

// Every integer in a wide window is accepted exactly when it lies on the
// scale and is a whole number of steps from the minimum.
func TestValidateLikertAcceptsExactlyScaleValues(t *testing.T) {
	scales := [][3]int{{1, 5, 1}, {0, 10, 2}, {1, 10, 3}, {-3, 3, 3}}
	for _, sc := range scales {
		q := likertQuestion(1, sc[0], sc[1], sc[2])
		for v := -20; v <= 20; v++ {
			want := v >= sc[0] && v <= sc[1] && (v-sc[0])%sc[2] == 0
			_, err := ValidateAnswer(q, strconv.Itoa(v))
			if got := err == nil; got != want {
				t.Fatalf("scale %v value %d: accepted=%v, want %v", sc, v, got, want)
			}
		}
	}
}

func TestValidateMCQ(t *testing.T) {
	q2 := &model.Question{
		Record: model.Record{ID: 2},
		Type:   model.QuestionMCQ,
		Options: []model.MCQOption{
			{Record: model.Record{ID: 21}, QuestionID: 2, Text: "Red"},
			{Record: model.Record{ID: 22}, QuestionID: 2, Text: "Blue"},
		},
	}

	v, err := ValidateAnswer(q2, "22")
	if err != nil {
		t.Fatalf("valid option: %v", err)
	}
	if v != (model.OptionAnswer{OptionID: 22}) {
		t.Fatalf("value = %#v", v)
	}

	// 31 belongs to another question
	for _, raw := range []string{"31", "Red", "-1"} {
		_, err := ValidateAnswer(q2, raw)
		if kind := failureKind(t, err); kind != FailureOptionMismatch {
			t.Fatalf("%q: kind = %s, want OptionMismatch", raw, kind)
		}
	}
}

func TestValidateShort(t *testing.T) {
	q := &model.Question{
		Record:      model.Record{ID: 3},
		Type:        model.QuestionShort,
		ShortAnswer: &model.ShortAnswerQuestion{MaxLength: 10},
	}

	v, err := ValidateAnswer(q, "  good job  ")
	if err != nil {
		t.Fatalf("valid text: %v", err)
	}
	if v != (model.TextAnswer{Text: "good job"}) {
		t.Fatalf("value = %#v", v)
	}

	// limit counts characters, not bytes
	if _, err := ValidateAnswer(q, strings.Repeat("é", 10)); err != nil {
		t.Fatalf("10 runes should fit: %v", err)
	}
	_, err = ValidateAnswer(q, strings.Repeat("x", 11))
	if kind := failureKind(t, err); kind != FailureTooLong {
		t.Fatalf("kind = %s, want TooLong", kind)
	}

	unlimited := &model.Question{Record: model.Record{ID: 4}, Type: model.QuestionShort}
	if _, err := ValidateAnswer(unlimited, strings.Repeat("x", 5000)); err != nil {
		t.Fatalf("no config means no limit: %v", err)
	}
}

func TestValidateUnsupportedType(t *testing.T) {
	q := &model.Question{Record: model.Record{ID: 9}, Type: "RANKING"}
	_, err := ValidateAnswer(q, "1")
	if kind := failureKind(t, err); kind != FailureUnsupportedType {
		t.Fatalf("kind = %s, want UnsupportedType", kind)
	}
}

func TestDecodeRawValue(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		present bool
	}{
		{`"3"`, "3", true},
		{`3`, "3", true},
		{`3.5`, "3.5", true},
		{`"hello \"class\""`, `hello "class"`, true},
		{`true`, "true", true},
		{`null`, "", false},
		{``, "", false},
	}
	for _, tt := range tests {
		got, ok := DecodeRawValue(json.RawMessage(tt.in))
		if got != tt.want || ok != tt.present {
			t.Errorf("DecodeRawValue(%s) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.present)
		}
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("", false) || !IsBlank("   ", true) {
		t.Fatal("missing and whitespace values are blank")
	}
	if IsBlank("0", true) {
		t.Fatal("0 is an answer")
	}
}
