package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"surveylyze_backend/internal/model"
)

type FailureKind string

const (
	FailureOptionMismatch  FailureKind = "OptionMismatch"
	FailureNotANumber      FailureKind = "NotANumber"
	FailureOutOfRange      FailureKind = "OutOfRange"
	FailureTooLong         FailureKind = "TooLong"
	FailureUnsupportedType FailureKind = "UnsupportedType"

	// raised while collecting a submission, not by ValidateAnswer
	FailureUnknownQuestion FailureKind = "UnknownQuestion"
	FailureDuplicate       FailureKind = "Duplicate"
)

// ValidationFailure rejects one answer. It never aborts the submission the
// answer belongs to.
type ValidationFailure struct {
	QuestionID uint        `json:"questionId"`
	Kind       FailureKind `json:"kind"`
	Detail     string      `json:"detail,omitempty"`
}

func (f *ValidationFailure) Error() string {
	if f.Detail == "" {
		return fmt.Sprintf("question %d: %s", f.QuestionID, f.Kind)
	}
	return fmt.Sprintf("question %d: %s: %s", f.QuestionID, f.Kind, f.Detail)
}

func reject(questionID uint, kind FailureKind, format string, args ...interface{}) *ValidationFailure {
	return &ValidationFailure{
		QuestionID: questionID,
		Kind:       kind,
		Detail:     fmt.Sprintf(format, args...),
	}
}

// ValidateAnswer turns a raw submitted value into the typed answer stored for
// q. q must have its options or subtype config loaded. Blank values are the
// caller's business (see IsBlank) and should not reach here.
func ValidateAnswer(q *model.Question, raw string) (model.AnswerValue, error) {
	spec, err := q.Spec()
	if err != nil {
		return nil, reject(q.ID, FailureUnsupportedType, "%q", q.Type)
	}

	switch s := spec.(type) {
	case model.MCQSpec:
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, reject(q.ID, FailureOptionMismatch, "%q is not an option id", raw)
		}
		if _, ok := q.FindOption(uint(id)); !ok {
			return nil, reject(q.ID, FailureOptionMismatch, "option %d does not belong to this question", id)
		}
		return model.OptionAnswer{OptionID: uint(id)}, nil

	case model.LikertSpec:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, reject(q.ID, FailureNotANumber, "%q", raw)
		}
		if !s.Scale.Accepts(n) {
			return nil, reject(q.ID, FailureOutOfRange, "%d not on scale %d..%d step %d",
				n, s.Scale.ScaleMin, s.Scale.ScaleMax, s.Scale.Step)
		}
		return model.LikertAnswer{Value: n}, nil

	case model.ShortSpec:
		text := strings.TrimSpace(raw)
		if s.MaxLength > 0 {
			if n := utf8.RuneCountInString(text); n > s.MaxLength {
				return nil, reject(q.ID, FailureTooLong, "%d characters, limit %d", n, s.MaxLength)
			}
		}
		return model.TextAnswer{Text: text}, nil
	}

	return nil, reject(q.ID, FailureUnsupportedType, "%q", q.Type)
}

// IsBlank reports whether a value means "question skipped".
func IsBlank(raw string, present bool) bool {
	return !present || strings.TrimSpace(raw) == ""
}

// DecodeRawValue normalises a JSON value from a request body into the raw text
// ValidateAnswer expects. The second result is false for a missing value or
// JSON null.
func DecodeRawValue(msg json.RawMessage) (string, bool) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return "", false
	}
	if msg[0] == '"' {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return string(msg), true
		}
		return s, true
	}
	// numbers, booleans and anything else keep their JSON spelling, so 3.5
	// stays "3.5" and fails Likert parsing as NotANumber
	return string(msg), true
}
