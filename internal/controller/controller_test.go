package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func TestParseAnswerInputs(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		got, err := parseAnswerInputs(json.RawMessage(`[{"questionId":3,"value":4},{"questionId":1,"value":"  hi "},{"questionId":2,"value":null}]`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(got) != 3 || got[0].QuestionID != 3 || *got[0].Value != "4" || *got[1].Value != "  hi " || got[2].Value != nil {
			t.Fatalf("inputs = %+v", got)
		}
	})

	t.Run("object keyed by id", func(t *testing.T) {
		got, err := parseAnswerInputs(json.RawMessage(`{"12":"7","3":3.5}`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(got) != 2 || got[0].QuestionID != 3 || *got[0].Value != "3.5" || got[1].QuestionID != 12 || *got[1].Value != "7" {
			t.Fatalf("inputs = %+v", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		for _, raw := range []string{``, `null`, ` `} {
			got, err := parseAnswerInputs(json.RawMessage(raw))
			if err != nil || got != nil {
				t.Fatalf("parse(%q) = %v, %v", raw, got, err)
			}
		}
	})

	t.Run("bad shape", func(t *testing.T) {
		for _, raw := range []string{`"answers"`, `42`, `{"q1":"x"}`, `[1,2]`} {
			if _, err := parseAnswerInputs(json.RawMessage(raw)); !errors.Is(err, errAnswersShape) {
				t.Fatalf("parse(%s) err = %v", raw, err)
			}
		}
	})
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{model.ErrInvalidConfiguration, http.StatusBadRequest},
		{fmt.Errorf("question 2: %w", model.ErrUnsupportedQuestionType), http.StatusBadRequest},
		{util.ErrSurveyNotFound, http.StatusNotFound},
		{util.ErrStudentNotFound, http.StatusNotFound},
		{util.ErrNotEligible, http.StatusForbidden},
		{util.ErrPermissionDenied, http.StatusForbidden},
		{fmt.Errorf("submit: %w", util.ErrAlreadySubmitted), http.StatusConflict},
		{util.ErrDuplicateAssignment, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		ctx.Set(util.RequestIDKey, "req-1")

		respondError(ctx, tt.err)
		if w.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.want)
		}

		var body util.Response
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code != tt.want || body.RequestID != "req-1" {
			t.Errorf("%v: envelope = %s", tt.err, w.Body.String())
		}
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for raw, want := range map[string]uint{"17": 17, "0": 0, "abc": 0, "-3": 0} {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: raw}}

		id, ok := pathID(ctx, "id")
		if id != want || ok != (want != 0) {
			t.Errorf("pathID(%q) = %d, %v", raw, id, ok)
		}
		if !ok && w.Code != http.StatusBadRequest {
			t.Errorf("pathID(%q) status = %d", raw, w.Code)
		}
	}
}
