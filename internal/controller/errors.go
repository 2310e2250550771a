package controller

import (
	"errors"
	"net/http"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Anything it does not
// recognise is logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidConfiguration),
		errors.Is(err, model.ErrUnsupportedQuestionType):
		util.BadRequest(ctx, err.Error())

	case errors.Is(err, util.ErrSurveyNotFound),
		errors.Is(err, util.ErrSectionNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrStudentNotFound),
		errors.Is(err, util.ErrTeacherNotFound):
		util.NotFound(ctx, err.Error())

	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotEligible):
		util.Error(ctx, http.StatusForbidden, err.Error())

	case errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrDuplicateAssignment),
		errors.Is(err, util.ErrDuplicateOrder),
		errors.Is(err, util.ErrSectionCodeDuplicate),
		errors.Is(err, util.ErrProfileExists),
		errors.Is(err, util.ErrInvalidStatusChange),
		errors.Is(err, util.ErrSurveyClosed),
		errors.Is(err, util.ErrNotAssignable):
		util.Conflict(ctx, err.Error())

	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID parses a positive numeric path parameter, answering 400 otherwise.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "无效的"+name)
		return 0, false
	}
	return id, true
}
