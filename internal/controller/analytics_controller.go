package controller

import (
	"strconv"

	"surveylyze_backend/internal/service"
	"surveylyze_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	UserService      *service.UserService
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(userService *service.UserService, analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		UserService:      userService,
		AnalyticsService: analyticsService,
	}
}

// @Summary 题目统计
// @Description MCQ 选项分布、Likert 同意程度、简答题情感与关键词；不传 surveyId 时统计本人全部问卷
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param surveyId query int false "问卷ID"
// @Success 200 {object} util.Response{data=[]model.QuestionStats}
// @Router /teacher/analytics/questions [get]
func (c *AnalyticsController) GetQuestionAnalytics(ctx *gin.Context) {
	var filter *uint
	if raw := ctx.Query("surveyId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			util.BadRequest(ctx, "无效的surveyId")
			return
		}
		surveyID := uint(id)
		filter = &surveyID
	}

	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}

	stats, err := c.AnalyticsService.QuestionAnalytics(ctx.Request.Context(), teacher.ID, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 问卷概览
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.SurveyOverview}
// @Router /teacher/analytics/overview [get]
func (c *AnalyticsController) GetOverview(ctx *gin.Context) {
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}

	overview, err := c.AnalyticsService.Overview(ctx.Request.Context(), teacher.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}
