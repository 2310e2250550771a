package controller

import (
	"context"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/service"
	"surveylyze_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeacherSurveyController struct {
	UserService    *service.UserService
	SurveyService  *service.SurveyService
	SectionService *service.SectionService
}

func NewTeacherSurveyController(
	userService *service.UserService,
	surveyService *service.SurveyService,
	sectionService *service.SectionService,
) *TeacherSurveyController {
	return &TeacherSurveyController{
		UserService:    userService,
		SurveyService:  surveyService,
		SectionService: sectionService,
	}
}

type CreateSurveyRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	DueDate     *string                 `json:"dueDate" example:"2026-06-30"`
	Publish     bool                    `json:"publish"`
	SectionIDs  []uint                  `json:"sectionIds"`
	Questions   []service.QuestionInput `json:"questions" binding:"dive"`
}

type AssignRequest struct {
	SectionID uint `json:"sectionId" binding:"required"`
}

func currentTeacher(ctx *gin.Context, users *service.UserService) (*model.Teacher, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	teacher, err := users.ResolveTeacher(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	return teacher, true
}

// @Summary 创建问卷
// @Description 一次性创建问卷、题目及其配置，可选直接发布并分配班级
// @Tags 教师问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateSurveyRequest true "问卷"
// @Success 201 {object} util.Response{data=model.Survey}
// @Router /teacher/surveys [post]
func (c *TeacherSurveyController) CreateSurvey(ctx *gin.Context) {
	var req CreateSurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	due, err := dateParam(req.DueDate)
	if err != nil {
		util.BadRequest(ctx, "dueDate 格式应为 YYYY-MM-DD")
		return
	}

	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}

	survey, err := c.SurveyService.CreateSurvey(ctx.Request.Context(), teacher.ID, service.CreateSurveyInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Publish:     req.Publish,
		SectionIDs:  req.SectionIDs,
		Questions:   req.Questions,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, survey)
}

// @Summary 我的问卷列表
// @Tags 教师问卷
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.SurveySummary}
// @Router /teacher/surveys [get]
func (c *TeacherSurveyController) ListSurveys(ctx *gin.Context) {
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}
	surveys, err := c.SurveyService.ListSurveys(ctx.Request.Context(), teacher.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, surveys)
}

// @Summary 问卷详情
// @Tags 教师问卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=model.Survey}
// @Router /teacher/surveys/{id} [get]
func (c *TeacherSurveyController) GetSurvey(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}
	survey, err := c.SurveyService.GetSurvey(ctx.Request.Context(), teacher.ID, surveyID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, survey)
}

// @Summary 添加题目
// @Tags 教师问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Param body body service.QuestionInput true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /teacher/surveys/{id}/questions [post]
func (c *TeacherSurveyController) AddQuestion(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}

	q, err := c.SurveyService.AddQuestion(ctx.Request.Context(), teacher.ID, surveyID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 发布问卷
// @Tags 教师问卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=model.Survey}
// @Router /teacher/surveys/{id}/publish [post]
func (c *TeacherSurveyController) Publish(ctx *gin.Context) {
	c.changeStatus(ctx, c.SurveyService.Publish)
}

// @Summary 关闭问卷
// @Tags 教师问卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=model.Survey}
// @Router /teacher/surveys/{id}/close [post]
func (c *TeacherSurveyController) Close(ctx *gin.Context) {
	c.changeStatus(ctx, c.SurveyService.Close)
}

type statusChange func(ctx context.Context, teacherID, surveyID uint) (*model.Survey, error)

func (c *TeacherSurveyController) changeStatus(ctx *gin.Context, change statusChange) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}
	survey, err := change(ctx.Request.Context(), teacher.ID, surveyID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, survey)
}

// @Summary 问卷已分配的班级
// @Tags 教师问卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=[]model.SurveyAssignment}
// @Router /teacher/surveys/{id}/assignments [get]
func (c *TeacherSurveyController) ListAssignments(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}
	assignments, err := c.SurveyService.ListAssignments(ctx.Request.Context(), teacher.ID, surveyID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// @Summary 分配问卷到班级
// @Tags 教师问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Param body body AssignRequest true "班级"
// @Success 201 {object} util.Response{data=model.SurveyAssignment}
// @Failure 409 {object} util.Response
// @Router /teacher/surveys/{id}/assignments [post]
func (c *TeacherSurveyController) Assign(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}

	a, err := c.SurveyService.Assign(ctx.Request.Context(), teacher.ID, surveyID, req.SectionID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary 取消分配
// @Tags 教师问卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Param sectionId path int true "班级ID"
// @Success 200 {object} util.Response
// @Router /teacher/surveys/{id}/assignments/{sectionId} [delete]
func (c *TeacherSurveyController) Unassign(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	sectionID, ok := pathID(ctx, "sectionId")
	if !ok {
		return
	}
	teacher, ok := currentTeacher(ctx, c.UserService)
	if !ok {
		return
	}

	if err := c.SurveyService.Unassign(ctx.Request.Context(), teacher.ID, surveyID, sectionID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 班级列表
// @Tags 班级
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ClassSection}
// @Router /teacher/sections [get]
func (c *TeacherSurveyController) ListSections(ctx *gin.Context) {
	sections, err := c.SectionService.ListSections(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sections)
}

// @Summary 创建班级
// @Tags 班级
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SectionInput true "班级"
// @Success 201 {object} util.Response{data=model.ClassSection}
// @Router /teacher/sections [post]
func (c *TeacherSurveyController) CreateSection(ctx *gin.Context) {
	var req service.SectionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	section, err := c.SectionService.CreateSection(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// @Summary 学生分班
// @Tags 班级
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "班级ID"
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /teacher/sections/{id}/students/{studentId} [put]
func (c *TeacherSurveyController) EnrollStudent(ctx *gin.Context) {
	sectionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}
	if err := c.SectionService.EnrollStudent(ctx.Request.Context(), studentID, sectionID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"studentId": studentID, "sectionId": sectionID})
}
