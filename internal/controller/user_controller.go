package controller

import (
	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/service"
	"surveylyze_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type TeacherProfileRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

// @Summary 获取当前账号的档案
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var (
		profile interface{}
		err     error
	)
	switch user.Role {
	case model.RoleTeacher:
		profile, err = c.UserService.ResolveTeacher(ctx.Request.Context(), user.UserID)
	case model.RoleStudent:
		profile, err = c.UserService.ResolveStudent(ctx.Request.Context(), user.UserID)
	default:
		util.Forbidden(ctx)
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"role":    user.Role,
		"profile": profile,
	})
}

// @Summary 创建教师档案
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body TeacherProfileRequest true "教师信息"
// @Success 201 {object} util.Response{data=model.Teacher}
// @Router /teacher/profile [post]
func (c *UserController) CreateTeacherProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TeacherProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	teacher, err := c.UserService.CreateTeacherProfile(ctx.Request.Context(), user.UserID, req.DisplayName)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, teacher)
}

// @Summary 创建学生档案
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.StudentProfileInput true "学生信息"
// @Success 201 {object} util.Response{data=model.Student}
// @Router /student/profile [post]
func (c *UserController) CreateStudentProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StudentProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.UserService.CreateStudentProfile(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, student)
}
