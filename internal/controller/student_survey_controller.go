package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/service"
	"surveylyze_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentSurveyController struct {
	UserService       *service.UserService
	VisibilityService *service.VisibilityService
	SubmissionService *service.SubmissionService
}

func NewStudentSurveyController(
	userService *service.UserService,
	visibilityService *service.VisibilityService,
	submissionService *service.SubmissionService,
) *StudentSurveyController {
	return &StudentSurveyController{
		UserService:       userService,
		VisibilityService: visibilityService,
		SubmissionService: submissionService,
	}
}

type VisibleSurveyItem struct {
	SurveyID uint    `json:"surveyId"`
	Title    string  `json:"title"`
	DueDate  *string `json:"dueDate"`
}

type AnswerItem struct {
	QuestionID uint            `json:"questionId"`
	Value      json.RawMessage `json:"value"`
}

// SubmitAnswersRequest accepts answers either as a list of
// {questionId, value} or as an object keyed by question id.
type SubmitAnswersRequest struct {
	Answers json.RawMessage `json:"answers" swaggertype:"object"`
}

type SubmitAnswersResponse struct {
	HistoryID uint                        `json:"historyId"`
	Accepted  int                         `json:"accepted"`
	Rejected  []service.ValidationFailure `json:"rejected"`
}

func (c *StudentSurveyController) currentStudent(ctx *gin.Context) (*model.Student, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	student, err := c.UserService.ResolveStudent(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	return student, true
}

// @Summary 学生可填写的问卷列表
// @Description 已发布、未过期、分配给本班且尚未提交的问卷，按截止日期排序
// @Tags 学生问卷
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]VisibleSurveyItem}
// @Router /student/surveys [get]
func (c *StudentSurveyController) ListVisible(ctx *gin.Context) {
	student, ok := c.currentStudent(ctx)
	if !ok {
		return
	}

	surveys, err := c.VisibilityService.VisibleSurveys(ctx.Request.Context(), student.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]VisibleSurveyItem, 0, len(surveys))
	for _, s := range surveys {
		item := VisibleSurveyItem{SurveyID: s.ID, Title: s.Title}
		if s.DueDate != nil {
			d := s.DueDate.UTC().Format(util.DateFormat)
			item.DueDate = &d
		}
		items = append(items, item)
	}
	util.Success(ctx, items)
}

// @Summary 获取待填写问卷的题目
// @Tags 学生问卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=model.Survey}
// @Router /student/surveys/{id} [get]
func (c *StudentSurveyController) GetSurvey(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	student, ok := c.currentStudent(ctx)
	if !ok {
		return
	}

	survey, err := c.VisibilityService.OpenSurvey(ctx.Request.Context(), student.ID, surveyID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, survey)
}

// @Summary 开始作答（草稿）
// @Tags 学生问卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Success 200 {object} util.Response{data=model.SurveyHistory}
// @Router /student/surveys/{id}/drafts [post]
func (c *StudentSurveyController) StartDraft(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	student, ok := c.currentStudent(ctx)
	if !ok {
		return
	}

	draft, err := c.SubmissionService.StartDraft(ctx.Request.Context(), student.ID, surveyID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// @Summary 提交问卷答案
// @Description 每个学生每份问卷只能提交一次；无效答案被跳过并在 rejected 中返回
// @Tags 学生问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "问卷ID"
// @Param body body SubmitAnswersRequest true "答案"
// @Success 201 {object} util.Response{data=SubmitAnswersResponse}
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /student/surveys/{id}/submissions [post]
func (c *StudentSurveyController) Submit(ctx *gin.Context) {
	surveyID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	inputs, err := parseAnswerInputs(req.Answers)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, ok := c.currentStudent(ctx)
	if !ok {
		return
	}

	result, err := c.SubmissionService.Submit(ctx.Request.Context(), student.ID, surveyID, inputs)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, SubmitAnswersResponse{
		HistoryID: result.History.ID,
		Accepted:  result.Accepted,
		Rejected:  result.Rejected,
	})
}

var errAnswersShape = errors.New("answers must be a list of {questionId, value} or an object keyed by question id")

func parseAnswerInputs(raw json.RawMessage) ([]service.AnswerInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var items []AnswerItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errAnswersShape
		}
		inputs := make([]service.AnswerInput, 0, len(items))
		for _, it := range items {
			inputs = append(inputs, toAnswerInput(it.QuestionID, it.Value))
		}
		return inputs, nil

	case '{':
		var byKey map[string]json.RawMessage
		if err := json.Unmarshal(raw, &byKey); err != nil {
			return nil, errAnswersShape
		}
		inputs := make([]service.AnswerInput, 0, len(byKey))
		for key, v := range byKey {
			id, err := strconv.ParseUint(key, 10, 32)
			if err != nil {
				return nil, errAnswersShape
			}
			inputs = append(inputs, toAnswerInput(uint(id), v))
		}
		// map 无序，按题号排序保证结果稳定
		sort.Slice(inputs, func(i, j int) bool { return inputs[i].QuestionID < inputs[j].QuestionID })
		return inputs, nil
	}
	return nil, errAnswersShape
}

func toAnswerInput(questionID uint, v json.RawMessage) service.AnswerInput {
	in := service.AnswerInput{QuestionID: questionID}
	if s, ok := service.DecodeRawValue(v); ok {
		in.Value = &s
	}
	return in
}

// dateParam reads an optional yyyy-mm-dd value.
func dateParam(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	return util.ParseDate(*s)
}
