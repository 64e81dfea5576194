package controller

import (
	"errors"

	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// StartSessionRequest 开始测评请求
type StartSessionRequest struct {
	GroupType string `json:"groupType" binding:"required"`
}

// SelectOptionRequest 暂定答案请求
type SelectOptionRequest struct {
	Option string `json:"option" binding:"required"`
}

// Start godoc
// @Summary 开始测评会话
// @Description 按用户分组加载静态题库并创建会话，未登录也可测评
// @Tags 测评
// @Accept  json
// @Produce  json
// @Param   body body StartSessionRequest true "用户分组"
// @Success 201 {object} util.Response{data=service.SessionView} "创建成功"
// @Failure 400 {object} util.Response "未知的用户分组"
// @Router /api/assessment/sessions [post]
func (c *AssessmentController) Start(ctx *gin.Context) {
	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
	}

	view, err := c.AssessmentService.StartSession(userID, req.GroupType)
	if err != nil {
		if errors.Is(err, util.ErrUnknownGroup) {
			util.BadRequest(ctx, "未知的用户分组: "+req.GroupType)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, view)
}

// Get godoc
// @Summary 查看会话状态
// @Tags 测评
// @Produce  json
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/assessment/sessions/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	view, err := c.AssessmentService.View(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "会话不存在")
		return
	}
	util.Success(ctx, view)
}

// SelectOption godoc
// @Summary 暂定当前题的答案
// @Description 仅记录选项，可反复修改，不推进进度
// @Tags 测评
// @Accept  json
// @Produce  json
// @Param   id path string true "会话ID"
// @Param   body body SelectOptionRequest true "所选选项"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 409 {object} util.Response "会话忙或已结束"
// @Router /api/assessment/sessions/{id}/select [post]
func (c *AssessmentController) SelectOption(ctx *gin.Context) {
	var req SelectOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.AssessmentService.SelectOption(ctx.Param("id"), req.Option)
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Confirm godoc
// @Summary 提交答案并推进
// @Description 题库耗尽时由 AI 生成下一题；答满后自动触发职业分析。
// @Description 生成失败会回滚本次提交，可重试。
// @Tags 测评
// @Produce  json
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 400 {object} util.Response "尚未选择答案"
// @Failure 409 {object} util.Response "会话忙或已结束"
// @Failure 502 {object} util.Response "AI 服务失败"
// @Router /api/assessment/sessions/{id}/confirm [post]
func (c *AssessmentController) Confirm(ctx *gin.Context) {
	view, err := c.AssessmentService.ConfirmAndAdvance(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Skip godoc
// @Summary 跳过当前题
// @Description 仅静态题可跳过，AI 生成的题与最后一题不可跳过
// @Tags 测评
// @Produce  json
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Router /api/assessment/sessions/{id}/skip [post]
func (c *AssessmentController) Skip(ctx *gin.Context) {
	view, err := c.AssessmentService.Skip(ctx.Param("id"))
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Cancel godoc
// @Summary 终止会话
// @Description 中断在途的 AI 调用。主动取消不计为失败
// @Tags 测评
// @Produce  json
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Router /api/assessment/sessions/{id}/cancel [post]
func (c *AssessmentController) Cancel(ctx *gin.Context) {
	view, err := c.AssessmentService.Cancel(ctx.Param("id"))
	if err != nil {
		c.respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

func (c *AssessmentController) respondSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx, "会话不存在")
	case errors.Is(err, util.ErrSessionBusy):
		util.Conflict(ctx, "会话正在等待 AI 响应，请稍候")
	case errors.Is(err, util.ErrSessionFinished):
		util.Conflict(ctx, "会话已结束")
	case errors.Is(err, util.ErrNoAnswerSelected):
		util.BadRequest(ctx, "请先选择一个答案")
	case errors.Is(err, util.ErrNotSkippable):
		util.BadRequest(ctx, "当前题目不可跳过")
	case errors.Is(err, util.ErrTranscriptTooLong):
		util.BadRequest(ctx, "已达到题目上限")
	case errors.Is(err, util.ErrQuestionGeneration):
		util.Error(ctx, 502, "AI 出题失败，请重试")
	case errors.Is(err, util.ErrEngineCancelled):
		util.Conflict(ctx, "调用已被取消")
	case errors.Is(err, util.ErrEngineTimeout):
		util.Error(ctx, 504, "AI 分析超时，请重试")
	case errors.Is(err, util.ErrInvalidEngineReply):
		util.Error(ctx, 502, "AI 响应格式异常")
	default:
		util.LogInternalError(ctx, err)
	}
}
