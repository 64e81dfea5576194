package controller

import (
	"errors"

	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillGapController struct {
	SkillGapService *service.SkillGapService
}

func NewSkillGapController(skillGapService *service.SkillGapService) *SkillGapController {
	return &SkillGapController{SkillGapService: skillGapService}
}

// SkillGapRequestBody 发起差距分析请求
type SkillGapRequestBody struct {
	TargetCareers []string `json:"targetCareers"`
}

// ToggleProgressRequest 勾选/取消完成项
type ToggleProgressRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=skill course"`
	Item      string `json:"item" binding:"required"`
	Completed bool   `json:"completed"`
}

// CoursePlanRequestBody 生成学习计划请求
type CoursePlanRequestBody struct {
	CareerTitle string `json:"careerTitle" binding:"required"`
	Course      string `json:"course" binding:"required"`
}

// Request godoc
// @Summary 发起技能差距分析
// @Description 基于最近一次测评。未指定目标职业时取匹配度最高的若干条
// @Tags 技能差距
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SkillGapRequestBody true "目标职业（可空）"
// @Success 201 {object} util.Response{data=model.SkillGapResult} "创建成功"
// @Failure 404 {object} util.Response "暂无测评记录"
// @Failure 502 {object} util.Response "AI 服务失败"
// @Router /api/skill-gap [post]
func (c *SkillGapController) Request(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req SkillGapRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SkillGapService.RequestGapAnalysis(ctx.Request.Context(), claims.UserID, req.TargetCareers)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Get godoc
// @Summary 查看差距分析结果
// @Tags 技能差距
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "结果ID"
// @Success 200 {object} util.Response{data=model.SkillGapResult} "成功"
// @Failure 404 {object} util.Response "结果不存在"
// @Router /api/skill-gap/{id} [get]
func (c *SkillGapController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	result, err := c.SkillGapService.Get(ctx.Param("id"), claims.UserID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// History godoc
// @Summary 差距分析历史
// @Tags 技能差距
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "最大条数，默认20"
// @Success 200 {object} util.Response{data=[]model.SkillGapResult} "成功"
// @Router /api/skill-gap [get]
func (c *SkillGapController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	limit := util.ParseLimit(ctx.Query("limit"), 20, 100)
	results, err := c.SkillGapService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// Delete godoc
// @Summary 删除差距分析结果
// @Tags 技能差距
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "结果ID"
// @Success 200 {object} util.Response "删除成功"
// @Router /api/skill-gap/{id} [delete]
func (c *SkillGapController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	if err := c.SkillGapService.Delete(ctx.Param("id"), claims.UserID); err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// ToggleProgress godoc
// @Summary 勾选完成项
// @Description 幂等：重复勾选或取消不改变集合
// @Tags 技能差距
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "结果ID"
// @Param   body body ToggleProgressRequest true "完成项"
// @Success 200 {object} util.Response{data=model.SkillGapResult} "成功"
// @Router /api/skill-gap/{id}/progress [put]
func (c *SkillGapController) ToggleProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req ToggleProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SkillGapService.ToggleProgress(ctx.Param("id"), claims.UserID, req.Kind, req.Item, req.Completed)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// CoursePlan godoc
// @Summary 生成90天学习计划
// @Description 远端返回的计划统一归一化为三段任务列表
// @Tags 技能差距
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "结果ID"
// @Param   body body CoursePlanRequestBody true "职业与课程"
// @Success 200 {object} util.Response{data=service.CoursePlan} "成功"
// @Failure 502 {object} util.Response "AI 服务失败"
// @Router /api/skill-gap/{id}/course-plan [post]
func (c *SkillGapController) CoursePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req CoursePlanRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.SkillGapService.GenerateCoursePlan(ctx.Request.Context(), ctx.Param("id"), claims.UserID, req.CareerTitle, req.Course)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

func (c *SkillGapController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrResultNotFound):
		util.NotFound(ctx, "结果不存在")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx, "无权访问该结果")
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
