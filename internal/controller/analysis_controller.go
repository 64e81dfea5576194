package controller

import (
	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	AnalysisService *service.AnalysisService
}

func NewAnalysisController(analysisService *service.AnalysisService) *AnalysisController {
	return &AnalysisController{AnalysisService: analysisService}
}

// GetResult godoc
// @Summary 查看测评结果摘要
// @Description 结果 ID 可分享，无需登录即可查看
// @Tags 分析
// @Produce  json
// @Param   id path string true "结果ID"
// @Success 200 {object} util.Response{data=model.AnalysisResult} "成功"
// @Failure 404 {object} util.Response "结果不存在"
// @Router /api/analysis/results/{id} [get]
func (c *AnalysisController) GetResult(ctx *gin.Context) {
	result, err := c.AnalysisService.GetResult(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "结果不存在")
		return
	}
	util.Success(ctx, result)
}

// GetFullResult godoc
// @Summary 查看全量测评记录
// @Description 含原始问答与远端完整响应
// @Tags 分析
// @Produce  json
// @Param   id path string true "记录ID"
// @Success 200 {object} util.Response{data=model.FullAnalysisResult} "成功"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/analysis/full-results/{id} [get]
func (c *AnalysisController) GetFullResult(ctx *gin.Context) {
	result, err := c.AnalysisService.GetFullResult(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "记录不存在")
		return
	}
	util.Success(ctx, result)
}

// GetSnapshot godoc
// @Summary 强项快照
// @Description 基于一次测评结果生成维度均分与分档热力图
// @Tags 分析
// @Produce  json
// @Param   id path string true "结果ID"
// @Success 200 {object} util.Response{data=service.StrengthsSnapshot} "成功"
// @Failure 404 {object} util.Response "结果不存在"
// @Router /api/analysis/results/{id}/snapshot [get]
func (c *AnalysisController) GetSnapshot(ctx *gin.Context) {
	snapshot, err := c.AnalysisService.Snapshot(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "结果不存在")
		return
	}
	util.Success(ctx, snapshot)
}

// History godoc
// @Summary 测评历史
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "最大条数，默认20"
// @Success 200 {object} util.Response{data=[]model.AnalysisResult} "成功"
// @Router /api/analysis/history [get]
func (c *AnalysisController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	limit := util.ParseLimit(ctx.Query("limit"), 20, 100)
	results, err := c.AnalysisService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// FullHistory godoc
// @Summary 全量记录历史
// @Description 列表只含摘要字段，不带完整响应体
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "最大条数，默认20"
// @Success 200 {object} util.Response{data=[]model.FullAnalysisResult} "成功"
// @Router /api/analysis/full-history [get]
func (c *AnalysisController) FullHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	limit := util.ParseLimit(ctx.Query("limit"), 20, 100)
	results, err := c.AnalysisService.FullHistory(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// TopCareers godoc
// @Summary 最佳匹配职业
// @Description 最近一次测评中匹配度最高的职业，两路来源合并去重
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "最大条数，默认10，上限10"
// @Success 200 {object} util.Response{data=[]model.CareerMatch} "成功"
// @Failure 404 {object} util.Response "暂无测评记录"
// @Router /api/analysis/top-careers [get]
func (c *AnalysisController) TopCareers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	limit := util.ParseLimit(ctx.Query("limit"), 10, 10)
	careers, err := c.AnalysisService.TopCareers(claims.UserID, limit)
	if err != nil {
		util.NotFound(ctx, "暂无测评记录")
		return
	}
	util.Success(ctx, careers)
}

// Latest godoc
// @Summary 最近一次测评结果
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.AnalysisResult} "成功"
// @Failure 404 {object} util.Response "暂无测评记录"
// @Router /api/analysis/latest [get]
func (c *AnalysisController) Latest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	result, err := c.AnalysisService.LatestResult(claims.UserID)
	if err != nil {
		util.NotFound(ctx, "暂无测评记录")
		return
	}
	util.Success(ctx, result)
}
