package controller

import (
	"errors"

	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TryoutController struct {
	TryoutService *service.TryoutService
}

func NewTryoutController(tryoutService *service.TryoutService) *TryoutController {
	return &TryoutController{TryoutService: tryoutService}
}

// CreateTryoutRequest 创建试验请求
type CreateTryoutRequest struct {
	PathA        string `json:"pathA" binding:"required"`
	PathB        string `json:"pathB" binding:"required"`
	DurationDays int    `json:"durationDays"`
}

// LogTaskRequest 任务打卡请求
type LogTaskRequest struct {
	Side       string   `json:"side" binding:"required,oneof=a b"`
	TaskID     string   `json:"taskId" binding:"required"`
	TimeMin    int      `json:"timeMin" binding:"required,min=1"`
	Interest   int      `json:"interest" binding:"required,min=1,max=5"`
	Difficulty int      `json:"difficulty" binding:"required,min=1,max=5"`
	Evidence   []string `json:"evidence"`
}

// Create godoc
// @Summary 创建职业路径对比试验
// @Description 两条路径各生成每日小任务，天数收敛到 3-14 天
// @Tags 试验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateTryoutRequest true "两条路径"
// @Success 201 {object} util.Response{data=model.Tryout} "创建成功"
// @Router /api/tryouts [post]
func (c *TryoutController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req CreateTryoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tryout, err := c.TryoutService.Create(claims.UserID, req.PathA, req.PathB, req.DurationDays)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, tryout)
}

// List godoc
// @Summary 试验列表
// @Tags 试验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Tryout} "成功"
// @Router /api/tryouts [get]
func (c *TryoutController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	tryouts, err := c.TryoutService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tryouts)
}

// Get godoc
// @Summary 查看试验详情
// @Tags 试验
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "试验ID"
// @Success 200 {object} util.Response{data=model.Tryout} "成功"
// @Failure 404 {object} util.Response "试验不存在"
// @Router /api/tryouts/{id} [get]
func (c *TryoutController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	tryout, err := c.TryoutService.Get(ctx.Param("id"), claims.UserID)
	if err != nil {
		util.NotFound(ctx, "试验不存在")
		return
	}
	util.Success(ctx, tryout)
}

// LogTask godoc
// @Summary 任务打卡
// @Description 记录耗时与兴趣/难度评分并刷新该侧汇总。已完成的任务不可重复打卡
// @Tags 试验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "试验ID"
// @Param   body body LogTaskRequest true "打卡数据"
// @Success 200 {object} util.Response{data=model.Tryout} "成功"
// @Failure 409 {object} util.Response "任务已完成"
// @Router /api/tryouts/{id}/log [post]
func (c *TryoutController) LogTask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req LogTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tryout, err := c.TryoutService.LogTask(ctx.Param("id"), claims.UserID,
		req.Side, req.TaskID, req.TimeMin, req.Interest, req.Difficulty, req.Evidence)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTryoutNotFound):
			util.NotFound(ctx, "试验不存在")
		case errors.Is(err, util.ErrTaskNotFound):
			util.NotFound(ctx, "任务不存在")
		case errors.Is(err, util.ErrTaskAlreadyCompleted):
			util.Conflict(ctx, "任务已完成，不可重复打卡")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, tryout)
}
