package controller

import (
	"errors"

	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetProfile godoc
// @Summary 获取当前用户档案
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/user/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		util.NotFound(ctx, "用户不存在")
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary 更新用户档案
// @Description 部分更新：只修改请求中出现的字段
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdate true "待更新字段"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 409 {object} util.Response "邮箱已被占用"
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var update service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, "该邮箱已被注册")
		case errors.Is(err, util.ErrUnknownGroup):
			util.BadRequest(ctx, "未知的用户分组")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "用户不存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// JourneyProgressRequest 旅程进度同步请求
type JourneyProgressRequest struct {
	Progress map[string]bool `json:"progress" binding:"required"`
	Merge    bool            `json:"merge"`
}

// UpdateJourneyProgress godoc
// @Summary 同步职业旅程进度
// @Description merge=true 时在服务端进度上叠加增量，否则整体替换
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body JourneyProgressRequest true "进度数据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/user/journey [put]
func (c *UserController) UpdateJourneyProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req JourneyProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.UserService.UpdateJourneyProgress(claims.UserID, req.Progress, req.Merge)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"journeyProgress": progress})
}
