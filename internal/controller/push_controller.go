package controller

import (
	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PushController struct {
	PushService *service.PushService
}

func NewPushController(pushService *service.PushService) *PushController {
	return &PushController{PushService: pushService}
}

// SubscribeRequest Web Push 订阅请求
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// UnsubscribeRequest 取消订阅请求
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// Subscribe godoc
// @Summary 订阅推送
// @Description 同一 endpoint 重复订阅视为更新
// @Tags 推送
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubscribeRequest true "订阅信息"
// @Success 201 {object} util.Response{data=model.PushSubscription} "订阅成功"
// @Router /api/push/subscribe [post]
func (c *PushController) Subscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.PushService.Subscribe(claims.UserID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// Unsubscribe godoc
// @Summary 取消推送订阅
// @Tags 推送
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UnsubscribeRequest true "订阅端点"
// @Success 200 {object} util.Response "取消成功"
// @Router /api/push/unsubscribe [post]
func (c *PushController) Unsubscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	var req UnsubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.PushService.Unsubscribe(claims.UserID, req.Endpoint); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unsubscribed": true})
}

// List godoc
// @Summary 当前用户的推送订阅列表
// @Tags 推送
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.PushSubscription} "成功"
// @Router /api/push/subscriptions [get]
func (c *PushController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "未授权")
		return
	}

	subs, err := c.PushService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
