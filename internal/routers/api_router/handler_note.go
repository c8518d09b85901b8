package api_router

import (
	"net/http"

	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/internal/dto"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"
	apperrors "github.com/haierkeys/microdoc-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandler(a),
	}
}

// Create 创建笔记
// @Summary 创建笔记
// @Description 创建笔记并返回分配的地址，可设置密码与过期时间
// @Tags 笔记
// @Accept json
// @Produce json
// @Param params body dto.NoteCreateRequest true "创建参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteCreateResponse} "成功"
// @Router /api/note [post]
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	created, err := h.App.NoteService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(created))
}

// Get 读取笔记
// @Summary 读取笔记
// @Description 受保护的笔记需要 Authorization: Bearer <password> 或 X-Note-Token
// @Tags 笔记
// @Produce json
// @Param slug path string true "笔记地址"
// @Success 200 {object} pkgapp.Res{data=dto.NoteView} "成功"
// @Router /api/note/{slug} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	note, err := h.App.NoteService.Get(ctx, c.Param("slug"), credential(c))
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Update 更新笔记
// @Summary 更新笔记
// @Description 内容变化时追加历史；expiresAt 为 null 清除过期时间，缺省保持不变
// @Tags 笔记
// @Accept json
// @Produce json
// @Param slug path string true "笔记地址"
// @Param params body dto.NoteUpdateRequest true "更新参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteUpdateResponse} "成功"
// @Router /api/note/{slug} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	updated, err := h.App.NoteService.Update(ctx, c.Param("slug"), params, credential(c))
	if err != nil {
		h.logError(ctx, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate.WithData(updated))
}

// Unlock 用密码换取解锁令牌
// @Summary 解锁笔记
// @Tags 笔记
// @Accept json
// @Produce json
// @Param slug path string true "笔记地址"
// @Param params body dto.NoteUnlockRequest true "密码"
// @Success 200 {object} pkgapp.Res{data=dto.NoteUnlockResponse} "成功"
// @Router /api/note/{slug}/unlock [post]
func (h *NoteHandler) Unlock(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUnlockRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	unlocked, err := h.App.NoteService.Unlock(ctx, c.Param("slug"), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Unlock", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUnlock.WithData(unlocked))
}

// HTML 渲染笔记预览
// @Summary 笔记 HTML 预览
// @Tags 笔记
// @Produce html
// @Param slug path string true "笔记地址"
// @Router /api/note/{slug}/html [get]
func (h *NoteHandler) HTML(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.App.NoteService.Render(ctx, c.Param("slug"), credential(c))
	if err != nil {
		h.logError(ctx, "NoteHandler.HTML", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	c.Set("status_code", http.StatusOK)
	c.Data(http.StatusOK, "text/html; charset=utf-8", out)
}
