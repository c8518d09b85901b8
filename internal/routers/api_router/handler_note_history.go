package api_router

import (
	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/internal/dto"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"
	apperrors "github.com/haierkeys/microdoc-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHistoryHandler 笔记历史 API 路由处理器
type NoteHistoryHandler struct {
	*Handler
}

// NewNoteHistoryHandler 创建 NoteHistoryHandler 实例
func NewNoteHistoryHandler(a *app.App) *NoteHistoryHandler {
	return &NoteHistoryHandler{
		Handler: NewHandler(a),
	}
}

// List 获取笔记历史
// @Summary 获取笔记历史
// @Description 返回全部历史版本，旧的在前
// @Tags 笔记历史
// @Produce json
// @Param slug path string true "笔记地址"
// @Success 200 {object} pkgapp.Res{data=dto.NoteHistoryView} "成功"
// @Router /api/note/{slug}/history [get]
func (h *NoteHistoryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	history, err := h.App.NoteService.History(ctx, c.Param("slug"), credential(c))
	if err != nil {
		h.logError(ctx, "NoteHistoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(history))
}

// Diff 对比历史版本
// @Summary 对比历史版本
// @Description to 缺省或为 -1 时与当前内容对比
// @Tags 笔记历史
// @Produce json
// @Param slug path string true "笔记地址"
// @Param params query dto.NoteDiffRequest true "对比参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDiffView} "成功"
// @Router /api/note/{slug}/diff [get]
func (h *NoteHistoryHandler) Diff(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteDiffRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHistoryHandler.Diff.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	view, err := h.App.NoteService.Diff(ctx, c.Param("slug"), params, credential(c))
	if err != nil {
		h.logError(ctx, "NoteHistoryHandler.Diff", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(view))
}

// Restore 恢复历史版本
// @Summary 恢复历史版本
// @Description 以历史版本内容执行一次更新，历史只增不减
// @Tags 笔记历史
// @Accept json
// @Produce json
// @Param slug path string true "笔记地址"
// @Param params body dto.NoteRestoreRequest true "恢复参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteUpdateResponse} "成功"
// @Router /api/note/{slug}/restore [post]
func (h *NoteHistoryHandler) Restore(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteRestoreRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHistoryHandler.Restore.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	restored, err := h.App.NoteService.Restore(ctx, c.Param("slug"), params, credential(c))
	if err != nil {
		h.logError(ctx, "NoteHistoryHandler.Restore", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessRestore.WithData(restored))
}
