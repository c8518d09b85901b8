package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	SuccessCreate  = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate  = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessRestore = NewSuss(4, lang{en: "Restored successfully", zh_cn: "恢复成功"})
	SuccessUnlock  = NewSuss(5, lang{en: "Unlocked", zh_cn: "解锁成功"})

	// 通用错误
	ErrorInvalidParams   = NewError(400, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorNotFoundAPI     = NewError(404, http.StatusNotFound, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorTooManyRequests = NewError(429, http.StatusTooManyRequests, lang{en: "Too many requests, please try again later", zh_cn: "请求过多，请稍后再试"})
	ErrorServerInternal  = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorDBQuery         = NewError(5001, http.StatusInternalServerError, lang{en: "Database operation failed", zh_cn: "数据库操作失败"})
	ErrorPasswordHash    = NewError(5002, http.StatusInternalServerError, lang{en: "Failed to process password", zh_cn: "密码处理失败"})
	ErrorTokenGenerate   = NewError(5003, http.StatusInternalServerError, lang{en: "Failed to issue token", zh_cn: "令牌签发失败"})
	ErrorRequestTimeout  = NewError(5004, http.StatusGatewayTimeout, lang{en: "Request timed out", zh_cn: "请求超时"})
	ErrorServiceStopping = NewError(503, http.StatusServiceUnavailable, lang{en: "Service is shutting down", zh_cn: "服务正在关闭"})
	ErrorSlugExhausted   = NewError(5030, http.StatusServiceUnavailable, lang{en: "Unable to allocate a note address, please try again", zh_cn: "无法分配笔记地址，请重试"})

	// 校验错误
	ErrorNoteTitleRequired   = NewError(4001, http.StatusBadRequest, lang{en: "Title is required", zh_cn: "标题不能为空"})
	ErrorNoteContentRequired = NewError(4002, http.StatusBadRequest, lang{en: "Content is required", zh_cn: "内容不能为空"})
	ErrorExpiresAtNotFuture  = NewError(4003, http.StatusBadRequest, lang{en: "Expiration time must be in the future", zh_cn: "过期时间必须晚于当前时间"})
	ErrorNoteContentTooLarge = NewError(4004, http.StatusBadRequest, lang{en: "Content is too large", zh_cn: "内容过大"})

	ErrorOffensiveContent = NewError(4010, http.StatusUnprocessableEntity, lang{en: "Content contains offensive language", zh_cn: "内容包含不当言论"})

	// 访问控制
	ErrorNotePasswordRequired = NewError(4020, http.StatusUnauthorized, lang{en: "This note is password protected", zh_cn: "该笔记受密码保护"})
	ErrorNotePasswordInvalid  = NewError(4021, http.StatusForbidden, lang{en: "Incorrect password", zh_cn: "密码错误"})
	ErrorNoteTokenInvalid     = NewError(4022, http.StatusForbidden, lang{en: "Invalid or expired note token", zh_cn: "笔记令牌无效或已过期"})

	ErrorNoteNotFound     = NewError(4040, http.StatusNotFound, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorRevisionNotFound = NewError(4041, http.StatusNotFound, lang{en: "Revision not found", zh_cn: "历史版本不存在"})

	ErrorNoteVersionConflict = NewError(4090, http.StatusConflict, lang{en: "Note was modified by someone else, reload and try again", zh_cn: "笔记已被修改，请刷新后重试"})
)
