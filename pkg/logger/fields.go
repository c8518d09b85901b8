package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldSlug 笔记地址字段
	FieldSlug = "slug"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldPath 请求路径字段
	FieldPath = "path"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldClientIP 客户端地址字段
	FieldClientIP = "clientIp"

	// FieldRevision 历史版本序号字段
	FieldRevision = "revision"

	// FieldStore 限流存储字段
	FieldStore = "store"

	// FieldTask 任务名称字段
	FieldTask = "task"
)
