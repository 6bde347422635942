package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldOperationID 更新操作 ID 字段
	FieldOperationID = "operationId"

	// FieldPath 文件路径字段
	FieldPath = "path"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldVersion 版本号字段
	FieldVersion = "version"

	// FieldTag 标签字段
	FieldTag = "tag"

	// FieldPID 进程 ID 字段
	FieldPID = "pid"
)
