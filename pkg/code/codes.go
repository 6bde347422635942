package code

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	Failed  = NewError(0, lang{en: "Failed", zh_cn: "失败"})

	SuccessPull       = NewSuss(2, lang{en: "Source synchronized", zh_cn: "源码同步成功"})
	SuccessInstall    = NewSuss(3, lang{en: "Dependencies installed", zh_cn: "依赖安装成功"})
	SuccessRestart    = NewSuss(4, lang{en: "Restart triggered, server is restarting", zh_cn: "已触发重启，服务正在重启"})
	SuccessNoRestart  = NewSuss(5, lang{en: "Update completed, no restart needed", zh_cn: "更新完成，无需重启"})
	SuccessRestarting = NewSuss(6, lang{en: "Update completed, server is restarting", zh_cn: "更新完成，服务正在重启"})

	ErrorServerInternal       = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorNotFoundAPI          = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorInvalidParams        = NewError(400, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorTooManyRequests      = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorNotUserAuthToken     = NewError(401, lang{en: "Authorization token is missing", zh_cn: "缺少授权令牌"})
	ErrorInvalidUserAuthToken = NewError(402, lang{en: "Authorization token is invalid", zh_cn: "授权令牌无效"})
	ErrorUserNotAdmin         = NewError(403, lang{en: "Root operator permission required", zh_cn: "需要管理员权限"})
	ErrorInvalidAuthToken     = NewError(405, lang{en: "Access token is invalid", zh_cn: "访问令牌无效"})

	ErrorNoVersionControl = NewError(1001, lang{en: "No version control available", zh_cn: "版本控制不可用"})
	ErrorUpdateCheck      = NewError(1002, lang{en: "Update check failed", zh_cn: "检查更新失败"})
	ErrorUpdatePull       = NewError(1003, lang{en: "Source synchronization failed", zh_cn: "源码同步失败"})
	ErrorUpdateInstall    = NewError(1004, lang{en: "Dependency installation failed", zh_cn: "依赖安装失败"})
	ErrorUpdateRestart    = NewError(1005, lang{en: "Restart failed", zh_cn: "重启失败"})
)
