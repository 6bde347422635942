package app

import (
	"net/http"
	"strings"

	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

// CheckVersionInfo result of the last background update check // 最近一次后台检查更新的结果
type CheckVersionInfo struct {
	VersionIsNew   bool   `json:"versionIsNew"`
	VersionNewName string `json:"versionNewName"`
	VersionNewLink string `json:"versionNewLink"`
	PatchNew       int    `json:"patchNew"`
	FrontendOnly   bool   `json:"frontendOnly"`
}

type Response struct {
	Ctx *gin.Context
}

// Res is the unified response structure: Code/Status/Msg/Data
// Optional field Details uses omitempty (will not be serialized if nil)
// Res 是统一的响应结构：Code/Status/Msg/Data
// 可选字段 Details 使用 omitempty（nil 则不会被序列化）
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// ToResponse output to browser: unified use of Res, set Details as needed
// ToResponse 输出到浏览器：统一使用 Res，根据情况设置 Details
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Msg(),
		Data:    codeObj.Data(),
	}

	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	r.send(codeObj.StatusCode(), content)
}

// Flush pushes buffered response bytes to the client
// Flush 将已缓冲的响应立即推送给客户端
// Used before work that may outlive the connection (e.g. process restart)
// 用于可能导致连接中断的后续操作之前（例如进程重启）
func (r *Response) Flush() {
	if f, ok := r.Ctx.Writer.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
