// Package code defines the result codes carried in every API response envelope
// Package code 定义所有接口响应信封中携带的结果码
package code

import (
	"fmt"
	"net/http"
)

// Code is one result code; shared instances are templates, call Clone before attaching data
// Code 表示一个结果码；共享实例只作为模板，附加数据前先调用 Clone
type Code struct {
	code   int
	status bool
	Lang   lang

	data     any
	haveData bool

	details     []string
	haveDetails bool
}

var (
	errorCodes   = map[int]string{}
	successCodes = map[int]string{}
)

// NewError registers a failure code, duplicate numbers panic at init
// NewError 注册失败码，重复编号在初始化时直接 panic
func NewError(c int, l lang) *Code {
	register(errorCodes, c, l, "error")
	return &Code{code: c, status: false, Lang: l}
}

// NewSuss registers a success code
// NewSuss 注册成功码
func NewSuss(c int, l lang) *Code {
	register(successCodes, c, l, "success")
	return &Code{code: c, status: true, Lang: l}
}

func register(table map[int]string, c int, l lang, kind string) {
	if prev, ok := table[c]; ok {
		panic(fmt.Sprintf("%s code %d already registered as %q", kind, c, prev))
	}
	table[c] = l.en
}

// Clone returns a copy without data or details
// Clone 返回不带数据和详情的副本
func (e *Code) Clone() *Code {
	return &Code{code: e.code, status: e.status, Lang: e.Lang}
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

// Msg is the message in the current request language
func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Data() any {
	return e.data
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) WithData(data any) *Code {
	e.haveData = true
	e.data = data
	return e
}

// WithDetails appends details, empty strings are skipped
// WithDetails 追加详情，空字符串会被忽略
func (e *Code) WithDetails(details ...string) *Code {
	for _, d := range details {
		if d == "" {
			continue
		}
		e.details = append(e.details, d)
		e.haveDetails = true
	}
	return e
}

// StatusCode is always 200, the outcome lives in the envelope
// StatusCode 始终为 200，结果由响应信封中的 code/status 表示
func (e *Code) StatusCode() int {
	return http.StatusOK
}
