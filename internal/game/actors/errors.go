package actors

import "ManaMerge/modules/kit/errx"

const (
	CodeNotReady       errx.Code = "GAME_NOT_READY"
	CodeUnknownRequest errx.Code = "GAME_UNKNOWN_REQUEST"
)

var (
	ErrNotReady       = errx.NewSys(CodeNotReady, "游戏未就绪")
	ErrUnknownRequest = errx.NewSys(CodeUnknownRequest, "未知请求")
)

// access 日志的 biz_code 分级。
const (
	accessOK  = 0
	accessBiz = 400
	accessSys = 500
)
