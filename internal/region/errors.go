package region

import "ManaMerge/modules/kit/errx"

const (
	CodeUnknown          errx.Code = "REGION_UNKNOWN"
	CodeLocked           errx.Code = "REGION_LOCKED"
	CodeAlreadyUnlocked  errx.Code = "REGION_ALREADY_UNLOCKED"
	CodeDefeatsRequired  errx.Code = "REGION_DEFEATS_REQUIRED"
	CodeInsufficientMana errx.Code = "REGION_INSUFFICIENT_MANA"
)

var (
	ErrUnknown          = errx.NewBiz(CodeUnknown, "未知区域")
	ErrLocked           = errx.NewBiz(CodeLocked, "区域未解锁")
	ErrAlreadyUnlocked  = errx.NewBiz(CodeAlreadyUnlocked, "区域已解锁")
	ErrDefeatsRequired  = errx.NewBiz(CodeDefeatsRequired, "击败数不足")
	ErrInsufficientMana = errx.NewBiz(CodeInsufficientMana, "法力不足")
)
