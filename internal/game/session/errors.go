package session

import "ManaMerge/modules/kit/errx"

type Code = errx.Code

const (
	CodeInsufficientMana Code = "GAME_INSUFFICIENT_MANA"
	CodeInvalidMove      Code = "GAME_INVALID_MOVE"
	CodeInvalidTarget    Code = "GAME_INVALID_TARGET"
	CodeBoardFull        Code = "GAME_BOARD_FULL"
	CodeBusy             Code = "GAME_BUSY"
	CodeUnknownItem      Code = "GAME_UNKNOWN_ITEM"
	CodeItemEmpty        Code = "GAME_ITEM_EMPTY"
	CodeItemGated        Code = "GAME_ITEM_GATED"
	CodeUnknownUpgrade   Code = "GAME_UNKNOWN_UPGRADE"
	CodeUpgradeMaxed     Code = "GAME_UPGRADE_MAXED"
	CodeRegionLocked     Code = "GAME_REGION_LOCKED"
)

// 业务拒绝都是正常的否定结果：返回错误，不修改任何状态。
var (
	ErrInsufficientMana = errx.NewBiz(CodeInsufficientMana, "法力不足")
	ErrInvalidMove      = errx.NewBiz(CodeInvalidMove, "无法移动")
	ErrInvalidTarget    = errx.NewBiz(CodeInvalidTarget, "目标格不可用")
	ErrBoardFull        = errx.NewBiz(CodeBoardFull, "棋盘已满")
	ErrBusy             = errx.NewBiz(CodeBusy, "连锁结算中")
	ErrUnknownItem      = errx.NewBiz(CodeUnknownItem, "未知道具")
	ErrItemEmpty        = errx.NewBiz(CodeItemEmpty, "道具数量不足")
	ErrItemGated        = errx.NewBiz(CodeItemGated, "道具未解锁")
	ErrUnknownUpgrade   = errx.NewBiz(CodeUnknownUpgrade, "未知升级")
	ErrUpgradeMaxed     = errx.NewBiz(CodeUpgradeMaxed, "升级已满级")
	ErrRegionLocked     = errx.NewBiz(CodeRegionLocked, "区域未解锁")
)
