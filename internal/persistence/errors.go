package persistence

import "ManaMerge/modules/kit/errx"

const (
	CodeStoreUnavailable errx.Code = errx.CodeUnavailable
	CodeEncodeFailed     errx.Code = "SAVE_ENCODE_FAILED"
)

var (
	ErrStoreUnavailable = errx.ErrUnavailable
	ErrEncodeFailed     = errx.NewSys(CodeEncodeFailed, "存档编码失败")
	ErrCorrupt          = errx.ErrCorrupt
)

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	ReasonStoreRead     = NewReason("SAVE_STORE_READ_FAIL", "存档读取失败")
	ReasonStoreWrite    = NewReason("SAVE_STORE_WRITE_FAIL", "存档写入失败")
	ReasonStoreDelete   = NewReason("SAVE_STORE_DELETE_FAIL", "存档删除失败")
	ReasonRecordCorrupt = NewReason("SAVE_RECORD_CORRUPT", "存档记录损坏，已使用默认值")
	ReasonLegacyMigrate = NewReason("SAVE_LEGACY_MIGRATE", "旧版存档迁移")
)
