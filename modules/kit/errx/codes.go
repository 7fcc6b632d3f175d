package errx

// 跨模块统一的系统类错误码。
//
// 约束：业务域错误码（例如 GAME_INSUFFICIENT_MANA）由各业务包自行定义，不在 kit 里集中。
const (
	// CodeInternal 表示不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示存储不可用（sqlite 文件被占用、mysql/mongo 连接失败等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示 actor 请求或存储调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeCorrupt 表示持久化记录损坏（解压、校验或反序列化失败）。
	CodeCorrupt Code = "DATA_CORRUPT"
	// 请求参数错误
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "存储不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrCorrupt     = NewSys(CodeCorrupt, "存档记录损坏")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
