package logx

import (
	"context"
	"errors"
	"testing"

	"ManaMerge/modules/kit/errx"

	"go.uber.org/zap"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("database is locked")
	e := errx.NewSys("SYS_STORE", "存储不可用").
		WithData("key", "mm:v2:board:plains").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空, got=%+v", meta)
	}
	if meta.Data == nil || meta.Data["key"] != "mm:v2:board:plains" {
		t.Fatalf("期望 meta.Data 包含 key, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

type recordLogger struct {
	infos, warns, errs int
}

func (r *recordLogger) Info(string, ...zap.Field)  { r.infos++ }
func (r *recordLogger) Error(string, ...zap.Field) { r.errs++ }
func (r *recordLogger) Debug(string, ...zap.Field) {}
func (r *recordLogger) Warn(string, ...zap.Field)  { r.warns++ }
func (r *recordLogger) WithContext(context.Context) Logger {
	return r
}

func TestReportAccess_按biz_code分级(t *testing.T) {
	l := &recordLogger{}
	ctx := context.Background()
	ReportAccessWithLoggerContext(ctx, l, "move", 0)
	ReportAccessWithLoggerContext(ctx, l, "summon", 402)
	ReportAccessWithLoggerContext(ctx, l, "save", 500)
	if l.infos != 1 || l.warns != 1 || l.errs != 1 {
		t.Fatalf("期望 info/warn/error 各一次, got=%+v", l)
	}
}

func TestReportSysError_nil错误不打印(t *testing.T) {
	l := &recordLogger{}
	ReportSysErrorWithLoggerContext(context.Background(), l, NewSysLog("save", nil))
	if l.errs != 0 {
		t.Fatalf("期望 nil 错误不打印, got=%d", l.errs)
	}
}
