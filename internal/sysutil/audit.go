package sysutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const auditTimeLayout = "2006-01-02 15:04:05.000000"

// AuditLog 只追加的审计文本日志，每个事件一行: [时间] 消息
type AuditLog struct {
	logger *zap.Logger
	closer io.Closer
}

// OpenAuditLog 以追加方式打开审计文件
func OpenAuditLog(path string) (*AuditLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	a := NewAuditLog(f)
	a.closer = f
	return a, nil
}

// NewAuditLog 写入任意 io.Writer
func NewAuditLog(w io.Writer) *AuditLog {
	encCfg := zapcore.EncoderConfig{
		TimeKey:    "ts",
		MessageKey: "msg",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + t.Format(auditTimeLayout) + "]")
		},
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), zap.InfoLevel)
	return &AuditLog{logger: zap.New(core)}
}

// Record 写一行；多行消息压成一行
func (a *AuditLog) Record(message string) {
	if a == nil {
		return
	}
	a.logger.Info(flatten(message))
}

func (a *AuditLog) Close() error {
	if a == nil {
		return nil
	}
	_ = a.logger.Sync()
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func flatten(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " | ")), " ")
}
