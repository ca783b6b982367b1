package response

import (
	"context"
	"fmt"
	"time"

	"github.com/Hara602/hidSentry/internal/model"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type Auditor interface {
	Record(message string)
}

// Blocker 断开设备，需要特权
type Blocker interface {
	Block(devPath string) error
}

// Coordinator 对每个检测结果依次执行：告警、审计、断开设备。
// 每一步独立尽力而为，前一步失败不影响后续步骤。
type Coordinator struct {
	notifier Notifier
	audit    Auditor
	blocker  Blocker
	log      *zap.Logger
}

func NewCoordinator(notifier Notifier, audit Auditor, blocker Blocker, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{notifier: notifier, audit: audit, blocker: blocker, log: log}
}

// Run 消费检测结果直到通道关闭。
// 关机时由发送方关闭通道，已排队的检测仍会被审计和断开。
func (c *Coordinator) Run(ctx context.Context, detections <-chan model.Detection) {
	for det := range detections {
		c.Respond(ctx, det)
	}
}

// Respond 处理一次检测
func (c *Coordinator) Respond(ctx context.Context, det model.Detection) {
	msg := AlertMessage(det)
	fields := []zap.Field{
		zap.String("vid", det.Device.VendorID),
		zap.String("pid", det.Device.ProductID),
		zap.String("serial", det.Device.Serial),
		zap.Int("rate", det.Rate),
		zap.String("session", det.SessionID),
	}
	c.log.Error("🚨 BADUSB KEYSTROKE INJECTION", fields...)

	// 1. 告警，网络或鉴权失败只记录
	if c.notifier != nil {
		if err := c.notifier.Notify(ctx, msg); err != nil {
			c.log.Warn("Alert delivery failed", append(fields, zap.Error(err))...)
		}
	}

	// 2. 审计
	if c.audit != nil {
		c.audit.Record(msg)
	}

	// 3. 断开设备，不重试；设备被摘除后会产生 remove 事件
	if c.blocker != nil {
		if err := c.blocker.Block(det.Device.DevicePath); err != nil {
			c.log.Error("Failed to block device", append(fields, zap.String("devpath", det.Device.DevicePath), zap.Error(err))...)
		} else {
			c.log.Warn("⛔ Device removed", append(fields, zap.String("devpath", det.Device.DevicePath))...)
		}
	}
}

// AlertMessage 告警文本
func AlertMessage(det model.Detection) string {
	serial := det.Device.Serial
	if serial == "" {
		serial = "N/A"
	}
	window := det.Window
	if window <= 0 {
		window = time.Second
	}
	return fmt.Sprintf("HID Rapid Typing Detected!\nVendor: %s\nProduct: %s\nSerial: %s\nModel: %s\nSpeed: %d keys/%s",
		det.Device.VendorID, det.Device.ProductID, serial, det.Device.Model, det.Rate, formatWindow(window))
}

func formatWindow(w time.Duration) string {
	if w == time.Second {
		return "sec"
	}
	return w.String()
}
