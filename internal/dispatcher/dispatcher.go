package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/Hara602/hidSentry/internal/analysis"
	"github.com/Hara602/hidSentry/internal/model"
	"github.com/Hara602/hidSentry/internal/monitor"
	"github.com/Hara602/hidSentry/internal/whitelist"
	"go.uber.org/zap"
)

// Outcome 一次插拔通知的处理结果
type Outcome int

const (
	OutcomeRemoved Outcome = iota
	OutcomeWhitelisted
	OutcomeStorage
	OutcomeOther
	OutcomeUnresolved
	OutcomeAlreadyMonitored
	OutcomeMonitoring
)

func (o Outcome) String() string {
	return [...]string{"removed", "whitelisted", "storage", "other", "unresolved", "already-monitored", "monitoring"}[o]
}

type Resolver interface {
	Resolve(id model.DeviceIdentity) (string, error)
}

type Auditor interface {
	Record(message string)
}

// Dispatcher 插拔事件主循环：白名单 -> 分类 -> 解析事件流 -> 为每个 HID 设备启动一个 Monitor。
// 白名单和检测参数加载后只读，直接按值共享给所有 Monitor。
type Dispatcher struct {
	whitelist  []whitelist.Entry
	settings   monitor.Settings
	resolver   Resolver
	open       monitor.Opener
	audit      Auditor
	detections chan<- model.Detection
	log        *zap.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	active map[string]struct{} // 正在被监控的事件流
}

func New(entries []whitelist.Entry, settings monitor.Settings, resolver Resolver, open monitor.Opener,
	audit Auditor, detections chan<- model.Detection, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		whitelist:  entries,
		settings:   settings,
		resolver:   resolver,
		open:       open,
		audit:      audit,
		detections: detections,
		log:        log,
		active:     make(map[string]struct{}),
	}
}

// Run 阻塞处理事件，直到 ctx 取消或事件通道关闭；返回前等待所有 Monitor 退出
func (d *Dispatcher) Run(ctx context.Context, events <-chan model.DeviceIdentity) {
	defer d.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			d.log.Info("Dispatcher shutting down, stopping monitors", zap.Int("active", d.Active()))
			return
		case id, ok := <-events:
			if !ok {
				d.log.Info("Hotplug source closed")
				return
			}
			d.Handle(ctx, id)
		}
	}
}

// Handle 处理一次插拔通知，单个设备的任何失败都不会影响主循环
func (d *Dispatcher) Handle(ctx context.Context, id model.DeviceIdentity) Outcome {
	fields := []zap.Field{
		zap.String("vid", id.VendorID),
		zap.String("pid", id.ProductID),
		zap.String("serial", id.Serial),
		zap.String("model", id.Model),
	}

	if id.Action != "add" {
		// 被监控的事件流会在下一次读取时失败，Monitor 自行退出
		d.log.Info("❌ USB Removed", append(fields, zap.String("devpath", id.DevicePath))...)
		return OutcomeRemoved
	}

	d.log.Info("✅ USB Connected", fields...)

	if whitelist.IsWhitelisted(id, d.whitelist) {
		d.log.Info("Whitelisted device, ignored", fields...)
		d.record(fmt.Sprintf("Ignored Whitelisted Device: V=%s, P=%s, S=%s", id.VendorID, id.ProductID, id.Serial))
		return OutcomeWhitelisted
	}

	class := analysis.Classify(id)
	switch class {
	case model.ClassStorage:
		d.log.Info("Storage device, not monitored", fields...)
		d.record(fmt.Sprintf("USB-Storage Connected: Model=%s, V=%s, P=%s, S=%s", id.Model, id.VendorID, id.ProductID, id.Serial))
		return OutcomeStorage
	case model.ClassOther:
		d.log.Info("Non-HID device, ignored", append(fields,
			zap.String("driver", id.Driver), zap.String("interfaces", id.Interfaces))...)
		return OutcomeOther
	}

	if analysis.IsComposite(id.Interfaces) {
		d.log.Warn("🚨 Composite HID + storage device (BadUSB pattern)", fields...)
		d.record(fmt.Sprintf("Composite HID+Storage Device: Model=%s, V=%s, P=%s, S=%s, Interfaces=%s",
			id.Model, id.VendorID, id.ProductID, id.Serial, id.Interfaces))
	}

	stream, err := d.resolver.Resolve(id)
	if err != nil {
		d.log.Warn("No event device found, skipping", append(fields, zap.Error(err))...)
		return OutcomeUnresolved
	}

	if !d.claim(stream) {
		d.log.Debug("Event stream already monitored", append(fields, zap.String("stream", stream))...)
		return OutcomeAlreadyMonitored
	}

	src, err := d.open(stream)
	if err != nil {
		d.release(stream)
		d.log.Warn("Failed to open event stream, skipping", append(fields, zap.String("stream", stream), zap.Error(err))...)
		return OutcomeUnresolved
	}

	m := monitor.New(id, stream, src, d.settings, d.detections, d.log)
	d.log.Info("👀 HID device not whitelisted, monitoring keystrokes",
		append(fields, zap.String("stream", stream), zap.String("session", m.Session()))...)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.release(stream)
		state := m.Run(ctx)
		d.log.Info("Monitor finished", zap.String("stream", stream), zap.String("state", state.String()))
	}()
	return OutcomeMonitoring
}

// Active 当前监控中的事件流数量
func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.active)
}

// Wait 等待所有 Monitor 退出
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) claim(stream string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.active[stream]; ok {
		return false
	}
	d.active[stream] = struct{}{}
	return true
}

func (d *Dispatcher) release(stream string) {
	d.mu.Lock()
	delete(d.active, stream)
	d.mu.Unlock()
}

func (d *Dispatcher) record(msg string) {
	if d.audit != nil {
		d.audit.Record(msg)
	}
}
