package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Hara602/hidSentry/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeySource 一个输入事件流，由单个 Monitor 独占
type KeySource interface {
	// Next 阻塞直到下一条事件；流关闭或设备拔出后返回错误
	Next() (model.KeyEvent, error)
	// Close 可重复调用，会让阻塞中的 Next 返回
	Close() error
}

// Opener 打开 /dev/input/eventN
type Opener func(path string) (KeySource, error)

type State int32

const (
	StateIdle State = iota
	StateActive
	StateTriggered
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActive:
		return "ACTIVE"
	case StateTriggered:
		return "TRIGGERED"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Settings 检测参数，加载后只读
type Settings struct {
	Threshold int
	Window    time.Duration
}

// Monitor 单个设备的按键速率检测，一次会话最多触发一次
type Monitor struct {
	device     model.DeviceIdentity
	stream     string
	source     KeySource
	window     *RateWindow
	settings   Settings
	detections chan<- model.Detection
	now        func() time.Time
	log        *zap.Logger
	session    string
	state      atomic.Int32
}

func New(device model.DeviceIdentity, stream string, source KeySource, settings Settings,
	detections chan<- model.Detection, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	session := uuid.NewString()
	return &Monitor{
		device:     device,
		stream:     stream,
		source:     source,
		window:     NewRateWindow(settings.Window, settings.Threshold),
		settings:   settings,
		detections: detections,
		now:        time.Now,
		log:        log.With(zap.String("stream", stream), zap.String("session", session)),
		session:    session,
	}
}

// WithClock 替换时钟，time.Now 自带单调时钟读数
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

func (m *Monitor) Session() string {
	return m.session
}

// Run 阻塞读取事件流直到检测触发、读错误或 ctx 取消，返回终止状态。
// 返回前一定关闭事件流。
func (m *Monitor) Run(ctx context.Context) State {
	// ctx 取消时关闭事件流，让阻塞的 Next 返回
	stopClose := context.AfterFunc(ctx, func() { _ = m.source.Close() })
	defer stopClose()
	defer m.source.Close()

	m.log.Info("⌨️ Monitoring typing speed",
		zap.String("vid", m.device.VendorID),
		zap.String("pid", m.device.ProductID),
		zap.Int("threshold", m.settings.Threshold),
		zap.Duration("window", m.settings.Window))

	for {
		ev, err := m.source.Next()
		if err != nil {
			if ctx.Err() == nil {
				m.log.Info("Event stream ended", zap.Error(fmt.Errorf("%w: %v", model.ErrStreamReadFailure, err)))
			}
			return m.stop()
		}
		m.state.CompareAndSwap(int32(StateIdle), int32(StateActive))

		if !ev.IsKeyDown() {
			continue
		}

		ts := m.now()
		rate, exceeded := m.window.Observe(ts)
		if !exceeded {
			continue
		}

		m.state.Store(int32(StateTriggered))
		det := model.Detection{
			Device:    m.device,
			Stream:    m.stream,
			Rate:      rate,
			Window:    m.settings.Window,
			SessionID: m.session,
			TimeStamp: ts,
		}
		m.log.Warn("🚨 HID rapid typing detected", zap.Int("rate", rate))

		// 关机期间也必须交付：响应方会一直消费到通道关闭
		m.detections <- det
		return StateTriggered
	}
}

func (m *Monitor) stop() State {
	m.state.Store(int32(StateStopped))
	return StateStopped
}

// ErrClosed 事件流已被 Close
var ErrClosed = errors.New("event stream closed")
