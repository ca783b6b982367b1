package response

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Hara602/hidSentry/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	calls []string
}

type fakeNotifier struct {
	rec *recorder
	err error
	msg string
}

func (n *fakeNotifier) Notify(_ context.Context, message string) error {
	n.rec.calls = append(n.rec.calls, "notify")
	n.msg = message
	return n.err
}

type fakeAuditor struct {
	rec   *recorder
	lines []string
}

func (a *fakeAuditor) Record(message string) {
	a.rec.calls = append(a.rec.calls, "audit")
	a.lines = append(a.lines, message)
}

type fakeBlocker struct {
	rec   *recorder
	err   error
	paths []string
}

func (b *fakeBlocker) Block(devPath string) error {
	b.rec.calls = append(b.rec.calls, "block")
	b.paths = append(b.paths, devPath)
	return b.err
}

var detection = model.Detection{
	Device: model.DeviceIdentity{
		VendorID:   "046d",
		ProductID:  "c52b",
		Model:      "USB_Receiver",
		DevicePath: "/devices/pci0000:00/0000:00:14.0/usb1/1-1",
	},
	Stream:    "/dev/input/event5",
	Rate:      13,
	Window:    time.Second,
	SessionID: "s-1",
	TimeStamp: time.Unix(1700000000, 0),
}

func TestRespondRunsAllStepsInOrder(t *testing.T) {
	rec := &recorder{}
	n := &fakeNotifier{rec: rec}
	a := &fakeAuditor{rec: rec}
	b := &fakeBlocker{rec: rec}

	NewCoordinator(n, a, b, nil).Respond(context.Background(), detection)

	if got := strings.Join(rec.calls, ","); got != "notify,audit,block" {
		t.Fatalf("calls = %s, want notify,audit,block", got)
	}
	if !strings.Contains(n.msg, "Vendor: 046d") || !strings.Contains(n.msg, "Speed: 13 keys/sec") {
		t.Errorf("unexpected alert: %q", n.msg)
	}
	if len(a.lines) != 1 || a.lines[0] != n.msg {
		t.Errorf("audit lines = %q", a.lines)
	}
	if len(b.paths) != 1 || b.paths[0] != detection.Device.DevicePath {
		t.Errorf("blocked paths = %q", b.paths)
	}
}

func TestRespondContinuesAfterFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &recorder{}
	n := &fakeNotifier{rec: rec, err: model.ErrNotifierFailure}
	a := &fakeAuditor{rec: rec}
	b := &fakeBlocker{rec: rec, err: errors.New("permission denied")}

	NewCoordinator(n, a, b, zap.New(core)).Respond(context.Background(), detection)

	if got := strings.Join(rec.calls, ","); got != "notify,audit,block" {
		t.Fatalf("calls = %s, want every step despite failures", got)
	}
	if logs.FilterMessage("Alert delivery failed").Len() != 1 {
		t.Error("notifier failure not logged")
	}
	if logs.FilterMessage("Failed to block device").Len() != 1 {
		t.Error("block failure not logged")
	}
}

func TestRunRespondsOncePerDetection(t *testing.T) {
	rec := &recorder{}
	b := &fakeBlocker{rec: rec}
	a := &fakeAuditor{rec: rec}
	c := NewCoordinator(nil, a, b, nil)

	ch := make(chan model.Detection, 2)
	ch <- detection
	second := detection
	second.SessionID = "s-2"
	ch <- second
	close(ch)

	c.Run(context.Background(), ch)

	if len(a.lines) != 2 || len(b.paths) != 2 {
		t.Fatalf("expected two responses, got audit=%d block=%d", len(a.lines), len(b.paths))
	}
}

func TestAlertMessageWithoutSerial(t *testing.T) {
	msg := AlertMessage(detection)
	if !strings.Contains(msg, "Serial: N/A") {
		t.Errorf("missing serial placeholder: %q", msg)
	}
	d := detection
	d.Window = 500 * time.Millisecond
	if !strings.Contains(AlertMessage(d), "Speed: 13 keys/500ms") {
		t.Errorf("unexpected window rendering: %q", AlertMessage(d))
	}
}

func TestRunDrainsQueuedDetectionsAfterCancel(t *testing.T) {
	for i := 0; i < 50; i++ {
		rec := &recorder{}
		a := &fakeAuditor{rec: rec}
		b := &fakeBlocker{rec: rec}
		c := NewCoordinator(&fakeNotifier{rec: rec}, a, b, nil)

		ch := make(chan model.Detection, 1)
		ch <- detection
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		close(ch)

		c.Run(ctx, ch)

		if len(a.lines) != 1 || len(b.paths) != 1 {
			t.Fatalf("run %d: queued detection dropped, audit=%d block=%d", i, len(a.lines), len(b.paths))
		}
	}
}
