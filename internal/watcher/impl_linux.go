//go:build linux

package watcher

import (
	"github.com/Hara602/hidSentry/internal/model"
	"github.com/Hara602/hidSentry/internal/sysutil"
	"github.com/pilebones/go-udev/netlink"
	"go.uber.org/zap"
)

type linuxWatcher struct {
	sysfsRoot string
	events    chan model.DeviceIdentity
	stop      chan struct{}
}

func newWatcher(sysfsRoot string) DeviceWatcher {
	return &linuxWatcher{
		sysfsRoot: sysfsRoot,
		events:    make(chan model.DeviceIdentity, 10),
		stop:      make(chan struct{}),
	}
}

func (w *linuxWatcher) Start() (<-chan model.DeviceIdentity, error) {
	// 监听 udev 重新广播的事件（带 ID_VENDOR_ID 等属性），而不是内核原始 uevent
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, err
	}
	// 创建一个队列用于接收事件
	queue := make(chan netlink.UEvent)
	errChan := make(chan error)

	quit := conn.Monitor(queue, errChan, nil)

	// 启动监听 goroutine
	go func() {
		// 确保退出时关闭连接
		defer conn.Close()
		defer close(w.events)

		for {
			select {
			case <-w.stop:
				// 发送退出信号给 Monitor
				close(quit)
				return

			case err := <-errChan:
				// 忽略底层网络错误，继续尝试
				sysutil.Log.Debug("udev monitor error", zap.Error(err))
				continue

			case uevent := <-queue:
				w.handleUdevEvent(uevent)
			}
		}
	}()
	return w.events, nil
}

func (w *linuxWatcher) Stop() {
	close(w.stop)
}

func (w *linuxWatcher) handleUdevEvent(uevent netlink.UEvent) {
	if !isUSBEvent(uevent.Env) {
		return
	}
	action := string(uevent.Action)
	if action != "add" && action != "remove" {
		return
	}
	id := identityFromEnv(action, uevent.Env, w.sysfsRoot)
	select {
	case w.events <- id:
	case <-w.stop:
	}
}
