package watcher

import "github.com/Hara602/hidSentry/internal/model"

// DeviceWatcher 产出 USB 插拔通知
type DeviceWatcher interface {
	Start() (<-chan model.DeviceIdentity, error)
	Stop()
}

func New(sysfsRoot string) DeviceWatcher {
	return newWatcher(sysfsRoot)
}
