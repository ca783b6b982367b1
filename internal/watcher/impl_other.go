//go:build !linux

package watcher

import (
	"errors"

	"github.com/Hara602/hidSentry/internal/model"
)

type stubWatcher struct{}

func newWatcher(string) DeviceWatcher { return stubWatcher{} }

func (stubWatcher) Start() (<-chan model.DeviceIdentity, error) {
	return nil, errors.New("usb hotplug monitoring is only supported on linux")
}

func (stubWatcher) Stop() {}
