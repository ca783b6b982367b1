//go:build !linux

package monitor

import "errors"

func OpenEvdev(path string) (KeySource, error) {
	return nil, errors.New("evdev input streams are only supported on linux")
}
