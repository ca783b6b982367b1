package enforcer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hara602/hidSentry/internal/model"
	"github.com/Hara602/hidSentry/internal/sysutil"
)

const (
	ModeRemove      = "remove"      // 写 1 到 remove，从总线上摘除设备
	ModeDeauthorize = "deauthorize" // 写 0 到 authorized，物理层级禁用
)

// SysfsBlocker 通过 Sysfs 断开设备，需要 root 权限
type SysfsBlocker struct {
	root string
	mode string
}

func NewSysfsBlocker(sysfsRoot, mode string) *SysfsBlocker {
	if mode != ModeDeauthorize {
		mode = ModeRemove
	}
	return &SysfsBlocker{root: sysfsRoot, mode: mode}
}

// Block devPath 为 uevent 里的 DEVPATH，例如 /devices/pci0000:00/0000:00:14.0/usb1/1-1/1-1:1.0
// 接口级路径会向上回溯到 USB 设备根目录
func (b *SysfsBlocker) Block(devPath string) error {
	if devPath == "" {
		return fmt.Errorf("%w: empty device path", model.ErrBlockActionFailure)
	}
	sysPath := filepath.Join(b.root, devPath)
	usbRoot := sysutil.FindUSBRoot(sysPath, b.root)
	if usbRoot == "" {
		return fmt.Errorf("%w: no usb device above %s", model.ErrBlockActionFailure, sysPath)
	}

	attr, value := "remove", "1"
	if b.mode == ModeDeauthorize {
		attr, value = "authorized", "0"
	}
	path := filepath.Join(usbRoot, attr)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", model.ErrBlockActionFailure, err)
	}
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("%w: %v", model.ErrBlockActionFailure, err)
	}
	return nil
}
