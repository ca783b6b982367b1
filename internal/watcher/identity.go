package watcher

import (
	"path/filepath"
	"time"

	"github.com/Hara602/hidSentry/internal/analysis"
	"github.com/Hara602/hidSentry/internal/model"
	"github.com/Hara602/hidSentry/internal/sysutil"
)

// identityFromEnv 用 udev 属性构造设备身份。
// udev 没给出 ID_USB_INTERFACES 时，回溯 sysfs 读取各接口的 bInterfaceClass。
func identityFromEnv(action string, env map[string]string, sysfsRoot string) model.DeviceIdentity {
	id := model.DeviceIdentity{
		Action:     action,
		VendorID:   valueOr(env["ID_VENDOR_ID"], "N/A"),
		ProductID:  valueOr(env["ID_MODEL_ID"], "N/A"),
		Serial:     env["ID_SERIAL_SHORT"],
		Model:      valueOr(env["ID_MODEL"], "Unknown"),
		Driver:     env["ID_USB_DRIVER"],
		Interfaces: env["ID_USB_INTERFACES"],
		DevicePath: env["DEVPATH"],
		TimeStamp:  time.Now(),
	}

	if action == "add" && id.Interfaces == "" && id.DevicePath != "" && sysfsRoot != "" {
		if usbRoot := sysutil.FindUSBRoot(filepath.Join(sysfsRoot, id.DevicePath), sysfsRoot); usbRoot != "" {
			id.Interfaces = analysis.InterfacesString(analysis.SysfsInterfaceClasses(usbRoot))
		}
	}
	return id
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
