package analysis

import (
	"strings"

	"github.com/Hara602/hidSentry/internal/model"
)

// Classify 根据驱动名和接口类别串把设备分为 HID / STORAGE / OTHER，HID 优先。
// 只对 "add" 事件有意义，调用方负责过滤 "remove"。
func Classify(id model.DeviceIdentity) model.DeviceClass {
	switch {
	case IsHID(id):
		return model.ClassHID
	case IsStorage(id):
		return model.ClassStorage
	default:
		return model.ClassOther
	}
}

// IsHID 驱动名含 "hid"，或接口类别串含 03 (HID) / 0301 (boot keyboard)
func IsHID(id model.DeviceIdentity) bool {
	driver := strings.ToLower(id.Driver)
	return strings.Contains(driver, "hid") ||
		strings.Contains(id.Interfaces, "0301") ||
		strings.Contains(id.Interfaces, "03")
}

// IsStorage 驱动为 usb-storage，或接口类别串以 08 (Mass Storage) 开头。
// udev 的 ID_USB_INTERFACES 以 ':' 开头，例如 ":080650:"，比较前去掉。
func IsStorage(id model.DeviceIdentity) bool {
	driver := strings.ToLower(id.Driver)
	return strings.Contains(driver, "usb-storage") ||
		strings.HasPrefix(strings.TrimLeft(id.Interfaces, ":"), "08")
}
