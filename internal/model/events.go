package model

import "time"

// linux/input-event-codes.h
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01

	KeyStateUp     int32 = 0
	KeyStateDown   int32 = 1
	KeyStateRepeat int32 = 2
)

// DeviceClass 设备分类结果
type DeviceClass int

const (
	ClassOther DeviceClass = iota
	ClassHID
	ClassStorage
)

func (c DeviceClass) String() string {
	switch c {
	case ClassHID:
		return "HID"
	case ClassStorage:
		return "STORAGE"
	default:
		return "OTHER"
	}
}

// DeviceIdentity 一次 USB 插拔通知对应的设备身份，创建后不再修改
type DeviceIdentity struct {
	Action     string // "add", "remove"
	VendorID   string // ID_VENDOR_ID
	ProductID  string // ID_MODEL_ID
	Serial     string // ID_SERIAL_SHORT，可为空
	Model      string // ID_MODEL
	Driver     string // ID_USB_DRIVER
	Interfaces string // ID_USB_INTERFACES, e.g. ":030101:030102:"
	DevicePath string // DEVPATH, e.g. /devices/pci0000:00/0000:00:14.0/usb1/1-1
	TimeStamp  time.Time
}

// KeyEvent 从内核输入事件流读出的一条事件
type KeyEvent struct {
	Type      uint16
	Code      uint16
	Value     int32
	TimeStamp time.Time
}

// IsKeyDown 只有按下 (value=1) 计入速率，抬起和自动重复 (value=2) 不计
func (e KeyEvent) IsKeyDown() bool {
	return e.Type == EvKey && e.Value == KeyStateDown
}

// Detection 打字速率超过阈值时产生，交给响应模块后丢弃
type Detection struct {
	Device    DeviceIdentity
	Stream    string // e.g. /dev/input/event5
	Rate      int    // 窗口内的按键数
	Window    time.Duration
	SessionID string
	TimeStamp time.Time
}
