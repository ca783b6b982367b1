package analysis

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Hara602/hidSentry/internal/sysutil"
)

// interfaceClasses 解析 ID_USB_INTERFACES，例如 ":030101:080650:" -> ["03", "08"]
func interfaceClasses(interfaces string) []string {
	var classes []string
	for _, f := range strings.Split(interfaces, ":") {
		if len(f) >= 2 {
			classes = append(classes, strings.ToLower(f[:2]))
		}
	}
	return classes
}

// IsComposite 一个 USB 设备同时拥有 03(HID) 和 08(存储) 接口，典型的 BadUSB 形态
func IsComposite(interfaces string) bool {
	return hasBoth(interfaceClasses(interfaces))
}

// SysfsInterfaceClasses 遍历 sysfs 下的接口目录（例如 1-1:1.0）读取 bInterfaceClass，
// 用于 udev 没有给出 ID_USB_INTERFACES 的情况
func SysfsInterfaceClasses(usbRoot string) []string {
	files, err := os.ReadDir(usbRoot)
	if err != nil {
		return nil
	}
	var classes []string
	for _, f := range files {
		if !strings.Contains(f.Name(), ":") {
			continue
		}
		class := sysutil.ReadAttr(filepath.Join(usbRoot, f.Name(), "bInterfaceClass"))
		if class == "" {
			continue
		}
		classes = append(classes, strings.ToLower(class))
	}
	return classes
}

// InterfacesString 把类别列表拼回 udev 的格式，只保留类别字节
func InterfacesString(classes []string) string {
	if len(classes) == 0 {
		return ""
	}
	return ":" + strings.Join(classes, ":") + ":"
}

func hasBoth(classes []string) bool {
	hasHID, hasStorage := false, false
	for _, c := range classes {
		switch c {
		case "03":
			hasHID = true
		case "08":
			hasStorage = true
		}
	}
	return hasHID && hasStorage
}
