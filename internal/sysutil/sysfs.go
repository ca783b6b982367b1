package sysutil

import (
	"os"
	"path/filepath"
	"strings"
)

// FindUSBRoot 从 path 开始向上查找包含 idVendor 的目录（即 USB Device 根目录），
// 不会越过 stop。找不到时返回空串。
func FindUSBRoot(path, stop string) string {
	dir := filepath.Clean(path)
	stop = filepath.Clean(stop)

	// 向上回溯最多 10 层，通常 USB 设备在 sysfs 树的上层
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err == nil {
			return dir
		}
		if dir == stop || dir == "/" || dir == "." {
			break
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// ReadAttr 读取 sysfs 属性，失败返回空串
func ReadAttr(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
