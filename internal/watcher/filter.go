package watcher

// isUSBEvent 只关心 usb 子系统（设备和接口两级都会上报）
func isUSBEvent(env map[string]string) bool {
	return env["SUBSYSTEM"] == "usb"
}
