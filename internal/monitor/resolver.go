package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hara602/hidSentry/internal/model"
)

const eventPrefix = "event"

// Resolver 在 /proc/bus/input/devices 里按 vid/pid 字符串找到设备对应的 eventN。
//
// 注册表格式，每个设备一个文本块，块之间空行分隔：
//
//	I: Bus=0003 Vendor=046d Product=c52b Version=0111
//	N: Name="Logitech USB Receiver"
//	H: Handlers=sysrq kbd leds event5
//
// 匹配是对 I: 行做不区分大小写的子串查找，多个设备的自由文本可能互相包含
// （例如 vid 恰好等于 Bus 字段），此时取注册表顺序中的第一个匹配。
type Resolver struct {
	open     func() (io.ReadCloser, error)
	inputDir string
}

// NewResolver registry 通常为 /proc/bus/input/devices，inputDir 为 /dev/input
func NewResolver(registry, inputDir string) *Resolver {
	return &Resolver{
		open:     func() (io.ReadCloser, error) { return os.Open(registry) },
		inputDir: inputDir,
	}
}

// NewReaderResolver 从任意来源读取注册表（测试用）
func NewReaderResolver(open func() (io.ReadCloser, error), inputDir string) *Resolver {
	return &Resolver{open: open, inputDir: inputDir}
}

// Resolve 返回事件流路径；注册表不可读返回 ErrRegistryUnreadable，无匹配返回 ErrStreamNotFound
func (r *Resolver) Resolve(id model.DeviceIdentity) (string, error) {
	f, err := r.open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrRegistryUnreadable, err)
	}
	defer f.Close()

	vendor := strings.ToLower(id.VendorID)
	product := strings.ToLower(id.ProductID)

	var (
		matched  bool
		handlers string
	)
	flush := func() string {
		defer func() { matched, handlers = false, "" }()
		if !matched {
			return ""
		}
		return eventHandler(handlers)
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if ev := flush(); ev != "" {
				return filepath.Join(r.inputDir, ev), nil
			}
			continue
		}
		if strings.HasPrefix(line, "H: Handlers=") {
			handlers = strings.TrimPrefix(line, "H: Handlers=")
		}
		if strings.Contains(line, "Vendor=") && strings.Contains(line, "Product=") {
			lower := strings.ToLower(line)
			if vendor != "" && product != "" && strings.Contains(lower, vendor) && strings.Contains(lower, product) {
				matched = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrRegistryUnreadable, err)
	}
	// 最后一个块后面可能没有空行
	if ev := flush(); ev != "" {
		return filepath.Join(r.inputDir, ev), nil
	}
	return "", fmt.Errorf("%w: vid=%s pid=%s", model.ErrStreamNotFound, id.VendorID, id.ProductID)
}

// eventHandler 取 Handlers 列表中第一个以 event 开头的名字
func eventHandler(handlers string) string {
	for _, h := range strings.Fields(handlers) {
		if strings.HasPrefix(h, eventPrefix) {
			return h
		}
	}
	return ""
}
