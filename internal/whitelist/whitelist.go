package whitelist

import (
	"strings"

	"github.com/Hara602/hidSentry/internal/model"
)

// Entry 白名单条目，Serial 为空表示该 vid/pid 下任意序列号都放行
type Entry struct {
	Vendor  string `yaml:"vendor"`
	Product string `yaml:"product"`
	Serial  string `yaml:"serial,omitempty"`
}

// Matches vid/pid 不区分大小写（硬件 ID 是大小写不一的十六进制串），序列号精确匹配
func (e Entry) Matches(id model.DeviceIdentity) bool {
	if !strings.EqualFold(e.Vendor, id.VendorID) || !strings.EqualFold(e.Product, id.ProductID) {
		return false
	}
	return e.Serial == "" || e.Serial == id.Serial
}

// IsWhitelisted 任一条目匹配即豁免监控
func IsWhitelisted(id model.DeviceIdentity, entries []Entry) bool {
	for _, e := range entries {
		if e.Matches(id) {
			return true
		}
	}
	return false
}
