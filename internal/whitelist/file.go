package whitelist

import (
	"fmt"
	"os"

	"github.com/Hara602/hidSentry/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadFile 读取 JSON/YAML 白名单: [{"vendor": "046d", "product": "c52b", "serial": "..."}]
// 读取或解析失败返回空白名单（fail-open：全部监控）
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read whitelist %s: %v", model.ErrConfigUnavailable, path, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse whitelist %s: %v", model.ErrConfigUnavailable, path, err)
	}

	// 缺 vid/pid 的条目无法匹配任何设备，直接丢弃
	kept := entries[:0]
	for _, e := range entries {
		if e.Vendor == "" || e.Product == "" {
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}
