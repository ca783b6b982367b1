package whitelist

import (
	"context"

	"go.uber.org/zap"
)

// Load 合并文件和数据库中的白名单，文件条目在前。
// 任一来源失败只记录告警，返回已成功加载的部分。
func Load(ctx context.Context, file, dbPath string, log *zap.Logger) []Entry {
	if log == nil {
		log = zap.NewNop()
	}
	var entries []Entry

	if file != "" {
		fromFile, err := LoadFile(file)
		if err != nil {
			log.Warn("Whitelist file unavailable, continuing without it", zap.Error(err))
		}
		entries = append(entries, fromFile...)
	}

	if dbPath != "" {
		store, err := OpenStore(dbPath)
		if err != nil {
			log.Warn("Whitelist database unavailable", zap.String("db", dbPath), zap.Error(err))
			return entries
		}
		defer store.Close()

		fromDB, err := store.Entries(ctx)
		if err != nil {
			log.Warn("Whitelist database read failed", zap.Error(err))
		}
		entries = append(entries, fromDB...)
	}

	log.Info("Whitelist loaded", zap.Int("entries", len(entries)))
	return entries
}
