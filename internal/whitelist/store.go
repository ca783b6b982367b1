package whitelist

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS whitelist (
	vid TEXT NOT NULL,
	pid TEXT NOT NULL,
	serial TEXT NOT NULL DEFAULT '',
	reason TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (vid, pid, serial)
);
`

// Store 基于 sqlite 的白名单存储
type Store struct {
	db *sql.DB
}

// OpenStore 打开数据库并初始化表结构
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := NewStore(db)
	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore 包装已有的 *sql.DB
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Entries 按插入顺序返回全部条目
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT vid, pid, serial FROM whitelist ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query whitelist: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Vendor, &e.Product, &e.Serial); err != nil {
			return nil, fmt.Errorf("scan whitelist row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Add 添加白名单条目，重复条目忽略
func (s *Store) Add(ctx context.Context, e Entry, reason string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO whitelist(vid, pid, serial, reason) VALUES (?, ?, ?, ?)",
		e.Vendor, e.Product, e.Serial, reason,
	)
	if err != nil {
		return fmt.Errorf("insert whitelist entry: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
