package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bnema/walcache/internal/domain/entity"
)

type statsSnapshotRepo struct {
	db    *sql.DB
	write *writeLock
}

func (r *statsSnapshotRepo) Save(ctx context.Context, s *entity.StatsSnapshot) error {
	if s == nil {
		return fmt.Errorf("save stats snapshot: nil snapshot")
	}
	res, err := r.write.exec(ctx,
		`INSERT INTO cache_stats (timestamp, hit_count, miss_count, total_entries, total_size)
		 VALUES (?, ?, ?, ?, ?)`,
		toUnixNano(s.Timestamp), s.HitCount, s.MissCount, s.TotalEntries, s.TotalSize)
	if err != nil {
		return fmt.Errorf("save stats snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.ID = id
	}
	return nil
}

func (r *statsSnapshotRepo) Recent(ctx context.Context, limit int) ([]*entity.StatsSnapshot, error) {
	if limit <= 0 {
		return []*entity.StatsSnapshot{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, hit_count, miss_count, total_entries, total_size
		 FROM cache_stats ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent stats snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.StatsSnapshot, 0, limit)
	for rows.Next() {
		var (
			s  entity.StatsSnapshot
			ts int64
		)
		if err := rows.Scan(&s.ID, &ts, &s.HitCount, &s.MissCount, &s.TotalEntries, &s.TotalSize); err != nil {
			return nil, fmt.Errorf("scan stats snapshot: %w", err)
		}
		s.Timestamp = fromUnixNano(ts)
		out = append(out, &s)
	}
	return out, rows.Err()
}
