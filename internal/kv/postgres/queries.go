package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/microblog/internal/dbx"
)

// queries runs the primitives against either the pool or a transaction.
type queries struct {
	db dbx.DBTX
}

func (q queries) Incr(ctx context.Context, key string) (int64, error) {
	query :=
		`INSERT INTO kv_counters (key, value) VALUES ($1, 1)
		 ON CONFLICT (key) DO UPDATE SET value = kv_counters.value + 1
		 RETURNING value`

	var n int64
	if err := q.db.QueryRowContext(ctx, query, key).Scan(&n); err != nil {
		return 0, mapError("incr", err)
	}
	return n, nil
}

func (q queries) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)

	values := make([]string, 0, len(names))
	args := []any{key}
	for _, f := range names {
		values = append(values, fmt.Sprintf("($1, $%d, $%d)", len(args)+1, len(args)+2))
		args = append(args, f, fields[f])
	}

	query := `INSERT INTO kv_hashes (key, field, value) VALUES ` + strings.Join(values, ", ") +
		` ON CONFLICT (key, field) DO UPDATE SET value = EXCLUDED.value`

	_, err := q.db.ExecContext(ctx, query, args...)
	return mapError("hset", err)
}

func (q queries) HGet(ctx context.Context, key, field string) (string, error) {
	var v string
	err := q.db.QueryRowContext(ctx,
		`SELECT value FROM kv_hashes WHERE key = $1 AND field = $2`, key, field).Scan(&v)
	if err != nil {
		return "", mapError("hget", err)
	}
	return v, nil
}

func (q queries) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT field, value FROM kv_hashes WHERE key = $1`, key)
	if err != nil {
		return nil, mapError("hgetall", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var f, v string
		if err := rows.Scan(&f, &v); err != nil {
			return nil, mapError("hgetall", err)
		}
		out[f] = v
	}
	return out, mapError("hgetall", rows.Err())
}

// LPush takes pos from kv_lists_pos_seq: every push gets a smaller pos than
// any row already stored, without reading the list.
func (q queries) LPush(ctx context.Context, key string, value string) error {
	query :=
		`INSERT INTO kv_lists (key, pos, value)
		 VALUES ($1, -nextval('kv_lists_pos_seq'), $2)`

	_, err := q.db.ExecContext(ctx, query, key, value)
	return mapError("lpush", err)
}

// windowed selects col of the rows of key in [start, stop] by their rank in
// order, with Redis index rules: negative indexes count from the tail and
// out-of-range bounds are clamped. Length and ranks come from the same
// statement, so a concurrent push cannot shift the window.
func windowed(table, col, order string) string {
	return `SELECT ` + col + ` FROM (
		   SELECT ` + col + `, ROW_NUMBER() OVER (ORDER BY ` + order + `) - 1 AS idx, COUNT(*) OVER () AS n
		   FROM ` + table + ` WHERE key = $1) w
		 WHERE idx >= CASE WHEN $2::bigint < 0 THEN n + $2::bigint ELSE $2::bigint END
		   AND idx <= CASE WHEN $3::bigint < 0 THEN n + $3::bigint ELSE $3::bigint END
		 ORDER BY idx`
}

func (q queries) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return q.column(ctx, "lrange", windowed("kv_lists", "value", "pos"), key, start, stop)
}

func (q queries) LTrim(ctx context.Context, key string, start, stop int64) error {
	query := `DELETE FROM kv_lists WHERE key = $1 AND pos NOT IN (` +
		windowed("kv_lists", "pos", "pos") + `)`
	_, err := q.db.ExecContext(ctx, query, key, start, stop)
	return mapError("ltrim", err)
}

func (q queries) ZAdd(ctx context.Context, key string, score float64, member string) error {
	query :=
		`INSERT INTO kv_zsets (key, member, score) VALUES ($1, $2, $3)
		 ON CONFLICT (key, member) DO UPDATE SET score = EXCLUDED.score`
	_, err := q.db.ExecContext(ctx, query, key, member, score)
	return mapError("zadd", err)
}

func (q queries) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	// COLLATE "C" matches the bytewise tie-break of Redis.
	return q.column(ctx, "zrange", windowed("kv_zsets", "member", `score, member COLLATE "C"`), key, start, stop)
}

// zinterstore must run inside a transaction. Repeated source keys count
// once.
func (q queries) zinterstore(ctx context.Context, dest string, keys []string) (int64, error) {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM kv_zsets WHERE key = $1`, dest); err != nil {
		return 0, err
	}
	keys = distinct(keys)
	if len(keys) == 0 {
		return 0, nil
	}

	args := []any{dest, len(keys)}
	query :=
		`INSERT INTO kv_zsets (key, member, score)
		 SELECT $1::text, member, SUM(score) FROM kv_zsets
		 WHERE key IN (` + placeholders(3, len(keys)) + `)
		 GROUP BY member HAVING COUNT(*) = $2`
	for _, k := range keys {
		args = append(args, k)
	}

	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q queries) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	in := placeholders(1, len(keys))
	for _, table := range []string{"kv_counters", "kv_hashes", "kv_lists", "kv_zsets"} {
		if _, err := q.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE key IN (`+in+`)`, args...); err != nil {
			return mapError("del", err)
		}
	}
	return nil
}

func (q queries) column(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, v)
	}
	return out, mapError(op, rows.Err())
}

// placeholders renders "$from, $from+1, ..." for n arguments.
func placeholders(from, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ph, ", ")
}

func distinct(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
