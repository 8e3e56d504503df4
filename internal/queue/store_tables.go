package queue

import (
	"context"
	"fmt"
	"sort"
	"strconv"
)

// TableDump is an unfiltered snapshot of one known table for operator inspection.
type TableDump struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// dumpableTables enumerates the tables exposed to raw inspection. Queries are
// fixed strings; table names never come from external input.
var dumpableTables = map[string]string{
	"queue_entries":    `SELECT * FROM queue_entries ORDER BY id DESC`,
	"videos":           `SELECT * FROM videos ORDER BY id DESC`,
	"audio_assets":     `SELECT * FROM audio_assets ORDER BY id DESC`,
	"caption_segments": `SELECT * FROM caption_segments ORDER BY id DESC`,
}

// DumpableTables returns the sorted list of tables DumpTable accepts.
func DumpableTables() []string {
	names := make([]string, 0, len(dumpableTables))
	for name := range dumpableTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DumpTable returns every row of one enumerated table, newest first.
func (s *Store) DumpTable(ctx context.Context, name string) (*TableDump, error) {
	query, ok := dumpableTables[name]
	if !ok {
		return nil, fmt.Errorf("dump table %q: %w", name, ErrUnknownTable)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query)
	if err != nil {
		return nil, fmt.Errorf("dump table %q: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("table columns: %w", err)
	}

	dump := &TableDump{Name: name, Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		cells := make([]string, len(columns))
		for i, value := range values {
			cells[i] = formatCell(value)
		}
		dump.Rows = append(dump.Rows, cells)
	}
	return dump, rows.Err()
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
