package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sells-group/geocode-cli/internal/dataset"
)

// snapshot is the table state last read from or written to a database, used
// to send only changed cells on Save.
type snapshot struct {
	columns []string
	rows    [][]string
}

// rowChange lists the changed cells of one row.
type rowChange struct {
	row     int
	columns []string
	values  []string
}

func takeSnapshot(t *dataset.Table) snapshot {
	s := snapshot{
		columns: append([]string(nil), t.Columns...),
		rows:    make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		s.rows[i] = append([]string(nil), r...)
	}
	return s
}

// diff returns the columns of t unknown to the snapshot and the cells of t
// that differ from it. Cells of new columns count as changed when non-empty.
func (s snapshot) diff(t *dataset.Table) (added []string, changes []rowChange) {
	known := make(map[string]int, len(s.columns))
	for i, c := range s.columns {
		known[c] = i
	}
	for _, c := range t.Columns {
		if _, ok := known[c]; !ok {
			added = append(added, c)
		}
	}

	for i, r := range t.Rows {
		var ch rowChange
		for j, v := range r {
			prev := ""
			if k, ok := known[t.Columns[j]]; ok && i < len(s.rows) && k < len(s.rows[i]) {
				prev = s.rows[i][k]
			}
			if v != prev {
				ch.columns = append(ch.columns, t.Columns[j])
				ch.values = append(ch.values, v)
			}
		}
		if len(ch.columns) > 0 {
			ch.row = i
			changes = append(changes, ch)
		}
	}
	return added, changes
}

// cellString renders a database value the way it appears in a table cell.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
