package types

import (
	"sort"
	"time"
)

// Record is a dynamically typed, order-irrelevant mapping from column name to
// value. It is the boundary representation between the query engine and the
// typed entities: every row read from storage is materialized as a Record, and
// every write is submitted as one.
//
// Boolean columns are stored as integer 0/1 and timestamp columns as integer
// milliseconds since the Unix epoch; the typed accessors convert both
// directions exactly. Missing keys return the supplied default.
type Record map[string]any

// NewRecord returns an empty Record.
func NewRecord() Record {
	return make(Record)
}

// Has reports whether the column is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Set stores a raw value under the column name.
func (r Record) Set(key string, value any) {
	r[key] = value
}

// SetBool stores a boolean as integer 0/1.
func (r Record) SetBool(key string, value bool) {
	if value {
		r[key] = int64(1)
	} else {
		r[key] = int64(0)
	}
}

// SetTime stores a timestamp as integer milliseconds since the Unix epoch.
func (r Record) SetTime(key string, value time.Time) {
	r[key] = value.UnixMilli()
}

// Delete removes the column if present.
func (r Record) Delete(key string) {
	delete(r, key)
}

// String returns the column as a string, or def when absent or not textual.
func (r Record) String(key, def string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return def
	}
}

// Int64 returns the column as an int64, or def when absent.
// SQLite reports all integer affinities as int64; other numeric
// representations are accepted for values set in process.
func (r Record) Int64(key string, def int64) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return def
	}
}

// Float64 returns the column as a float64, or def when absent.
func (r Record) Float64(key string, def float64) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return def
	}
}

// Bool returns the column interpreted as a 0/1 integer flag, or def when
// absent.
func (r Record) Bool(key string, def bool) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	default:
		return def
	}
}

// Time returns the column interpreted as epoch milliseconds, or def when
// absent. The result is in UTC with millisecond precision.
func (r Record) Time(key string, def time.Time) time.Time {
	v, ok := r[key]
	if !ok {
		return def
	}
	switch ms := v.(type) {
	case int64:
		return time.UnixMilli(ms).UTC()
	case int:
		return time.UnixMilli(int64(ms)).UTC()
	case float64:
		return time.UnixMilli(int64(ms)).UTC()
	default:
		return def
	}
}

// ID returns the primary key column, 0 when the record is not yet persisted.
func (r Record) ID() int64 {
	return r.Int64(ColID, 0)
}

// Clone returns an independent copy. All stored values are value types
// (numbers, strings) except []byte, which is copied.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if b, ok := v.([]byte); ok {
			v = append([]byte(nil), b...)
		}
		out[k] = v
	}
	return out
}

// Columns returns the column names in sorted order, so that generated SQL is
// deterministic for a given column set.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
