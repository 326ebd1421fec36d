package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTypedAccessors(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, r Record)
	}{
		{
			name: "bool round-trips through 0/1 storage",
			check: func(t *testing.T, r Record) {
				r.SetBool("is_preset", true)
				assert.Equal(t, int64(1), r["is_preset"])
				assert.True(t, r.Bool("is_preset", false))

				r.SetBool("is_preset", false)
				assert.Equal(t, int64(0), r["is_preset"])
				assert.False(t, r.Bool("is_preset", true))
			},
		},
		{
			name: "time round-trips at millisecond precision",
			check: func(t *testing.T, r Record) {
				stamp := time.Date(2024, 3, 17, 21, 4, 5, 123_000_000, time.UTC)
				r.SetTime("updated", stamp)
				assert.Equal(t, stamp.UnixMilli(), r["updated"])
				assert.True(t, r.Time("updated", time.Time{}).Equal(stamp))
			},
		},
		{
			name: "missing keys return the supplied default",
			check: func(t *testing.T, r Record) {
				assert.Equal(t, "none", r.String("absent", "none"))
				assert.Equal(t, int64(-1), r.Int64("absent", -1))
				assert.Equal(t, 2.5, r.Float64("absent", 2.5))
				assert.True(t, r.Bool("absent", true))
				def := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
				assert.True(t, r.Time("absent", def).Equal(def))
			},
		},
		{
			name: "numeric coercion accepts driver and in-process widths",
			check: func(t *testing.T, r Record) {
				r.Set("a", int64(7))
				r.Set("b", 7)
				r.Set("c", 7.0)
				assert.Equal(t, int64(7), r.Int64("a", 0))
				assert.Equal(t, int64(7), r.Int64("b", 0))
				assert.Equal(t, int64(7), r.Int64("c", 0))
			},
		},
		{
			name: "string accessor reads []byte columns",
			check: func(t *testing.T, r Record) {
				r.Set("notes", []byte("oaky"))
				assert.Equal(t, "oaky", r.String("notes", ""))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NewRecord())
		})
	}
}

func TestRecordClone(t *testing.T) {
	r := NewRecord()
	r.Set("name", "Mead")
	r.Set("rating", int64(4))
	r.Set("blob", []byte{1, 2, 3})

	c := r.Clone()
	require.Equal(t, "Mead", c.String("name", ""))

	c.Set("name", "Cider")
	c.Delete("rating")
	c["blob"].([]byte)[0] = 9

	assert.Equal(t, "Mead", r.String("name", ""))
	assert.Equal(t, int64(4), r.Int64("rating", 0))
	assert.Equal(t, byte(1), r["blob"].([]byte)[0])
}

func TestRecordColumns(t *testing.T) {
	r := NewRecord()
	r.Set("title", "x")
	r.Set("id", int64(1))
	r.Set("rating", int64(3))

	assert.Equal(t, []string{"id", "rating", "title"}, r.Columns())
}

func TestRecordID(t *testing.T) {
	r := NewRecord()
	assert.Equal(t, int64(0), r.ID())
	r.Set("id", int64(42))
	assert.Equal(t, int64(42), r.ID())
}
