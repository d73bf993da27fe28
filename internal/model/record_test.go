package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Clone(t *testing.T) {
	orig := Record{"a": "1", "b": 2}
	copied := orig.Clone()
	copied["a"] = "changed"

	assert.Equal(t, "1", orig.String("a"))
	assert.Equal(t, "changed", copied.String("a"))
}

func TestRecord_String(t *testing.T) {
	r := Record{"s": "hello", "n": 42, "nil": nil}
	assert.Equal(t, "hello", r.String("s"))
	assert.Equal(t, "42", r.String("n"))
	assert.Equal(t, "", r.String("nil"))
	assert.Equal(t, "", r.String("absent"))
}

func TestRecord_Int(t *testing.T) {
	r := Record{"i": 3, "f": 2.0, "s": "7", "nil": nil}

	v, ok := r.Int("i")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = r.Int("f")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = r.Int("s")
	assert.False(t, ok)
	_, ok = r.Int("nil")
	assert.False(t, ok)
	_, ok = r.Int("absent")
	assert.False(t, ok)
}

func TestRecord_Time(t *testing.T) {
	at := time.Date(2025, 7, 3, 9, 14, 21, 0, time.UTC)
	r := Record{"t": at, "nil": nil}

	got, ok := r.Time("t")
	assert.True(t, ok)
	assert.True(t, at.Equal(got))

	_, ok = r.Time("nil")
	assert.False(t, ok)
	_, ok = r.Time("absent")
	assert.False(t, ok)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "jane doe", NormalizeKey("  Jane DOE "))
	assert.Equal(t, "", NormalizeKey("   "))
}
