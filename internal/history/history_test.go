package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_AddDeduplicates(t *testing.T) {
	h := New(DefaultSize)
	h.Add("a")
	h.Add("b")
	h.Add("a")

	assert.Equal(t, []string{"a", "b"}, h.Lines())
}

func TestHistory_Capped(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Add(fmt.Sprint(i))
	}

	assert.Equal(t, []string{"4", "3", "2"}, h.Lines())

	h.Add("2")
	assert.Equal(t, []string{"2", "4", "3"}, h.Lines())
}

func TestHistory_DefaultSize(t *testing.T) {
	h := New(0)
	for i := 0; i < 60; i++ {
		h.Add(fmt.Sprint(i))
	}
	assert.Equal(t, DefaultSize, h.Len())
	assert.Equal(t, DefaultSize, h.Size())
	assert.Equal(t, "59", h.Lines()[0])
}

func TestCursor_Navigation(t *testing.T) {
	h := New(DefaultSize)
	h.Add("first")
	h.Add("second")
	c := NewCursor(h)

	_, ok := c.Down()
	assert.False(t, ok)

	line, ok := c.Up()
	assert.True(t, ok)
	assert.Equal(t, "second", line)

	line, ok = c.Up()
	assert.True(t, ok)
	assert.Equal(t, "first", line)

	_, ok = c.Up()
	assert.False(t, ok)
	assert.Equal(t, 1, c.Index())

	line, ok = c.Down()
	assert.True(t, ok)
	assert.Equal(t, "second", line)

	line, ok = c.Down()
	assert.True(t, ok)
	assert.Equal(t, "", line)
	assert.Equal(t, -1, c.Index())

	c.Up()
	c.Reset()
	assert.Equal(t, -1, c.Index())
}

func TestCursor_EmptyHistory(t *testing.T) {
	c := NewCursor(New(DefaultSize))
	_, ok := c.Up()
	assert.False(t, ok)
}
