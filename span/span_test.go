package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	outer := New(0, 10)
	assert.True(t, outer.Contains(New(2, 5)))
	assert.True(t, outer.Contains(New(0, 10)))
	assert.False(t, outer.Contains(New(5, 11)))
	assert.False(t, outer.Contains(New(-1, 5)))
}

func TestCover(t *testing.T) {
	a := New(2, 5)
	b := New(8, 12)
	assert.Equal(t, New(2, 12), a.Cover(b))
	assert.Equal(t, New(2, 12), b.Cover(a))

	assert.Equal(t, a, a.Cover(Span{}))
	assert.Equal(t, b, Span{}.Cover(b))
}

func TestZero(t *testing.T) {
	assert.True(t, Span{}.Zero())
	assert.False(t, New(0, 1).Zero())
}

func TestString(t *testing.T) {
	assert.Equal(t, "[3, 7)", New(3, 7).String())
}
