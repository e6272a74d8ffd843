package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darragh-downey/goo/internal/arena"
)

func TestPointers(t *testing.T) {
	assert := assert.New(t)

	var a arena.Arena[int]

	p1 := a.New(5)
	p2 := p1.In(&a)
	assert.Equal(5, *p1.In(&a))

	for i := 0; i < 16; i++ {
		a.New(i + 5)
	}
	assert.Equal(19, *arena.Pointer[int](16).In(&a))
	assert.Equal(20, *arena.Pointer[int](17).In(&a))
	assert.True(p1.In(&a) == p2)

	for i := 0; i < 32; i++ {
		a.New(i + 21)
	}
	assert.Equal(51, *arena.Pointer[int](48).In(&a))
	assert.Equal(52, *arena.Pointer[int](49).In(&a))
	assert.True(p1.In(&a) == p2)

	assert.Equal(49, a.Len())
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	var a arena.Arena[int]
	for i := 0; i < 1000; i++ {
		a.New(i)
	}
	assert.Equal(1000, a.Len())

	a.Reset()
	assert.Equal(0, a.Len())

	p := a.New(42)
	assert.Equal(42, *p.In(&a))
	assert.Equal(1, a.Len())
}
