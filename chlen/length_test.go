package chlen_test

import (
	"testing"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	t.Run("ordinary sum", func(t *testing.T) {
		assert.Equal(t, chlen.Length(7), chlen.Add(3, 4))
	})

	t.Run("infinity absorbs either operand", func(t *testing.T) {
		assert.Equal(t, chlen.Infinity, chlen.Add(chlen.Infinity, 5))
		assert.Equal(t, chlen.Infinity, chlen.Add(5, chlen.Infinity))
		assert.Equal(t, chlen.Infinity, chlen.Add(chlen.Infinity, chlen.Infinity))
	})

	t.Run("panics on genuine overflow of finite operands", func(t *testing.T) {
		assert.Panics(t, func() {
			chlen.Add(chlen.Max, 1)
		})
	})

	t.Run("ordering treats infinity as the maximum element", func(t *testing.T) {
		assert.True(t, chlen.Less(5, chlen.Infinity))
		assert.False(t, chlen.Less(chlen.Infinity, 5))
	})
}
