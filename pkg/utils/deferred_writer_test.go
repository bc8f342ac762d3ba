package utils

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter_Write(t *testing.T) {
	t.Run("buffers until flush", func(t *testing.T) {
		d := &DeferredWriter{}

		n, err := d.Write([]byte("warning: one\n"))
		require.NoError(t, err)
		assert.Equal(t, 13, n)
		_, _ = d.Write([]byte("warning: two\n"))

		var out bytes.Buffer
		require.NoError(t, d.Flush(&out))
		assert.Equal(t, "warning: one\nwarning: two\n", out.String())
	})

	t.Run("concurrent writes are safe", func(t *testing.T) {
		d := &DeferredWriter{}
		var wg sync.WaitGroup

		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = d.Write([]byte("x\n"))
			}()
		}
		wg.Wait()

		var out bytes.Buffer
		require.NoError(t, d.Flush(&out))
		assert.Len(t, out.String(), 200)
	})
}

func TestDeferredWriter_MaxLines(t *testing.T) {
	d := &DeferredWriter{MaxLines: 2}
	for _, line := range []string{"a\n", "b\n", "c\n", "d\n"} {
		n, err := d.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n, "dropped writes still report success")
	}

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "a\nb\n... 2 more line(s) omitted\n", out.String())
}

func TestDeferredWriter_Flush(t *testing.T) {
	t.Run("resets after flush", func(t *testing.T) {
		d := &DeferredWriter{MaxLines: 1}
		_, _ = d.Write([]byte("a\n"))
		_, _ = d.Write([]byte("b\n"))

		var first bytes.Buffer
		require.NoError(t, d.Flush(&first))
		assert.Contains(t, first.String(), "1 more line(s) omitted")

		_, _ = d.Write([]byte("c\n"))
		var second bytes.Buffer
		require.NoError(t, d.Flush(&second))
		assert.Equal(t, "c\n", second.String())
	})

	t.Run("empty buffer writes nothing", func(t *testing.T) {
		d := &DeferredWriter{}

		var out bytes.Buffer
		require.NoError(t, d.Flush(&out))
		assert.Empty(t, out.String())
	})
}
