package callback

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCallback_RoundTrip(t *testing.T) {
	var got string
	ctx := WithCallback(context.Background(), func(m string) { got = m })

	cb := FromContext(ctx)
	require.NotNil(t, cb)
	cb("hi")
	assert.Equal(t, "hi", got)
}

func TestFromContext_Absent(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, FromContext(WithCallback(context.Background(), nil)))
}

func TestDeliver(t *testing.T) {
	calls := 0
	assert.True(t, Deliver(func(string) { calls++ }, "x"))
	assert.Equal(t, 1, calls)

	assert.False(t, Deliver(nil, "x"))
}

func TestSlot_StoreLoad(t *testing.T) {
	var s Slot
	assert.Nil(t, s.Load())

	var got []string
	s.Store(func(m string) { got = append(got, "a:"+m) })
	s.Load()("1")
	s.Store(func(m string) { got = append(got, "b:"+m) })
	s.Load()("2")

	assert.Equal(t, []string{"a:1", "b:2"}, got)

	s.Store(nil)
	assert.Nil(t, s.Load())
}

func TestSlot_ConcurrentAccess(t *testing.T) {
	var s Slot
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Store(func(string) {})
		}()
		go func() {
			defer wg.Done()
			if l := s.Load(); l != nil {
				l("x")
			}
		}()
	}
	wg.Wait()
	assert.NotNil(t, s.Load())
}
