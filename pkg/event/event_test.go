package event_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/event"
)

func TestFireInOrder(t *testing.T) {
	b := event.New()
	var got []string
	b.Listen("x", func(p any) { got = append(got, "a:"+p.(string)) })
	b.Listen("x", func(p any) { got = append(got, "b:"+p.(string)) })
	b.Listen("y", func(any) { got = append(got, "never") })

	b.Fire("x", "1")
	assert.Equal(t, []string{"a:1", "b:1"}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := event.New()
	calls := 0
	stop := b.Listen("x", func(any) { calls++ })
	b.Listen("x", func(any) { calls += 10 })

	stop()
	stop()
	b.Fire("x", nil)
	assert.Equal(t, 10, calls)
}

func TestFireAsync(t *testing.T) {
	b := event.New()
	var wg sync.WaitGroup
	wg.Add(2)
	b.Listen("x", func(any) { wg.Done() })
	b.Listen("x", func(any) { wg.Done() })
	b.FireAsync("x", nil)
	wg.Wait()
}

func TestFlush(t *testing.T) {
	b := event.New()
	called := false
	b.Listen("x", func(any) { called = true })
	b.Flush()
	b.Fire("x", nil)
	assert.False(t, called)
}
