package network

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue[int](8)
	for i := 1; i <= 5; i++ {
		q.Push(i)
	}
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, q.Drain())
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

func TestQueueDropsOldestWhenFull(t *testing.T) {
	q := NewQueue[string](3)
	q.Push("a")
	q.Push("b")
	q.Push("c")
	q.Push("d")

	require.Equal(t, 3, q.Len())
	assert.Equal(t, []string{"b", "c", "d"}, q.Drain())
}

func TestQueueMinimumCapacity(t *testing.T) {
	q := NewQueue[int](0)
	q.Push(1)
	q.Push(2)
	assert.Equal(t, []int{2}, q.Drain())
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue[int](64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(n*100 + j)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 64, q.Len())
}
