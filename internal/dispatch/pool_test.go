package dispatch

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsAllTasks(t *testing.T) {
	pool := NewPool(4)
	pool.Start(context.Background())

	var ran atomic.Int64
	for i := 0; i < 50; i++ {
		pool.Submit(func() { ran.Add(1) })
	}
	pool.Wait()

	assert.Equal(t, int64(50), ran.Load())
}

func TestNewPool_ClampsWorkerCount(t *testing.T) {
	pool := NewPool(0)
	assert.Equal(t, 1, pool.workers)
}
