package parallel

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeWorkersIndices(t *testing.T) {
	var mu sync.Mutex
	seen := map[int][2]int{}

	ParallelizeWorkers(10, 4, func(worker, start, end int) {
		mu.Lock()
		defer mu.Unlock()
		seen[worker] = [2]int{start, end}
	})

	assert.Len(t, seen, 4)
	assert.Equal(t, [2]int{0, 3}, seen[0])
	assert.Equal(t, [2]int{3, 6}, seen[1])
	assert.Equal(t, [2]int{6, 9}, seen[2])
	assert.Equal(t, [2]int{9, 10}, seen[3])
}

func TestParallelizeWorkersSingleWorkerRunsInline(t *testing.T) {
	calls := 0
	ParallelizeWorkers(5, 1, func(worker, start, end int) {
		calls++
		assert.Equal(t, 0, worker)
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
	})
	assert.Equal(t, 1, calls)
}

func TestEffectiveWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		items   int
		want    int
	}{
		{"explicit", 4, 50, 4},
		{"capped by items", 8, 3, 3},
		{"zero means cpu", 0, 1 << 20, runtime.NumCPU()},
		{"no items", 4, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveWorkers(tt.workers, tt.items))
		})
	}
}
