package utilities_test

import (
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	counter := utilities.NewCounter()

	hit, miss := counter.Read("employee_read")
	assert.Equal(t, -1, hit)
	assert.Equal(t, -1, miss)

	assert.Equal(t, 1, counter.IncrementMiss("employee_read"))
	assert.Equal(t, 1, counter.IncrementHit("employee_read"))
	assert.Equal(t, 2, counter.IncrementHit("employee_read"))
	hit, miss = counter.Read("employee_read")
	assert.Equal(t, 2, hit)
	assert.Equal(t, 1, miss)

	counters := counter.ReadAll()
	assert.Equal(t, map[string]int{"employee_read": 2}, counters.CounterHits)
	assert.Equal(t, map[string]int{"employee_read": 1}, counters.CounterMisses)

	counter.Reset()
	hit, _ = counter.Read("employee_read")
	assert.Equal(t, -1, hit)
}

func TestTimers(t *testing.T) {
	timers := utilities.NewTimers()

	index := timers.Start("statistics_read")
	assert.Equal(t, 0, index)
	unstopped := timers.Start("statistics_read")
	assert.Equal(t, 1, unstopped)
	time.Sleep(time.Millisecond)
	elapsed := timers.Stop("statistics_read", index)
	assert.Greater(t, elapsed, int64(0))
	assert.Equal(t, int64(-1), timers.Stop("statistics_read", 10))
	assert.Equal(t, int64(-1), timers.Stop("unknown", 0))

	readAll := timers.ReadAll()
	assert.Equal(t, elapsed, readAll.Totals["statistics_read"])
	assert.Equal(t, elapsed, readAll.Averages["statistics_read"])

	timers.Clear()
	assert.Empty(t, timers.ReadAll().Totals)
}
