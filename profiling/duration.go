package profiling

import (
	"sync"
	"time"
)

// DurationCmdProfiler records the execution time of every command of one connection.
type DurationCmdProfiler struct {
	durations [CmdTypeTotal][]time.Duration
	start     [CmdTypeTotal]time.Time
}

func (c *DurationCmdProfiler) Start(cmdType int) {
	c.start[cmdType] = time.Now()
}

func (c *DurationCmdProfiler) Stop(cmdType int) {
	c.durations[cmdType] = append(c.durations[cmdType], time.Since(c.start[cmdType]))
}

// DurationCmdProfilerBuilder hands out a DurationCmdProfiler per connection and keeps the ones collected.
type DurationCmdProfilerBuilder struct {
	profilers []*DurationCmdProfiler
	lock      sync.Mutex
}

func NewDurationCmdProfilerBuilder() *DurationCmdProfilerBuilder {
	return &DurationCmdProfilerBuilder{}
}

func (c *DurationCmdProfilerBuilder) New() CmdProfiler {
	return &DurationCmdProfiler{}
}

func (c *DurationCmdProfilerBuilder) Collect(profiler CmdProfiler) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if p, ok := profiler.(*DurationCmdProfiler); ok {
		c.profilers = append(c.profilers, p)
	}
}

// Merge returns the durations of every collected connection, per command type.
func (c *DurationCmdProfilerBuilder) Merge() [CmdTypeTotal][]time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()

	var result [CmdTypeTotal][]time.Duration

	for _, p := range c.profilers {
		for i, d := range p.durations {
			result[i] = append(result[i], d...)
		}
	}

	return result
}
