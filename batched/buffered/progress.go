package buffered

import (
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"
)

//*******************************************
// progress and result sinks
//*******************************************

// Called by the engine after every query, calls are never concurrent.
type IProgress interface {
	OnQuery(done int, total int, result QueryResult)
}

// Receives every processed query (skipped queries excluded).
//
// Calls are never concurrent, Flush is called once after the last query.
type IResultSink interface {
	Write(result QueryResult) error
	Flush() error
}

type ProgressFunc func(done int, total int, result QueryResult)

func (self ProgressFunc) OnQuery(done int, total int, result QueryResult) {
	self(done, total, result)
}

//*******************************************
// log progress
//*******************************************

// Logs the progress every n queries and on completion.
//
// The last state can be read concurrently.
type LogProgress struct {
	every int
	start time.Time
	done  atomic.Int64
	total atomic.Int64
}

func NewLogProgress(every int) *LogProgress {
	if every <= 0 {
		every = 1
	}
	return &LogProgress{
		every: every,
		start: time.Now(),
	}
}

func (self *LogProgress) OnQuery(done int, total int, result QueryResult) {
	self.done.Store(int64(done))
	self.total.Store(int64(total))
	if done%self.every != 0 && done != total {
		return
	}
	elapsed := time.Since(self.start)
	rate := float64(done) / elapsed.Seconds()
	slog.Info(fmt.Sprintf("processed %v/%v queries", done, total), "elapsed", elapsed.Round(time.Second).String(), "rate", fmt.Sprintf("%.1f/s", rate))
}

// Returns the processed and total query counts.
func (self *LogProgress) State() (int, int) {
	return int(self.done.Load()), int(self.total.Load())
}
