// Package progress reports per-split file progress while a variant is built.
package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Reporter creates trackers for units of work.
type Reporter interface {
	// Track starts tracking total items under name.
	Track(name string, total int) Tracker
	// Wait flushes and stops rendering. It must be called once all
	// trackers are done.
	Wait()
}

// Tracker counts finished items.
type Tracker interface {
	// Increment marks one item done.
	Increment()
	// Done finishes the tracker, whether or not every item completed.
	Done()
}

// Nop returns a Reporter that discards all progress.
func Nop() Reporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Track(string, int) Tracker { return nopTracker{} }
func (nopReporter) Wait()                     {}

type nopTracker struct{}

func (nopTracker) Increment() {}
func (nopTracker) Done()      {}

// Bars renders one progress bar per tracker to w.
type Bars struct {
	p *mpb.Progress
}

// NewBars creates a Bars reporter writing to w.
func NewBars(w io.Writer) *Bars {
	return &Bars{p: mpb.New(mpb.WithWidth(64), mpb.WithOutput(w))}
}

// Track adds a bar for total items.
func (b *Bars) Track(name string, total int) Tracker {
	bar := b.p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name+": "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return &barTracker{bar: bar}
}

// Wait blocks until all bars have rendered their final state.
func (b *Bars) Wait() {
	b.p.Wait()
}

type barTracker struct {
	bar *mpb.Bar
}

func (t *barTracker) Increment() {
	t.bar.Increment()
}

// Done ends the bar at its current count so Wait never blocks on an
// unfinished bar. A completed bar is left as is.
func (t *barTracker) Done() {
	t.bar.Abort(false)
}
