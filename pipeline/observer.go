package pipeline

import "github.com/sdmp3/sdmp3/source"

// Observer receives progress events from a running batch.
//
// Events are delivered synchronously from the goroutine calling Run, so
// implementations that hand them to another goroutine must synchronize.
type Observer interface {
	ItemStarted(index, total int, title string)
	ItemResolved(index int, candidate *source.Candidate)
	// ItemProgress reports bytes persisted so far; total is -1 when unknown.
	ItemProgress(index int, written, total int64)
	ItemFinished(index int, result *Result)
	// BatchCompleted is the terminal signal, emitted exactly once per successful Run.
	BatchCompleted(report *Report)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) ItemStarted(int, int, string)        {}
func (NopObserver) ItemResolved(int, *source.Candidate) {}
func (NopObserver) ItemProgress(int, int64, int64)      {}
func (NopObserver) ItemFinished(int, *Result)           {}
func (NopObserver) BatchCompleted(*Report)              {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) ItemStarted(index, total int, title string) {
	for _, observer := range o {
		observer.ItemStarted(index, total, title)
	}
}

func (o Observers) ItemResolved(index int, candidate *source.Candidate) {
	for _, observer := range o {
		observer.ItemResolved(index, candidate)
	}
}

func (o Observers) ItemProgress(index int, written, total int64) {
	for _, observer := range o {
		observer.ItemProgress(index, written, total)
	}
}

func (o Observers) ItemFinished(index int, result *Result) {
	for _, observer := range o {
		observer.ItemFinished(index, result)
	}
}

func (o Observers) BatchCompleted(report *Report) {
	for _, observer := range o {
		observer.BatchCompleted(report)
	}
}
