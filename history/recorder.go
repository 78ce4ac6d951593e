package history

import (
	"time"

	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/pipeline"
)

// Recorder is a pipeline observer appending every finished item to the history.
type Recorder struct {
	pipeline.NopObserver
}

func (Recorder) ItemFinished(_ int, result *pipeline.Result) {
	record := &Record{
		Title:         result.Title,
		ResolvedTitle: result.ResolvedTitle,
		URL:           result.URL,
		Status:        result.Status.String(),
		Path:          result.Path,
		Error:         result.Error,
		Source:        result.Source,
		FinishedAt:    time.Now(),
	}

	if err := Save(record); err != nil {
		log.Warnf("save history: %v", err)
	}
}
