package inline

import (
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/sdmp3/sdmp3/pipeline"
)

// Output is the machine readable report.
type Output struct {
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	NotFound  int                `json:"not_found"`
	Failed    int                `json:"failed"`
	Elapsed   string             `json:"elapsed"`
	Results   []*pipeline.Result `json:"results"`
}

func newOutput(report *pipeline.Report) *Output {
	results := report.Results
	if results == nil {
		results = []*pipeline.Result{}
	}

	return &Output{
		Total:     len(results),
		Succeeded: report.Count(pipeline.StatusSuccess),
		NotFound:  report.Count(pipeline.StatusNotFound),
		Failed:    report.Count(pipeline.StatusFetchError),
		Elapsed:   report.Elapsed().String(),
		Results:   results,
	}
}

// WriteJSON encodes report as an indented Output document.
func WriteJSON(w io.Writer, report *pipeline.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newOutput(report))
}

// Schema describes Output.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return filepath.Base(t.PkgPath()) + "." + t.Name()
	}

	return reflector.Reflect(&Output{})
}
