package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/phasehull/internal/application/dto"
)

// JSONFormatter formats responses as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the reaction result as JSON.
func (f *JSONFormatter) Format(resp *dto.ReactionResponse) error {
	return f.write(dto.NewReactionView(resp.Result))
}

// FormatBatch writes the batch as JSON.
func (f *JSONFormatter) FormatBatch(resp *dto.BatchResponse) error {
	return f.write(dto.NewBatchView(resp))
}

func (f *JSONFormatter) write(v any) error {
	enc := json.NewEncoder(f.writer)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
