package output

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/phasehull/internal/application/dto"
)

// YAMLFormatter formats responses as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the reaction result as YAML.
func (f *YAMLFormatter) Format(resp *dto.ReactionResponse) error {
	return f.write(dto.NewReactionView(resp.Result))
}

// FormatBatch writes the batch as YAML.
func (f *YAMLFormatter) FormatBatch(resp *dto.BatchResponse) error {
	return f.write(dto.NewBatchView(resp))
}

func (f *YAMLFormatter) write(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))
	defer func() {
		_ = encoder.Close() // Best-effort cleanup
	}()
	return encoder.Encode(v)
}
