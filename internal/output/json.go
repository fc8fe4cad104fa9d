package output

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/recommend"
)

// Formats accepted by Output
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// JSON writes data as JSON to stdout
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as indented JSON to the given writer
func JSONTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// JSONCompactTo writes data as compact JSON to the given writer
func JSONCompactTo(w io.Writer, data any) error {
	return json.NewEncoder(w).Encode(data)
}

// JSONLinesTo writes list results as one compact JSON object per line.
// Anything else is written as a single line.
func JSONLinesTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case []recommend.PersonRecommendation:
		return jsonLines(w, v)
	case []recommend.JobRecommendation:
		return jsonLines(w, v)
	case []database.User:
		return jsonLines(w, v)
	default:
		return JSONCompactTo(w, data)
	}
}

func jsonLines[T any](w io.Writer, items []T) error {
	for _, item := range items {
		if err := JSONCompactTo(w, item); err != nil {
			return err
		}
	}
	return nil
}

// Output writes data to stdout in the specified format
func Output(format string, data any) error {
	return OutputTo(os.Stdout, format, data)
}

// OutputTo writes data to w in the specified format
func OutputTo(w io.Writer, format string, data any) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, data)
	case FormatJSONL:
		return JSONLinesTo(w, data)
	case FormatTable, "":
		return TableTo(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// ValidFormat reports whether format is accepted by Output
func ValidFormat(format string) bool {
	switch format {
	case FormatJSON, FormatJSONL, FormatTable, "":
		return true
	default:
		return false
	}
}
