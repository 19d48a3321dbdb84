// Package store selects the history file codec for a configured format.
package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/calc/internal/core/config"
	"github.com/hay-kot/calc/internal/core/history"
	"github.com/hay-kot/calc/internal/store/csvfile"
	"github.com/hay-kot/calc/internal/store/jsonfile"
)

// NewCodec returns the codec for format, one of config.FormatCSV or
// config.FormatJSON.
func NewCodec(format string, log zerolog.Logger) (history.Codec, error) {
	switch format {
	case config.FormatCSV, "":
		return csvfile.New(log), nil
	case config.FormatJSON:
		return jsonfile.New(log), nil
	default:
		return nil, fmt.Errorf("unknown history format %q", format)
	}
}
