package export

import (
	"encoding/json"
	"fmt"
	"io"

	"taxledger/internal/report"
)

// WriteJSON renders rep as indented JSON.
func WriteJSON(w io.Writer, rep report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
