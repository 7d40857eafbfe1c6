package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"taxledger/internal/report"
)

// WriteCSV renders rep as two-column field/value CSV rows with a header.
func WriteCSV(w io.Writer, rep report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"field", "value"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range Rows(rep) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
