package importcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/coldreach/cedb/pkg/serrors"
)

var (
	ErrEmptyFile = serrors.NewError("IMPORT_EMPTY_FILE", "the CSV file has no data rows")
	ErrNoHeader  = serrors.NewError("IMPORT_NO_HEADER", "the CSV file is empty")
)

// ParseOptions tunes a parse. Preview > 0 caps the number of data rows read,
// letting callers validate a file cheaply without a full parse.
type ParseOptions struct {
	Preview int
}

// Table is the immutable result of one parse: a header row plus a matrix of
// string cells. Every row has exactly len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parse reads delimited text. The first record is always the header row; a
// file with a header but no data rows is an empty-file error. Ragged rows
// are malformed input and abort the parse.
func Parse(r io.Reader, opts ParseOptions) (*Table, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	var rows [][]string
	for {
		if opts.Preview > 0 && len(rows) >= opts.Preview {
			break
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return &Table{Headers: headers, Rows: rows}, nil
}
