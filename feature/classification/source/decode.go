package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"kbli-registry/core/utils"
	"kbli-registry/feature/classification/models"

	"github.com/goccy/go-json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrUnsupportedFormat is returned for batch files that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported batch format")

// Decode reads a raw row batch, choosing the format from the name's extension.
func Decode(name string, r io.Reader) ([]models.RawRow, error) {
	rows, _, err := decodeBatch(name, r)
	return rows, err
}

// decodeBatch is Decode that also reports, per row index, the labels whose
// JSON values were numbers or booleans rather than text.
func decodeBatch(name string, r io.Reader) ([]models.RawRow, map[int][]string, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".tsv":
		rows, err := DecodeCSV(r)
		return rows, nil, err
	case ".json":
		return decodeJSON(r)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// DecodeCSV reads a header row followed by data rows. The delimiter is taken
// from the header line: tab, semicolon or comma.
func DecodeCSV(r io.Reader) ([]models.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []models.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		row := make(models.RawRow, len(header))
		for i, label := range header {
			if i < len(record) {
				row[label] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// DecodeJSON accepts either an array of objects or an object with a "rows"
// array. Non-string cells are stringified; arrays become newline separated.
func DecodeJSON(r io.Reader) ([]models.RawRow, error) {
	rows, _, err := decodeJSON(r)
	return rows, err
}

func decodeJSON(r io.Reader) ([]models.RawRow, map[int][]string, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("decode json: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		list, ok := v["rows"].([]any)
		if !ok {
			return nil, nil, errors.New("decode json: object batch must contain a rows array")
		}
		items = list
	default:
		return nil, nil, errors.New("decode json: batch must be an array of objects")
	}

	rows := make([]models.RawRow, 0, len(items))
	nonText := make(map[int][]string)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("decode json: row %d is not an object", i)
		}
		row := make(models.RawRow, len(obj))
		for k, v := range obj {
			switch v.(type) {
			case float64, bool:
				nonText[i] = append(nonText[i], k)
			}
			row[k] = utils.ToString(v)
		}
		rows = append(rows, row)
	}

	return rows, nonText, nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	counts := map[rune]int{
		',':  bytes.Count(line, []byte{','}),
		';':  bytes.Count(line, []byte{';'}),
		'\t': bytes.Count(line, []byte{'\t'}),
	}
	best := ','
	for _, d := range []rune{'\t', ';'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
