package export

import (
	"bytes"
	"encoding/csv"
)

// utf8BOM để Excel mở đúng tiếng Việt
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func writeCSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	if err := w.Write(headers(doc.Columns)); err != nil {
		return nil, err
	}

	record := make([]string, len(doc.Columns))
	for _, row := range doc.Rows {
		for i, col := range doc.Columns {
			record[i] = FormatCell(col, row[col.Key], doc.Location)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
