package export

import (
	"inventory_commerce/internal/api/report/models"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Sheet1"

// Mã định dạng số dựng sẵn của excel
const (
	numFmtFixed2    = 2 // 0.00
	numFmtThousands = 4 // #,##0.00
)

func writeExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	styles, err := columnStyles(f, doc.Columns)
	if err != nil {
		return nil, err
	}

	for i, h := range headers(doc.Columns) {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(excelSheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(excelSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for r, row := range doc.Rows {
		for i, col := range doc.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			var value any = FormatCell(col, row[col.Key], doc.Location)
			if n, ok := numericValue(col, row[col.Key]); ok {
				value = n
			}
			if err := f.SetCellValue(excelSheet, cell, value); err != nil {
				return nil, err
			}
			if style, ok := styles[i]; ok {
				if err := f.SetCellStyle(excelSheet, cell, cell, style); err != nil {
					return nil, err
				}
			}
		}
	}

	if len(doc.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(doc.Columns))
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(excelSheet, "A", last, 18); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// columnStyles style định dạng số theo vị trí cột
func columnStyles(f *excelize.File, cols []models.ColumnSpec) (map[int]int, error) {
	out := make(map[int]int)
	cache := make(map[int]int)
	for i, c := range cols {
		var fmtID int
		switch c.Format {
		case models.FormatMoney:
			fmtID = numFmtThousands
		case models.FormatPercent:
			fmtID = numFmtFixed2
		default:
			continue
		}
		if id, ok := cache[fmtID]; ok {
			out[i] = id
			continue
		}
		id, err := f.NewStyle(&excelize.Style{NumFmt: fmtID})
		if err != nil {
			return nil, err
		}
		cache[fmtID] = id
		out[i] = id
	}
	return out, nil
}
