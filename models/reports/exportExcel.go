package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	headerFillColor = "24A853"
	headerFontColor = "FFFFFF"
	minColumnWidth  = 12.0
	maxColumnWidth  = 50.0
)

// writeSheet renders headings plus rows onto a fresh workbook and returns it
// as an xlsx byte buffer. Headings get the house style (bold white on green)
// and every column is widened to fit its longest value.
func writeSheet(sheetName string, headings []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerFontColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	widths := make([]float64, len(headings))
	for colIdx, heading := range headings {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, heading); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		widths[colIdx] = cellWidth(heading)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			if colIdx >= len(headings) {
				break
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
			if w := cellWidth(fmt.Sprint(value)); w > widths[colIdx] {
				widths[colIdx] = w
			}
		}
	}

	for colIdx, width := range widths {
		col, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func cellWidth(value string) float64 {
	width := float64(len(value)) + 2
	if width < minColumnWidth {
		return minColumnWidth
	}
	if width > maxColumnWidth {
		return maxColumnWidth
	}
	return width
}
