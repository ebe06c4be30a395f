// Package sheet reads contact spreadsheets and enforces the strict import
// validation: bad data is rejected here, never silently dropped at send time.
package sheet

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Contents is a decoded spreadsheet: the first row as headers, every
// following non-empty row as data.
type Contents struct {
	Headers []string
	Rows    [][]string
}

// Read opens an XLSX file and decodes its first sheet. Data rows where every
// cell is empty are dropped; an empty file (no header row) is an error.
func Read(path string) (*Contents, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("sheet: file has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("sheet: file is empty")
	}

	contents := &Contents{Headers: rowToStrings(sheet.Rows[0])}
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		if !allEmpty(cells) {
			contents.Rows = append(contents.Rows, cells)
		}
	}
	return contents, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
