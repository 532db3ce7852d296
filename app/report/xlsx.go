package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bobylevd/cdl-rankings/app/store"
)

// SheetName is the name of the ratings sheet in the xlsx report.
const SheetName = "Ratings"

// WriteXLSX writes the ranking list as an xlsx workbook.
func WriteXLSX(w io.Writer, rated []store.Rated) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(SheetName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	for i, h := range RankingHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	for idx, r := range rated {
		row := idx + 2
		values := []any{idx + 1, r.Name, string(r.Role), string(r.Pool),
			r.CDLGames, r.ChallengersGames, r.Base, r.Override, r.Rating}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("set row %d: %w", row, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 6)
	_ = f.SetColWidth(SheetName, "B", "B", 20)
	_ = f.SetColWidth(SheetName, "C", "I", 12)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
