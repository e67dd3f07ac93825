package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes rows under the header into a new workbook laid out
// for DefaultImportConfig.
func WriteWorkbook(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := DefaultImportConfig().SheetName
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %v", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d: %v", i+2, err)
		}
	}

	return f.Write(w)
}
