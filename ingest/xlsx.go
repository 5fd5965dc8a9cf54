package ingest

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX returns the rows of the first sheet. Short rows are left short;
// buildTable pads them with missing cells. maxUnpacked bounds the unzipped
// workbook size when positive.
func readXLSX(r io.Reader, name string, maxUnpacked int64) ([][]string, error) {
	var opts []excelize.Options
	if maxUnpacked > 0 {
		opts = append(opts, excelize.Options{UnzipSizeLimit: maxUnpacked})
	}
	f, err := excelize.OpenReader(r, opts...)
	if err != nil {
		return nil, parseErr(name, 0, "open spreadsheet", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, parseErr(name, 0, "spreadsheet has no sheets", nil)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, parseErr(name, 0, "read sheet "+sheet, err)
	}
	return rows, nil
}
