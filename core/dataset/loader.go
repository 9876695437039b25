package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// LoadCSV reads a headered CSV file. target names the target column; an empty
// target selects the last column. Every other column becomes a feature.
func LoadCSV(path, target string) (*Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()
	return ReadCSV(f, target)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, target string) (*Dense, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return fromRecords(records, target)
}

// LoadXLSX reads a worksheet whose first row is the header. An empty sheet
// selects the first sheet in the workbook.
func LoadXLSX(path, sheet, target string) (*Dense, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer file.Close()

	if sheet == "" {
		sheets := file.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewValueError("dataset.LoadXLSX", fmt.Sprintf("workbook %s has no sheets", path))
		}
		sheet = sheets[0]
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheet)
	}
	return fromRecords(rows, target)
}

func fromRecords(records [][]string, target string) (*Dense, error) {
	if len(records) < 2 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	header := records[0]
	if len(header) < 2 {
		return nil, errors.NewValueError("dataset.load", "need at least one feature column and a target column")
	}

	targetCol := len(header) - 1
	if target != "" {
		targetCol = -1
		for j, name := range header {
			if strings.TrimSpace(name) == target {
				targetCol = j
				break
			}
		}
		if targetCol < 0 {
			return nil, errors.NewValueError("dataset.load", fmt.Sprintf("target column %q not found", target))
		}
	}

	names := make([]string, 0, len(header)-1)
	for j, name := range header {
		if j != targetCol {
			names = append(names, strings.TrimSpace(name))
		}
	}

	body := records[1:]
	X := mat.NewDense(len(body), len(names), nil)
	y := mat.NewDense(len(body), 1, nil)
	for i, row := range body {
		// excelize drops trailing empty cells
		if len(row) != len(header) {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.load row %d", i+2), len(header), len(row), 1)
		}
		k := 0
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %q", i+2, header[j])
			}
			if j == targetCol {
				y.Set(i, 0, v)
				continue
			}
			X.Set(i, k, v)
			k++
		}
	}
	return NewDense(X, y, names)
}
