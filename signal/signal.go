// Package signal reads raw sensor signatures from disk: the CSV layout
// produced by the signature capture rig, and a compact binary matrix form
// for bulk captures. Either way the result is an ordered slice of float64
// readings; a malformed file rejects that one signal and nothing else.
package signal

import (
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/partmark/partmark/log"
)

var ErrBadRecord = errors.New("signal: malformed record")

// DefaultColumns selects the two sensor-reading columns of the capture
// CSVs (column 0 is the timestamp).
var DefaultColumns = []int{1, 2}

// ReadCSV reads one signature file, extracting the given 0-based columns
// from every row in order. Every row must carry all requested columns as
// numeric fields.
func ReadCSV(path string, cols []int) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var values []float64
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrBadRecord, path, row, err)
		}
		for _, col := range cols {
			if col >= len(record) {
				return nil, fmt.Errorf("%w: %s row %d has %d fields, need column %d",
					ErrBadRecord, path, row, len(record), col)
			}
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d column %d: %v",
					ErrBadRecord, path, row, col, err)
			}
			values = append(values, v)
		}
		row++
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrBadRecord, path)
	}
	log.Debug(log.SignalMonitoring, "signature loaded", "path", path, "values", len(values))
	return values, nil
}

// Binary matrix layout: magic "PMSM", uint32 rows, uint32 cols, then
// rows*cols little-endian float64 values in row-major order.
var matrixMagic = [4]byte{'P', 'M', 'S', 'M'}

// ReadMatrix reads a binary signature matrix and returns the values
// flattened row-major.
func ReadMatrix(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var magic [4]byte
	if _, err := io.ReadFull(file, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRecord, path, err)
	}
	if magic != matrixMagic {
		return nil, fmt.Errorf("%w: %s: bad magic %q", ErrBadRecord, path, magic[:])
	}

	var rows, cols uint32
	if err := binary.Read(file, binary.LittleEndian, &rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRecord, path, err)
	}
	if err := binary.Read(file, binary.LittleEndian, &cols); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRecord, path, err)
	}
	if rows == 0 || cols == 0 || rows*cols > 1<<24 {
		return nil, fmt.Errorf("%w: %s: implausible shape %dx%d", ErrBadRecord, path, rows, cols)
	}

	values := make([]float64, rows*cols)
	if err := binary.Read(file, binary.LittleEndian, values); err != nil {
		return nil, fmt.Errorf("%w: %s: truncated matrix: %v", ErrBadRecord, path, err)
	}
	log.Debug(log.SignalMonitoring, "matrix loaded", "path", path, "rows", rows, "cols", cols)
	return values, nil
}

// WriteMatrix writes values as a rows x cols binary signature matrix.
func WriteMatrix(path string, rows, cols int, values []float64) error {
	if rows*cols != len(values) {
		return fmt.Errorf("signal: %d values do not fill %dx%d", len(values), rows, cols)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(matrixMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, uint32(rows)); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, uint32(cols)); err != nil {
		return err
	}
	return binary.Write(file, binary.LittleEndian, values)
}
