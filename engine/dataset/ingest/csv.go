package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/equipsight/equipsight/engine/dataset/model"
)

// Column is a canonical CSV column name.
type Column string

const (
	ColumnName        Column = "Equipment Name"
	ColumnType        Column = "Type"
	ColumnFlowrate    Column = "Flowrate"
	ColumnPressure    Column = "Pressure"
	ColumnTemperature Column = "Temperature"
)

// columnAliases maps the header spellings accepted for each canonical column.
var columnAliases = map[Column][]string{
	ColumnName:        {"Equipment Name", "equipment_name", "Name", "name", "EquipmentName"},
	ColumnType:        {"Type", "type", "Equipment Type", "equipment_type", "EquipmentType"},
	ColumnFlowrate:    {"Flowrate", "flowrate", "Flow Rate", "flow_rate", "FlowRate"},
	ColumnPressure:    {"Pressure", "pressure"},
	ColumnTemperature: {"Temperature", "temperature", "Temp", "temp"},
}

var requiredColumns = []Column{ColumnName, ColumnType, ColumnFlowrate, ColumnPressure, ColumnTemperature}

// ErrEmptyFile is returned for files with no data rows.
var ErrEmptyFile = errors.New("CSV file is empty")

// ErrNoValidRows is returned when every data row failed numeric coercion.
var ErrNoValidRows = errors.New("CSV file contains no valid rows")

// MissingColumnsError reports required columns absent from the header.
type MissingColumnsError struct {
	Missing  []Column
	Found    []string
	Expected []Column
}

func (e *MissingColumnsError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		missing[i] = string(c)
	}
	expected := make([]string, len(e.Expected))
	for i, c := range e.Expected {
		expected[i] = string(c)
	}
	return fmt.Sprintf(
		"missing required columns: %s (found: %s, expected: %s)",
		strings.Join(missing, ", "),
		strings.Join(e.Found, ", "),
		strings.Join(expected, ", "),
	)
}

// Row is one parsed equipment reading.
type Row struct {
	Name        string
	Type        string
	Flowrate    float64
	Pressure    float64
	Temperature float64
}

// Result is the outcome of parsing a CSV file.
type Result struct {
	Rows    []Row
	Skipped int
	Summary *model.Summary
}

// Parse reads equipment readings from CSV data. Header names are matched
// against the alias table after trimming. Rows whose numeric fields fail to
// parse are dropped and counted in Skipped.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	index, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}
	var rows []Row
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged or malformed lines count as skipped rows.
			if errors.Is(err, csv.ErrFieldCount) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		row, ok := parseRow(record, index)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 && skipped == 0 {
		return nil, ErrEmptyFile
	}
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}
	return &Result{Rows: rows, Skipped: skipped, Summary: summarize(rows)}, nil
}

// resolveColumns maps each required column to its index in the header.
func resolveColumns(header []string) (map[Column]int, error) {
	index := make(map[Column]int, len(requiredColumns))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		for col, aliases := range columnAliases {
			if _, done := index[col]; done {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					index[col] = i
					break
				}
			}
		}
	}
	var missing []Column
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		found := make([]string, len(header))
		for i, raw := range header {
			found[i] = strings.TrimSpace(raw)
		}
		return nil, &MissingColumnsError{Missing: missing, Found: found, Expected: requiredColumns}
	}
	return index, nil
}

func parseRow(record []string, index map[Column]int) (Row, bool) {
	name := strings.TrimSpace(record[index[ColumnName]])
	equipType := strings.TrimSpace(record[index[ColumnType]])
	if name == "" || equipType == "" {
		return Row{}, false
	}
	flowrate, err := strconv.ParseFloat(strings.TrimSpace(record[index[ColumnFlowrate]]), 64)
	if err != nil {
		return Row{}, false
	}
	pressure, err := strconv.ParseFloat(strings.TrimSpace(record[index[ColumnPressure]]), 64)
	if err != nil {
		return Row{}, false
	}
	temperature, err := strconv.ParseFloat(strings.TrimSpace(record[index[ColumnTemperature]]), 64)
	if err != nil {
		return Row{}, false
	}
	return Row{
		Name:        name,
		Type:        equipType,
		Flowrate:    flowrate,
		Pressure:    pressure,
		Temperature: temperature,
	}, true
}

func summarize(rows []Row) *model.Summary {
	var flowSum, pressSum, tempSum float64
	dist := make(map[string]int)
	for _, row := range rows {
		flowSum += row.Flowrate
		pressSum += row.Pressure
		tempSum += row.Temperature
		dist[row.Type]++
	}
	n := float64(len(rows))
	return &model.Summary{
		TotalEquipment:   len(rows),
		AvgFlowrate:      round2(flowSum / n),
		AvgPressure:      round2(pressSum / n),
		AvgTemperature:   round2(tempSum / n),
		TypeDistribution: dist,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
