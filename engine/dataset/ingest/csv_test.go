package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Should parse a well-formed file and compute stats", func(t *testing.T) {
		data := `Equipment Name,Type,Flowrate,Pressure,Temperature
Pump A,Pump,120.5,8.2,65.0
Pump B,Pump,110.0,7.8,70.0
Reactor 1,Reactor,45.5,15.0,250.0
`
		res, err := Parse(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, res.Rows, 3)
		assert.Equal(t, 0, res.Skipped)
		assert.Equal(t, 3, res.Summary.TotalEquipment)
		assert.InDelta(t, 92.0, res.Summary.AvgFlowrate, 0.001)
		assert.InDelta(t, 10.33, res.Summary.AvgPressure, 0.001)
		assert.InDelta(t, 128.33, res.Summary.AvgTemperature, 0.001)
		assert.Equal(t, map[string]int{"Pump": 2, "Reactor": 1}, res.Summary.TypeDistribution)
	})
	t.Run("Should accept header aliases", func(t *testing.T) {
		data := `name,equipment_type,flow_rate,pressure,Temp
Pump A,Pump,120.5,8.2,65.0
`
		res, err := Parse(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "Pump A", res.Rows[0].Name)
		assert.Equal(t, "Pump", res.Rows[0].Type)
	})
	t.Run("Should trim whitespace in headers and fields", func(t *testing.T) {
		data := ` Equipment Name , Type , Flowrate , Pressure , Temperature
 Pump A , Pump , 120.5 , 8.2 , 65.0
`
		res, err := Parse(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, "Pump A", res.Rows[0].Name)
		assert.InDelta(t, 120.5, res.Rows[0].Flowrate, 0.001)
	})
	t.Run("Should report missing columns with found and expected lists", func(t *testing.T) {
		data := `Equipment Name,Type,Flowrate
Pump A,Pump,120.5
`
		_, err := Parse(strings.NewReader(data))
		require.Error(t, err)
		var missingErr *MissingColumnsError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []Column{ColumnPressure, ColumnTemperature}, missingErr.Missing)
		assert.Equal(t, []string{"Equipment Name", "Type", "Flowrate"}, missingErr.Found)
		assert.Contains(t, err.Error(), "Pressure")
		assert.Contains(t, err.Error(), "Temperature")
	})
	t.Run("Should drop rows with unparseable numbers", func(t *testing.T) {
		data := `Equipment Name,Type,Flowrate,Pressure,Temperature
Pump A,Pump,120.5,8.2,65.0
Pump B,Pump,not-a-number,7.8,70.0
Pump C,Pump,100.0,bad,70.0
`
		res, err := Parse(strings.NewReader(data))
		require.NoError(t, err)
		assert.Len(t, res.Rows, 1)
		assert.Equal(t, 2, res.Skipped)
		assert.Equal(t, 1, res.Summary.TotalEquipment)
	})
	t.Run("Should drop rows with empty name or type", func(t *testing.T) {
		data := `Equipment Name,Type,Flowrate,Pressure,Temperature
,Pump,120.5,8.2,65.0
Pump B,,110.0,7.8,70.0
Pump C,Pump,100.0,9.0,70.0
`
		res, err := Parse(strings.NewReader(data))
		require.NoError(t, err)
		assert.Len(t, res.Rows, 1)
		assert.Equal(t, 2, res.Skipped)
	})
	t.Run("Should reject an empty file", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
	t.Run("Should reject a header-only file", func(t *testing.T) {
		data := "Equipment Name,Type,Flowrate,Pressure,Temperature\n"
		_, err := Parse(strings.NewReader(data))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
	t.Run("Should reject a file where every row is invalid", func(t *testing.T) {
		data := `Equipment Name,Type,Flowrate,Pressure,Temperature
Pump A,Pump,bad,8.2,65.0
`
		_, err := Parse(strings.NewReader(data))
		assert.ErrorIs(t, err, ErrNoValidRows)
	})
	t.Run("Should round averages to two decimals", func(t *testing.T) {
		data := `Equipment Name,Type,Flowrate,Pressure,Temperature
A,Pump,1,1,1
B,Pump,2,2,2
C,Pump,2,2,2
`
		res, err := Parse(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 1.67, res.Summary.AvgFlowrate)
	})
}
