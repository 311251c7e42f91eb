package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// FlowMatrix holds the purchasing power each market binds from each cell.
// Rows follow MarketIDs, columns follow CellIDs.
//
// gonum does not allow zero-sized dense matrices, so a matrix without markets
// or without cells keeps no backing data and reads as all zeros.
type FlowMatrix struct {
	Setting   Setting
	MarketIDs []int64
	CellIDs   []int64

	marketIdx map[int64]int
	cellIdx   map[int64]int
	data      *mat.Dense
}

// NewFlowMatrix wraps data into a FlowMatrix. A nil data means all zeros.
func NewFlowMatrix(setting Setting, marketIDs, cellIDs []int64, data *mat.Dense) (*FlowMatrix, error) {
	if data != nil {
		r, c := data.Dims()
		if r != len(marketIDs) || c != len(cellIDs) {
			return nil, fmt.Errorf("flow matrix shape %dx%d does not match %d markets and %d cells",
				r, c, len(marketIDs), len(cellIDs))
		}
	} else if len(marketIDs) > 0 && len(cellIDs) > 0 {
		data = mat.NewDense(len(marketIDs), len(cellIDs), nil)
	}

	m := &FlowMatrix{
		Setting:   setting,
		MarketIDs: append([]int64(nil), marketIDs...),
		CellIDs:   append([]int64(nil), cellIDs...),
		marketIdx: indexOf(marketIDs),
		cellIdx:   indexOf(cellIDs),
		data:      data,
	}
	if len(m.marketIdx) != len(marketIDs) {
		return nil, fmt.Errorf("duplicate market id in flow matrix")
	}
	if len(m.cellIdx) != len(cellIDs) {
		return nil, fmt.Errorf("duplicate cell id in flow matrix")
	}
	return m, nil
}

func indexOf(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

// Dims returns the number of markets and cells.
func (m *FlowMatrix) Dims() (markets, cells int) {
	return len(m.MarketIDs), len(m.CellIDs)
}

// IsEmpty reports whether the matrix has no entries at all.
func (m *FlowMatrix) IsEmpty() bool {
	return m.data == nil
}

// Matrix exposes the backing matrix, nil when empty.
func (m *FlowMatrix) Matrix() mat.Matrix {
	if m.data == nil {
		return nil
	}
	return m.data
}

// At returns the flow at row i and column j.
func (m *FlowMatrix) At(i, j int) float64 {
	if m.data == nil {
		return 0
	}
	return m.data.At(i, j)
}

// MarketIndex returns the row of a market.
func (m *FlowMatrix) MarketIndex(marketID int64) (int, bool) {
	i, ok := m.marketIdx[marketID]
	return i, ok
}

// CellIndex returns the column of a cell.
func (m *FlowMatrix) CellIndex(cellID int64) (int, bool) {
	j, ok := m.cellIdx[cellID]
	return j, ok
}

// Flow returns the flow from a cell to a market.
func (m *FlowMatrix) Flow(marketID, cellID int64) (float64, bool) {
	i, ok := m.marketIdx[marketID]
	if !ok {
		return 0, false
	}
	j, ok := m.cellIdx[cellID]
	if !ok {
		return 0, false
	}
	return m.At(i, j), true
}

// MarketRevenue returns the row sum of a market; zero for unknown markets.
func (m *FlowMatrix) MarketRevenue(marketID int64) float64 {
	i, ok := m.marketIdx[marketID]
	if !ok || m.data == nil {
		return 0
	}
	return floatSum(m.data.RawRowView(i))
}

// MarketRevenues returns the row sums keyed by market id.
func (m *FlowMatrix) MarketRevenues() map[int64]float64 {
	out := make(map[int64]float64, len(m.MarketIDs))
	for _, id := range m.MarketIDs {
		out[id] = m.MarketRevenue(id)
	}
	return out
}

// CellTotal returns the column sum of a cell; zero for unknown cells.
func (m *FlowMatrix) CellTotal(cellID int64) float64 {
	j, ok := m.cellIdx[cellID]
	if !ok || m.data == nil {
		return 0
	}
	total := 0.0
	for i := range m.MarketIDs {
		total += m.data.At(i, j)
	}
	return total
}

// Total returns the sum over all entries.
func (m *FlowMatrix) Total() float64 {
	if m.data == nil {
		return 0
	}
	return mat.Sum(m.data)
}

// Row returns a copy of the flows of one market, ordered like CellIDs.
func (m *FlowMatrix) Row(marketID int64) []float64 {
	i, ok := m.marketIdx[marketID]
	if !ok {
		return nil
	}
	row := make([]float64, len(m.CellIDs))
	if m.data != nil {
		copy(row, m.data.RawRowView(i))
	}
	return row
}

func floatSum(vs []float64) float64 {
	total := 0.0
	for _, v := range vs {
		total += v
	}
	return total
}

type flowMatrixJSON struct {
	Setting   Setting     `json:"setting"`
	MarketIDs []int64     `json:"market_ids"`
	CellIDs   []int64     `json:"cell_ids"`
	Values    [][]float64 `json:"values"`
}

// MarshalJSON encodes the matrix as ids plus row-major values.
func (m *FlowMatrix) MarshalJSON() ([]byte, error) {
	out := flowMatrixJSON{
		Setting:   m.Setting,
		MarketIDs: m.MarketIDs,
		CellIDs:   m.CellIDs,
		Values:    make([][]float64, len(m.MarketIDs)),
	}
	for _, id := range m.MarketIDs {
		out.Values[m.marketIdx[id]] = m.Row(id)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a matrix written by MarshalJSON.
func (m *FlowMatrix) UnmarshalJSON(b []byte) error {
	var in flowMatrixJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if len(in.Values) != len(in.MarketIDs) {
		return fmt.Errorf("flow matrix has %d rows for %d markets", len(in.Values), len(in.MarketIDs))
	}

	var data *mat.Dense
	if len(in.MarketIDs) > 0 && len(in.CellIDs) > 0 {
		data = mat.NewDense(len(in.MarketIDs), len(in.CellIDs), nil)
		for i, row := range in.Values {
			if len(row) != len(in.CellIDs) {
				return fmt.Errorf("flow matrix row %d has %d values for %d cells", i, len(row), len(in.CellIDs))
			}
			data.SetRow(i, row)
		}
	}

	restored, err := NewFlowMatrix(in.Setting, in.MarketIDs, in.CellIDs, data)
	if err != nil {
		return err
	}
	*m = *restored
	return nil
}

// FlowsCacheKeyPrefix returns the cache key prefix shared by all settings of a project.
func FlowsCacheKeyPrefix(projectID uuid.UUID) string {
	return "competition:flows:" + projectID.String() + ":"
}

// FlowsCacheKey returns the cache key of one setting's flows.
func FlowsCacheKey(projectID uuid.UUID, setting Setting) string {
	return FlowsCacheKeyPrefix(projectID) + string(setting)
}

// StatsCacheKey returns the cache key of a project's input statistics.
func StatsCacheKey(projectID uuid.UUID) string {
	return "competition:stats:" + projectID.String()
}
