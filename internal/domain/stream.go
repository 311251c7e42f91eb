package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamCompetitionCalculate = "stream:competition:calculate"
	StreamCompetitionDone      = "stream:competition:done"
)

// CompetitionCalculateEvent - входящее событие на расчёт конкуренции
type CompetitionCalculateEvent struct {
	RequestID uuid.UUID `json:"request_id" validate:"required"`
	ProjectID uuid.UUID `json:"project_id" validate:"required"`
	Settings  []Setting `json:"settings,omitempty" validate:"omitempty,dive,oneof=nullfall planfall"`
}

// RequestedSettings возвращает запрошенные варианты, по умолчанию оба
func (e *CompetitionCalculateEvent) RequestedSettings() []Setting {
	if len(e.Settings) == 0 {
		return Settings
	}
	seen := make(map[Setting]bool, len(e.Settings))
	out := make([]Setting, 0, len(e.Settings))
	for _, s := range e.Settings {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// CompetitionDoneEvent - результат расчёта
type CompetitionDoneEvent struct {
	RequestID uuid.UUID        `json:"request_id"`
	ProjectID uuid.UUID        `json:"project_id"`
	RunID     uuid.UUID        `json:"run_id,omitempty"`
	Results   []SettingSummary `json:"results,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// SettingSummary - агрегаты одного варианта расчёта
type SettingSummary struct {
	Setting      Setting `json:"setting"`
	TotalRevenue float64 `json:"total_revenue"`
	MarketCount  int     `json:"market_count"`
	CellCount    int     `json:"cell_count"`
}

// Summarize считает агрегаты матрицы потоков
func Summarize(m *FlowMatrix) SettingSummary {
	markets, cells := m.Dims()
	return SettingSummary{
		Setting:      m.Setting,
		TotalRevenue: m.Total(),
		MarketCount:  markets,
		CellCount:    cells,
	}
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
