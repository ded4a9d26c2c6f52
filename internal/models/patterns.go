package models

// FibonacciLevel is one retracement line
type FibonacciLevel struct {
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
	Label string  `json:"label"`
}

// FibonacciLevels holds retracement lines between the window high and low.
// Levels are ordered by ascending ratio, so prices descend.
type FibonacciLevels struct {
	High   float64          `json:"high"`
	Low    float64          `json:"low"`
	Levels []FibonacciLevel `json:"levels"`
}

// Level cluster types
const (
	LevelSupport    = "support"
	LevelResistance = "resistance"
)

// LevelCluster is a price zone built from merged pivots
type LevelCluster struct {
	Price      float64 `json:"price"`
	TouchCount int     `json:"touch_count"`
	Type       string  `json:"type"`
}

// SupportResistance holds at most three clusters per side, strongest first
type SupportResistance struct {
	Support    []LevelCluster `json:"support"`
	Resistance []LevelCluster `json:"resistance"`
}
