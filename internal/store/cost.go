package store

import (
	"math"
	"strconv"
)

// formatCost renders a cost for JSON, preserving infinities, which
// encoding/json cannot represent as numbers.
func formatCost(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseCost is the inverse of formatCost. Malformed input parses as NaN.
func parseCost(s string) float64 {
	switch s {
	case "inf":
		return math.Inf(1)
	case "-inf":
		return math.Inf(-1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
