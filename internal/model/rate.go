package model

import (
	"math"
	"strconv"
)

// undefinedRateText is how a rate without a value is serialized.
const undefinedRateText = "NaN"

// Rate is a floating point yield estimate that may be undefined, e.g. when
// there are no stability pool deposits to rate.
type Rate struct {
	Value float64
	Valid bool
}

// NewRate wraps v; NaN and infinities become undefined.
func NewRate(v float64) Rate {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Rate{}
	}
	return Rate{Value: v, Valid: true}
}

// UndefinedRate returns a rate with no value.
func UndefinedRate() Rate {
	return Rate{}
}

func (r Rate) String() string {
	if !r.Valid {
		return undefinedRateText
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}
