package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Series is an indicator output aligned index-for-index with a PriceSeries.
// NaN marks warm-up positions where the indicator is undefined.
type Series []float64

// NewSeries returns a series of length n with every value undefined
func NewSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// At returns the value at i and whether it is defined
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || math.IsNaN(s[i]) {
		return 0, false
	}
	return s[i], true
}

// Last returns the final value and whether it is defined
func (s Series) Last() (float64, bool) {
	return s.At(len(s) - 1)
}

// Defined reports whether index i holds a value
func (s Series) Defined(i int) bool {
	_, ok := s.At(i)
	return ok
}

// MarshalJSON writes undefined positions as null
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, len(s)*8+2)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
	}
	return append(buf, ']'), nil
}

// UnmarshalJSON reads null entries back as undefined
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	*s = out
	return nil
}
