package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Numeric is a number received from the backend, which sometimes encodes
// numbers as JSON strings. The raw text is kept and coerced on use.
type Numeric string

// NumericFromInt returns the Numeric form of n.
func NumericFromInt(n int) Numeric {
	return Numeric(strconv.Itoa(n))
}

// Float coerces the value to a finite float. ok is false for empty,
// non-numeric, NaN or infinite values.
func (n Numeric) Float() (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int coerces the value to an integer, truncating any fraction.
func (n Numeric) Int() (int, bool) {
	f, ok := n.Float()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// IntOr returns the integer value, or def if coercion fails.
func (n Numeric) IntOr(def int) int {
	if v, ok := n.Int(); ok {
		return v
	}
	return def
}

// NumericGreater reports a > b numerically. Values that fail coercion
// never compare greater.
func NumericGreater(a, b Numeric) bool {
	af, ok := a.Float()
	if !ok {
		return false
	}
	bf, ok := b.Float()
	if !ok {
		return false
	}
	return af > bf
}

// UnmarshalJSON accepts a JSON number, a string or null.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*n = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	case strings.HasPrefix(raw, "{"), strings.HasPrefix(raw, "["), raw == "true", raw == "false":
		return fmt.Errorf("numeric: unexpected JSON value %s", raw)
	}
	*n = Numeric(raw)
	return nil
}

// MarshalJSON writes a number when the value coerces, and a string otherwise.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if f, ok := n.Float(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(string(n))
}
