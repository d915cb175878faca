package models

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
)

// CounterBody represents the JSON body returned by the counter endpoint.
// Counter is a pointer so that an absent field can be told apart from zero.
type CounterBody struct {
	Counter *Counter `json:"counter"`
}

// Counter is a JSON number with an exact int64 value. Exponent and decimal
// forms such as 1e2 or 42.0 are accepted; fractional or out-of-range values
// are not.
type Counter int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Counter) UnmarshalJSON(data []byte) error {
	literal := string(bytes.TrimSpace(data))

	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		*c = Counter(n)
		return nil
	}

	// 128 bits hold every int64 exactly, so an inexact parse means a fraction.
	f, _, err := big.ParseFloat(literal, 10, 128, big.ToNearestEven)
	if err != nil {
		return fmt.Errorf("counter %s is not a number", literal)
	}
	n, acc := f.Int64()
	switch {
	case !f.IsInt():
		return fmt.Errorf("counter %s is not a whole number", literal)
	case acc != big.Exact:
		return fmt.Errorf("counter %s is out of range", literal)
	case f.Acc() != big.Exact:
		return fmt.Errorf("counter %s is not a whole number", literal)
	}

	*c = Counter(n)
	return nil
}
