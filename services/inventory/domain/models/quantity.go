package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quantity is a non-negative unit count (the "cantidad" column).
type Quantity int64

// MaxQuantity is the largest count the INTEGER columns can hold.
const MaxQuantity Quantity = math.MaxInt32

// ParseQuantity parses operator input into a Quantity. Only plain decimal
// digits are accepted, so signs, decimals and exponents are rejected.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("cantidad is required")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("cantidad must be a non-negative integer, got %q", s)
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > int64(MaxQuantity) {
		return 0, fmt.Errorf("cantidad must not exceed %d, got %q", MaxQuantity, s)
	}
	return Quantity(n), nil
}

func (q Quantity) String() string {
	return strconv.FormatInt(int64(q), 10)
}
