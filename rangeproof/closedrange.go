package rangeproof

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkrange/big"
)

// ClosedRange is the interval [Start, End] of integers. It is empty when Start > End.
type ClosedRange struct {
	Start *big.Int `json:"start"`
	End   *big.Int `json:"end"`
}

// NewClosedRange returns the range [start, end].
func NewClosedRange(start, end *big.Int) ClosedRange {
	return ClosedRange{Start: new(big.Int).Set(start), End: new(big.Int).Set(end)}
}

// ParseClosedRange returns the range [start, end] from decimal representations of its bounds.
func ParseClosedRange(start, end string) (ClosedRange, error) {
	lo, ok := new(big.Int).SetString(start, 10)
	if !ok {
		return ClosedRange{}, errors.Errorf("invalid range start %q", start)
	}
	hi, ok := new(big.Int).SetString(end, 10)
	if !ok {
		return ClosedRange{}, errors.Errorf("invalid range end %q", end)
	}
	return ClosedRange{Start: lo, End: hi}, nil
}

// Contains reports whether Start <= n <= End.
func (r ClosedRange) Contains(n *big.Int) bool {
	return r.Start.Cmp(n) <= 0 && n.Cmp(r.End) <= 0
}

// IsEmpty reports whether the range contains no integers.
func (r ClosedRange) IsEmpty() bool {
	return r.Start.Cmp(r.End) > 0
}

func (r ClosedRange) valid() error {
	if r.Start == nil || r.End == nil {
		return errors.Errorf("%w: missing bound", ErrEmptyRange)
	}
	if r.IsEmpty() {
		return errors.Errorf("%w: %s", ErrEmptyRange, r)
	}
	return nil
}

func (r ClosedRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}
