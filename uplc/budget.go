// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"fmt"
	"math"
)

// ExBudget is a pair of execution unit amounts.
type ExBudget struct {
	CPU uint64
	Mem uint64
}

// MaxExBudget is the largest representable budget.
var MaxExBudget = ExBudget{CPU: math.MaxInt64, Mem: math.MaxInt64}

// Add returns the component-wise sum of b and o, saturating at the maximum
// value.
func (b ExBudget) Add(o ExBudget) ExBudget {
	return ExBudget{CPU: satAddU(b.CPU, o.CPU), Mem: satAddU(b.Mem, o.Mem)}
}

// Sub returns the component-wise difference of b and o, saturating at zero.
func (b ExBudget) Sub(o ExBudget) ExBudget {
	return ExBudget{CPU: satSubU(b.CPU, o.CPU), Mem: satSubU(b.Mem, o.Mem)}
}

// Covers reports whether b is at least o in both dimensions.
func (b ExBudget) Covers(o ExBudget) bool {
	return b.CPU >= o.CPU && b.Mem >= o.Mem
}

// String returns a human-readable form of the budget.
func (b ExBudget) String() string {
	return fmt.Sprintf("{cpu: %d, mem: %d}", b.CPU, b.Mem)
}

// Dimension identifies which side of a budget was exhausted.
type Dimension uint8

// These constants define the budget dimensions.
const (
	DimensionCPU Dimension = iota + 1
	DimensionMem
	DimensionBoth
)

// String returns the Dimension as a human-readable name.
func (d Dimension) String() string {
	switch d {
	case DimensionCPU:
		return "cpu"
	case DimensionMem:
		return "mem"
	case DimensionBoth:
		return "cpu and mem"
	}
	return fmt.Sprintf("Unknown Dimension (%d)", uint8(d))
}

// BudgetError describes a debit that would have driven the budget below
// zero.  It matches ErrOutOfBudget with errors.Is.
type BudgetError struct {
	Dimension Dimension
	Cost      ExBudget
	Remaining ExBudget
}

// Error satisfies the error interface and prints human-readable errors.
func (e BudgetError) Error() string {
	return fmt.Sprintf("out of budget (%v): cost %v, remaining %v",
		e.Dimension, e.Cost, e.Remaining)
}

// Unwrap returns ErrOutOfBudget.
func (e BudgetError) Unwrap() error {
	return ErrOutOfBudget
}

// Budget tracks the remaining execution units of one evaluation.
type Budget struct {
	limit     ExBudget
	remaining ExBudget
	record    bool
	history   []ExBudget
}

// NewBudget returns a Budget starting at limit.  When record is set every
// successful debit appends the remaining budget to the history returned by
// Log.
func NewBudget(limit ExBudget, record bool) *Budget {
	return &Budget{limit: limit, remaining: limit, record: record}
}

// Spend debits cost.  Both dimensions are checked before either is
// subtracted so a failed debit leaves the budget untouched.
func (b *Budget) Spend(cost ExBudget) error {
	cpuShort := cost.CPU > b.remaining.CPU
	memShort := cost.Mem > b.remaining.Mem
	if cpuShort || memShort {
		dim := DimensionCPU
		switch {
		case cpuShort && memShort:
			dim = DimensionBoth
		case memShort:
			dim = DimensionMem
		}
		return BudgetError{Dimension: dim, Cost: cost,
			Remaining: b.remaining}
	}

	b.remaining.CPU -= cost.CPU
	b.remaining.Mem -= cost.Mem
	if b.record {
		b.history = append(b.history, b.remaining)
	}
	return nil
}

// Remaining returns the units left.
func (b *Budget) Remaining() ExBudget {
	return b.remaining
}

// Consumed returns the units spent so far.
func (b *Budget) Consumed() ExBudget {
	return b.limit.Sub(b.remaining)
}

// Log returns the remaining budget after each debit, oldest first.  It is
// empty unless recording was requested.
func (b *Budget) Log() []ExBudget {
	return b.history
}

func satAddU(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func satSubU(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
