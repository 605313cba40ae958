// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBudgetSpend ensures debits are atomic across both dimensions and report
// the exhausted dimension.
func TestBudgetSpend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		limit     ExBudget
		cost      ExBudget
		dimension Dimension
		remaining ExBudget
	}{{
		name:      "exact spend reaches zero",
		limit:     ExBudget{CPU: 5, Mem: 7},
		cost:      ExBudget{CPU: 5, Mem: 7},
		remaining: ExBudget{},
	}, {
		name:      "cpu exhausted",
		limit:     ExBudget{CPU: 5, Mem: 7},
		cost:      ExBudget{CPU: 6, Mem: 1},
		dimension: DimensionCPU,
		remaining: ExBudget{CPU: 5, Mem: 7},
	}, {
		name:      "mem exhausted",
		limit:     ExBudget{CPU: 5, Mem: 7},
		cost:      ExBudget{CPU: 1, Mem: 8},
		dimension: DimensionMem,
		remaining: ExBudget{CPU: 5, Mem: 7},
	}, {
		name:      "both exhausted",
		limit:     ExBudget{},
		cost:      ExBudget{CPU: 1, Mem: 1},
		dimension: DimensionBoth,
		remaining: ExBudget{},
	}}

	for _, test := range tests {
		b := NewBudget(test.limit, false)
		err := b.Spend(test.cost)
		if test.dimension == 0 {
			require.NoError(t, err, test.name)
		} else {
			require.ErrorIs(t, err, ErrOutOfBudget, test.name)
			var berr BudgetError
			require.True(t, errors.As(err, &berr), test.name)
			require.Equal(t, test.dimension, berr.Dimension, test.name)
			require.Equal(t, test.cost, berr.Cost, test.name)
		}
		require.Equal(t, test.remaining, b.Remaining(), test.name)
		require.Equal(t, test.limit.Sub(test.remaining), b.Consumed(),
			test.name)
	}
}

// TestBudgetLog ensures the remaining budget is recorded after each
// successful debit only when requested.
func TestBudgetLog(t *testing.T) {
	t.Parallel()

	b := NewBudget(ExBudget{CPU: 10, Mem: 10}, true)
	require.NoError(t, b.Spend(ExBudget{CPU: 3, Mem: 1}))
	require.NoError(t, b.Spend(ExBudget{CPU: 2, Mem: 2}))
	require.Error(t, b.Spend(ExBudget{CPU: 100}))
	require.Equal(t, []ExBudget{{CPU: 7, Mem: 9}, {CPU: 5, Mem: 7}}, b.Log())

	quiet := NewBudget(ExBudget{CPU: 10, Mem: 10}, false)
	require.NoError(t, quiet.Spend(ExBudget{CPU: 1, Mem: 1}))
	require.Empty(t, quiet.Log())
}

// TestExBudgetArithmetic ensures budget arithmetic saturates.
func TestExBudgetArithmetic(t *testing.T) {
	t.Parallel()

	a := ExBudget{CPU: 10, Mem: 3}
	b := ExBudget{CPU: 4, Mem: 5}
	require.Equal(t, ExBudget{CPU: 14, Mem: 8}, a.Add(b))
	require.Equal(t, ExBudget{CPU: 6, Mem: 0}, a.Sub(b))
	require.False(t, a.Covers(b))
	require.True(t, a.Covers(ExBudget{CPU: 10, Mem: 3}))

	huge := ExBudget{CPU: ^uint64(0), Mem: ^uint64(0)}
	require.Equal(t, huge, huge.Add(a))
	require.Equal(t, "{cpu: 10, mem: 3}", a.String())
}
