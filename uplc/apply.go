// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"context"
	"fmt"

	"github.com/btcsuite/uplcd/plutusdata"
)

// MaxApplyBudget is the default normalization ceiling of ApplyParams.  It is
// the maximum execution units of a transaction on the main network, so a
// script that loops while being specialized fails after at most 14 million
// steps under the default one unit per step costing.
var MaxApplyBudget = ExBudget{CPU: 10000000000, Mem: 14000000}

// ApplyConfig controls ApplyParams.  The zero value is ready to use.
type ApplyConfig struct {
	// Budget bounds normalization.  Nil means MaxApplyBudget.
	Budget *ExBudget

	// Costs is the cost model used for normalization.  Nil means a
	// uniform model charging one unit per step.
	Costs *CostModel
}

// ApplyParams specializes script by applying it to params in order, so that
// params[0] binds the outermost lambda, and normalizes the result by
// evaluating it and discharging the value back into a term.  Parameter count
// and order are not checked against the script: a script given too few
// parameters normalizes to a lambda awaiting the rest.
func ApplyParams(ctx context.Context, script Term, params []Term,
	cfg *ApplyConfig) (Term, error) {

	budget := MaxApplyBudget
	costs := UniformCostModel(ExBudget{CPU: 1, Mem: 1})
	if cfg != nil {
		if cfg.Budget != nil {
			budget = *cfg.Budget
		}
		if cfg.Costs != nil {
			costs = cfg.Costs
		}
	}

	term := ApplyTerms(script, params...)
	m := NewMachine(costs, budget, MachineNoTrace)
	v, err := m.Run(ctx, term)
	if err != nil {
		return nil, Error{
			Err: err,
			Description: fmt.Sprintf("normalizing script applied to %d "+
				"parameters: %v", len(params), err),
		}
	}

	log.Debugf("Applied %d parameters using %v", len(params), m.Consumed())
	return Discharge(v), nil
}

// ApplyParamsData is ApplyParams with every parameter given as a data
// constant.
func ApplyParamsData(ctx context.Context, script Term,
	params []plutusdata.PlutusData, cfg *ApplyConfig) (Term, error) {

	terms := make([]Term, 0, len(params))
	for _, p := range params {
		terms = append(terms, NewConstant(NewData(p)))
	}
	return ApplyParams(ctx, script, terms, cfg)
}
