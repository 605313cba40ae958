// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"context"
	"fmt"
	"strings"

	"github.com/btcsuite/uplcd/ledger"
	"github.com/btcsuite/uplcd/uplc"
)

// RedeemerResult is the outcome of evaluating the script of one redeemer.
type RedeemerResult struct {
	Tag        ledger.RedeemerTag
	Index      uint32
	ScriptHash ledger.ScriptHash
	Language   uplc.Language

	// Success reports whether the script accepted.  Err holds the reason
	// when it did not.
	Success bool
	Err     error

	// Consumed is the budget the script used, including on failure.
	Consumed uplc.ExBudget

	// Logs holds the messages traced by the script.
	Logs []string

	// BudgetLog holds the remaining budget after every charge when
	// Config.RecordBudget is set.
	BudgetLog []uplc.ExBudget

	data ledger.Redeemer
}

// Redeemer returns the evaluated redeemer with its execution units set to
// the budget the script consumed.
func (r *RedeemerResult) Redeemer() ledger.Redeemer {
	red := r.data
	red.ExUnits = ledger.ExUnits{Mem: r.Consumed.Mem, Steps: r.Consumed.CPU}
	return red
}

// EncodeResults serializes the redeemers of results with their measured
// execution units, in the layout of a witness set.  It fails on the first
// result whose script did not succeed.
func EncodeResults(results []RedeemerResult) ([][]byte, error) {
	out := make([][]byte, 0, len(results))
	for i := range results {
		r := &results[i]
		if !r.Success {
			return nil, &ScriptFailureError{
				Tag:        r.Tag,
				Index:      r.Index,
				ScriptHash: r.ScriptHash,
				Cause:      r.Err,
			}
		}
		red := r.Redeemer()
		b, err := ledger.EncodeRedeemer(&red)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// prepared is an evalItem ready to run: its cost model, the program
// applied to its arguments, and its budget.
type prepared struct {
	item   *evalItem
	costs  *uplc.CostModel
	term   uplc.Term
	budget uplc.ExBudget
}

// evaluate runs one prepared script and records its outcome.
func evaluate(ctx context.Context, p *prepared, flags uplc.MachineFlags) RedeemerResult {
	item := p.item
	res := RedeemerResult{
		Tag:        item.redeemer.Tag,
		Index:      item.redeemer.Index,
		ScriptHash: item.hash,
		Language:   item.script.Language,
		data:       *item.redeemer,
	}

	out := uplc.Eval(ctx, p.term, p.budget, p.costs, flags)
	res.Consumed = out.Consumed
	res.Logs = out.Logs
	res.BudgetLog = out.BudgetLog
	res.Err = out.Err

	// PlutusV3 scripts must return unit to accept.
	if res.Err == nil && item.script.Language == uplc.LanguageV3 {
		c, ok := out.Value.(*uplc.ConstValue)
		if !ok {
			res.Err = validationError(ErrScriptFailed, "script did "+
				"not return unit")
		} else if _, isUnit := c.Const.(uplc.Unit); !isUnit {
			str := fmt.Sprintf("script returned %v instead of unit",
				c.Const)
			res.Err = validationError(ErrScriptFailed, str)
		}
	}
	res.Success = res.Err == nil

	if res.Success {
		log.Debugf("Script %v for redeemer %v/%d accepted using %v",
			item.hash, res.Tag, res.Index, res.Consumed)
	} else {
		log.Debugf("Script %v for redeemer %v/%d failed using %v: %v",
			item.hash, res.Tag, res.Index, res.Consumed, res.Err)
	}
	return res
}

// EvalPhaseTwo evaluates the script of every redeemer of tx.  utxos must
// hold every input and reference input of tx.  A nil costModels selects the
// default cost model of each language and a nil cfg the default Config.
//
// The returned results are in the order of the witness set redeemers.
// Resolution and decoding failures abort the call and return no results.
// In strict mode the first failing redeemer in witness order stops
// evaluation: the results up to and including it are returned with a
// ScriptFailureError.
func EvalPhaseTwo(ctx context.Context, tx *ledger.Transaction,
	utxos []ledger.ResolvedInput, costModels CostModels,
	cfg *Config) ([]RedeemerResult, error) {

	if cfg == nil {
		cfg = &Config{}
	}

	view, err := newTxView(tx, utxos)
	if err != nil {
		return nil, err
	}
	items, err := view.resolve()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	builder := newContextBuilder(view, items, cfg.slotConfig())
	preps := make([]*prepared, 0, len(items))
	for _, item := range items {
		p, err := prepare(item, builder, costModels, cfg)
		if err != nil {
			return nil, err
		}
		preps = append(preps, p)
	}

	var flags uplc.MachineFlags
	if cfg.RecordBudget {
		flags |= uplc.MachineRecordBudget
	}

	log.Debugf("Evaluating %d redeemers of transaction %v with %v budget "+
		"policy", len(preps), tx.ID, cfg.BudgetPolicy)

	var results []RedeemerResult
	if cfg.BudgetPolicy == BudgetShared {
		results = evalShared(ctx, preps, cfg, flags)
	} else {
		v := newRedeemerValidator(ctx, flags, cfg.Strict)
		results = v.Validate(preps, cfg.workers(len(preps)))
	}

	if cfg.Strict {
		for i := range results {
			r := &results[i]
			if !r.Success {
				return results[:i+1], &ScriptFailureError{
					Tag:        r.Tag,
					Index:      r.Index,
					ScriptHash: r.ScriptHash,
					Cause:      r.Err,
				}
			}
		}
	}
	return results, nil
}

// prepare decodes the program of item and applies it to its arguments.
func prepare(item *evalItem, builder *contextBuilder, costModels CostModels,
	cfg *Config) (*prepared, error) {

	costs, err := costModels.lookup(item.script.Language)
	if err != nil {
		return nil, err
	}
	program, err := decodeProgram(cfg.Cache, item.script, item.hash)
	if err != nil {
		return nil, err
	}

	args := builder.scriptArgs(item)
	log.Tracef("Arguments of script %v for redeemer %v/%d: %v", item.hash,
		item.redeemer.Tag, item.redeemer.Index,
		newLogClosure(func() string {
			strs := make([]string, 0, len(args))
			for _, arg := range args {
				strs = append(strs, arg.String())
			}
			return strings.Join(strs, ", ")
		}))

	terms := make([]uplc.Term, 0, len(args))
	for _, arg := range args {
		terms = append(terms, uplc.NewConstant(uplc.NewData(arg)))
	}

	budget := cfg.budget()
	if cfg.BudgetPolicy == BudgetDeclared {
		budget = uplc.ExBudget{
			CPU: item.redeemer.ExUnits.Steps,
			Mem: item.redeemer.ExUnits.Mem,
		}
	}

	return &prepared{
		item:   item,
		costs:  costs,
		term:   uplc.ApplyTerms(program.Term, terms...),
		budget: budget,
	}, nil
}

// evalShared evaluates preps in order, drawing every script from a single
// pool of the configured budget.
func evalShared(ctx context.Context, preps []*prepared, cfg *Config,
	flags uplc.MachineFlags) []RedeemerResult {

	pool := cfg.budget()
	results := make([]RedeemerResult, 0, len(preps))
	for _, p := range preps {
		p.budget = pool
		res := evaluate(ctx, p, flags)
		pool = pool.Sub(res.Consumed)
		results = append(results, res)
		if cfg.Strict && !res.Success {
			break
		}
	}
	return results
}
