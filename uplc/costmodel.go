// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"fmt"
	"sync"
)

// StepKind identifies the kind of machine step being charged.
type StepKind uint8

// These constants define the machine step kinds.
const (
	StepConst StepKind = iota
	StepVar
	StepLambda
	StepApply
	StepDelay
	StepForce
	StepBuiltin
	StepConstr
	StepCase

	numStepKinds
)

// stepKindStrings is a map of step kinds back to their constant names for
// pretty printing.
var stepKindStrings = map[StepKind]string{
	StepConst:   "StepConst",
	StepVar:     "StepVar",
	StepLambda:  "StepLambda",
	StepApply:   "StepApply",
	StepDelay:   "StepDelay",
	StepForce:   "StepForce",
	StepBuiltin: "StepBuiltin",
	StepConstr:  "StepConstr",
	StepCase:    "StepCase",
}

// String returns the StepKind as a human-readable name.
func (k StepKind) String() string {
	if s := stepKindStrings[k]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown StepKind (%d)", uint8(k))
}

// BuiltinCost holds the cpu and memory costing functions of one builtin.
type BuiltinCost struct {
	CPU CostingFunc
	Mem CostingFunc
}

// Cost evaluates both costing functions for the given argument sizes.
func (c BuiltinCost) Cost(sizes ...int64) ExBudget {
	return ExBudget{
		CPU: toUnits(c.CPU.Cost(sizes...)),
		Mem: toUnits(c.Mem.Cost(sizes...)),
	}
}

// CostModel maps every machine step kind and builtin to a cost.  A CostModel
// is read only once built and may be shared by concurrent machines.
type CostModel struct {
	// Language selects builtin availability and version dependent builtin
	// semantics.
	Language Language

	// Startup is charged once before the first step.
	Startup ExBudget

	// Steps holds the cost of each step kind.
	Steps [numStepKinds]ExBudget

	// Builtins holds the costing functions indexed by BuiltinID.
	Builtins [numBuiltins]BuiltinCost
}

// StepCost returns the cost of one step of the given kind.
func (cm *CostModel) StepCost(kind StepKind) ExBudget {
	return cm.Steps[kind]
}

// BuiltinCost returns the cost of running fn with arguments of the given
// sizes.
func (cm *CostModel) BuiltinCost(fn BuiltinID, sizes ...int64) ExBudget {
	return cm.Builtins[fn].Cost(sizes...)
}

// Validate checks that the step kinds every non-trivial evaluation performs
// have a positive cost in both dimensions.  This guarantees that every
// evaluation under a finite budget terminates.
func (cm *CostModel) Validate() error {
	for _, kind := range []StepKind{StepApply, StepForce, StepVar, StepCase} {
		cost := cm.Steps[kind]
		if cost.CPU == 0 || cost.Mem == 0 {
			str := fmt.Sprintf("step kind %v has cost %v, both dimensions "+
				"must be positive", kind, cost)
			return scriptError(ErrInvalidCostModel, str)
		}
	}
	switch cm.Language {
	case LanguageV1, LanguageV2, LanguageV3:
	default:
		str := fmt.Sprintf("unsupported language %v", cm.Language)
		return scriptError(ErrInvalidCostModel, str)
	}
	return nil
}

// DefaultCostModel returns the cost model used by the main network for
// PlutusV3 scripts.
func DefaultCostModel() *CostModel {
	return DefaultCostModelFor(LanguageV3)
}

// DefaultCostModelFor returns the cost model used by the main network for
// scripts of language l.
func DefaultCostModelFor(l Language) *CostModel {
	mainnetOnce.Do(buildMainnetModels)
	base, ok := mainnetModels[l]
	if !ok {
		// Unknown languages keep the current costs and fail Validate.
		base = mainnetModels[LanguageV3]
	}
	cm := *base
	cm.Language = l
	return &cm
}

var (
	mainnetOnce   sync.Once
	mainnetModels map[Language]*CostModel
)

func buildMainnetModels() {
	mainnetModels = make(map[Language]*CostModel)
	for _, l := range []Language{LanguageV1, LanguageV2, LanguageV3} {
		cm := shapedCostModel(l)
		applyParams(cm, ledgerLayoutFor(l).params, mainnetParams[l])
		mainnetModels[l] = cm
	}
}

// shapedCostModel returns a cost model of language l with every costing
// function set to its shape and all parameters zero.
func shapedCostModel(l Language) *CostModel {
	cm := &CostModel{Language: l}
	for fn := range cm.Builtins {
		shapes := shapesFor(l, BuiltinID(fn))
		cm.Builtins[fn] = BuiltinCost{
			CPU: CostingFunc{Shape: shapes.cpu},
			Mem: CostingFunc{Shape: shapes.mem},
		}
	}
	return cm
}

// applyParams stores params into the slots of layout.  PlutusV1 and PlutusV2
// lists carry no constr and case costs, those steps are charged as an apply.
func applyParams(cm *CostModel, layout []costParam, params []int64) {
	for i, p := range layout {
		if i >= len(params) {
			break
		}
		p.slot.set(cm, params[i])
	}
	if cm.Language < LanguageV3 {
		cm.Steps[StepConstr] = cm.Steps[StepApply]
		cm.Steps[StepCase] = cm.Steps[StepApply]
	}
}

// UniformCostModel returns a PlutusV3 cost model charging step for every
// machine step and every builtin call, with no startup cost.  It is mostly
// useful for tests and for bounded normalization.
func UniformCostModel(step ExBudget) *CostModel {
	cm := &CostModel{Language: LanguageV3}
	for kind := range cm.Steps {
		cm.Steps[kind] = step
	}
	for fn := range cm.Builtins {
		cm.Builtins[fn] = BuiltinCost{
			CPU: constantCost(int64(step.CPU)),
			Mem: constantCost(int64(step.Mem)),
		}
	}
	return cm
}

// NewCostModelFromParams builds a cost model for language l from a ledger
// parameter list.  Entries follow the ledger order returned by ParamNames:
// PlutusV1 and PlutusV2 lists are sorted by parameter name, PlutusV3 lists
// append the parameters introduced after PlutusV2.  A list shorter than the
// one the language was introduced with is rejected.  Parameters missing from
// a longer list keep their main network values and trailing parameters are
// ignored so newer lists remain usable.  Costing function coefficients may
// be negative, startup and step costs may not.
func NewCostModelFromParams(l Language, params []int64) (*CostModel, error) {
	layout, ok := ledgerLayouts()[l]
	if !ok {
		str := fmt.Sprintf("unsupported language %v", l)
		return nil, scriptError(ErrInvalidCostModel, str)
	}
	if len(params) < layout.minParams {
		str := fmt.Sprintf("parameter list too short: %d parameters, "+
			"want at least %d", len(params), layout.minParams)
		return nil, scriptError(ErrInvalidCostModel, str)
	}
	for i, p := range layout.params {
		if i >= len(params) {
			break
		}
		if params[i] < 0 && p.slot.unsigned() {
			str := fmt.Sprintf("negative parameter %d for %s", params[i],
				p.name)
			return nil, scriptError(ErrInvalidCostModel, str)
		}
	}

	cm := DefaultCostModelFor(l)
	applyParams(cm, layout.params, params)
	if len(params) > len(layout.params) {
		log.Debugf("Ignoring %d trailing %v cost model parameters",
			len(params)-len(layout.params), l)
	}

	if err := cm.Validate(); err != nil {
		return nil, err
	}
	return cm, nil
}

// Params returns the ledger parameter list of cm.  It is the inverse of
// NewCostModelFromParams.
func (cm *CostModel) Params() []int64 {
	layout := ledgerLayoutFor(cm.Language)
	params := make([]int64, 0, len(layout.params))
	for _, p := range layout.params {
		params = append(params, p.slot.get(cm))
	}
	return params
}
