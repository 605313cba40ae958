// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"context"
	"fmt"

	"github.com/btcsuite/btclog"
)

// MachineFlags is a bitmask defining optional behavior of a Machine.
type MachineFlags uint32

const (
	// MachineRecordBudget records the remaining budget after every debit.
	// The history is available through BudgetLog.
	MachineRecordBudget MachineFlags = 1 << iota

	// MachineNoTrace discards the messages emitted by the trace builtin
	// instead of collecting them.
	MachineNoTrace
)

// ctxCheckInterval is the number of steps between cancellation checks.
const ctxCheckInterval = 1024

// frame is a pending continuation on the machine stack.
type frame interface {
	isFrame()
}

// frameAwaitFunTerm waits for the function of an application whose argument
// term has not been evaluated yet.
type frameAwaitFunTerm struct {
	env *env
	arg Term
}

// frameAwaitArg waits for the argument of an application whose function is
// already a value.
type frameAwaitArg struct {
	fn Value
}

// frameAwaitFunValue waits for a function to apply to an already evaluated
// argument.  Case branches use it to receive constructor fields.
type frameAwaitFunValue struct {
	arg Value
}

// frameForce waits for a value to force.
type frameForce struct{}

// frameConstr waits for the next constructor field.
type frameConstr struct {
	env     *env
	tag     uint64
	pending []Term
	done    []Value
}

// frameCases waits for the scrutinee of a case.
type frameCases struct {
	env      *env
	branches []Term
}

func (frameAwaitFunTerm) isFrame()  {}
func (frameAwaitArg) isFrame()      {}
func (frameAwaitFunValue) isFrame() {}
func (frameForce) isFrame()         {}
func (frameConstr) isFrame()        {}
func (frameCases) isFrame()         {}

// state is the machine register.  When term is non-nil the machine is
// computing term in env, otherwise it is returning value to the topmost
// frame.
type state struct {
	term  Term
	env   *env
	value Value
}

func computing(t Term, e *env) state {
	return state{term: t, env: e}
}

func returning(v Value) state {
	return state{value: v}
}

// Machine evaluates a term under a cost model and a budget.  Every step is
// paid for before it is taken, so the machine halts with ErrOutOfBudget as
// soon as the remaining budget can not cover the next step.  A Machine is
// not safe for concurrent use and evaluates a single term.
type Machine struct {
	costs     *CostModel
	budget    *Budget
	flags     MachineFlags
	frames    []frame
	logs      []string
	steps     uint64
	stepLimit uint64
}

// NewMachine returns a machine that evaluates under the given cost model and
// budget.
func NewMachine(costs *CostModel, budget ExBudget, flags MachineFlags) *Machine {
	return &Machine{
		costs:  costs,
		budget: NewBudget(budget, flags&MachineRecordBudget != 0),
		flags:  flags,
	}
}

// hasFlag returns whether the machine has the passed flag set.
func (m *Machine) hasFlag(flag MachineFlags) bool {
	return m.flags&flag == flag
}

// SetStepLimit bounds the number of compute and return steps.  Zero means
// no limit.
func (m *Machine) SetStepLimit(limit uint64) {
	m.stepLimit = limit
}

// Remaining returns the unspent budget.
func (m *Machine) Remaining() ExBudget {
	return m.budget.Remaining()
}

// Consumed returns the budget spent so far.
func (m *Machine) Consumed() ExBudget {
	return m.budget.Consumed()
}

// Logs returns the messages emitted by the trace builtin in order.
func (m *Machine) Logs() []string {
	return m.logs
}

// BudgetLog returns the remaining budget after each debit when the machine
// was created with MachineRecordBudget.
func (m *Machine) BudgetLog() []ExBudget {
	return m.budget.Log()
}

// Steps returns the number of steps taken.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// spend debits cost from the budget.
func (m *Machine) spend(cost ExBudget) error {
	return m.budget.Spend(cost)
}

// spendStep debits the cost of one step of the given kind.
func (m *Machine) spendStep(kind StepKind) error {
	return m.spend(m.costs.StepCost(kind))
}

// trace records a message emitted by the trace builtin.
func (m *Machine) trace(msg string) {
	if m.hasFlag(MachineNoTrace) {
		return
	}
	m.logs = append(m.logs, msg)
	log.Debugf("Script trace: %s", msg)
}

// Run evaluates term to a value.  The startup cost is charged first.  ctx is
// checked periodically and cancellation aborts evaluation with ErrAborted.
func (m *Machine) Run(ctx context.Context, term Term) (Value, error) {
	if err := m.spend(m.costs.Startup); err != nil {
		return nil, err
	}

	tracing := log.Level() <= btclog.LevelTrace
	s := computing(term, nil)
	for {
		m.steps++
		if m.stepLimit != 0 && m.steps > m.stepLimit {
			str := fmt.Sprintf("step limit of %d reached", m.stepLimit)
			return nil, scriptError(ErrStepLimit, str)
		}
		if m.steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				str := fmt.Sprintf("evaluation aborted after %d steps: "+
					"%v", m.steps, err)
				return nil, scriptError(ErrAborted, str)
			}
		}

		var err error
		if s.term != nil {
			if tracing {
				t := s.term
				log.Tracef("%v", newLogClosure(func() string {
					return fmt.Sprintf("compute %v (remaining %v)",
						Pretty(t), m.budget.Remaining())
				}))
			}
			s, err = m.compute(s.term, s.env)
		} else {
			if len(m.frames) == 0 {
				return s.value, nil
			}
			s, err = m.returnValue(s.value)
		}
		if err != nil {
			return nil, err
		}
	}
}

// push pushes a frame onto the machine stack.
func (m *Machine) push(f frame) {
	m.frames = append(m.frames, f)
}

// pop removes and returns the topmost frame.
func (m *Machine) pop() frame {
	f := m.frames[len(m.frames)-1]
	m.frames[len(m.frames)-1] = nil
	m.frames = m.frames[:len(m.frames)-1]
	return f
}

// compute takes one compute step on t.
func (m *Machine) compute(t Term, e *env) (state, error) {
	switch t := t.(type) {
	case *Var:
		if err := m.spendStep(StepVar); err != nil {
			return state{}, err
		}
		v, ok := e.lookup(t.Index)
		if !ok {
			str := fmt.Sprintf("variable index %d is not bound", t.Index)
			return state{}, scriptError(ErrOpenTermEvaluated, str)
		}
		return returning(v), nil

	case *Constant:
		if err := m.spendStep(StepConst); err != nil {
			return state{}, err
		}
		return returning(&ConstValue{Const: t.Value}), nil

	case *Lambda:
		if err := m.spendStep(StepLambda); err != nil {
			return state{}, err
		}
		return returning(&LambdaValue{body: t.Body, env: e}), nil

	case *Delay:
		if err := m.spendStep(StepDelay); err != nil {
			return state{}, err
		}
		return returning(&DelayValue{body: t.Body, env: e}), nil

	case *Builtin:
		if err := m.spendStep(StepBuiltin); err != nil {
			return state{}, err
		}
		if !m.costs.Language.Supports(t.Fn) {
			str := fmt.Sprintf("builtin %v is not available in %v",
				t.Fn, m.costs.Language)
			return state{}, scriptError(ErrInvalidTerm, str)
		}
		return returning(newBuiltinValue(t.Fn)), nil

	case *Apply:
		if err := m.spendStep(StepApply); err != nil {
			return state{}, err
		}
		m.push(frameAwaitFunTerm{env: e, arg: t.Argument})
		return computing(t.Function, e), nil

	case *Force:
		if err := m.spendStep(StepForce); err != nil {
			return state{}, err
		}
		m.push(frameForce{})
		return computing(t.Body, e), nil

	case *Constr:
		if err := m.spendStep(StepConstr); err != nil {
			return state{}, err
		}
		if len(t.Fields) == 0 {
			return returning(&ConstrValue{Tag: t.Tag}), nil
		}
		m.push(frameConstr{env: e, tag: t.Tag, pending: t.Fields[1:]})
		return computing(t.Fields[0], e), nil

	case *Case:
		if err := m.spendStep(StepCase); err != nil {
			return state{}, err
		}
		m.push(frameCases{env: e, branches: t.Branches})
		return computing(t.Scrutinee, e), nil

	case *ErrorTerm:
		return state{}, scriptError(ErrScriptError,
			"script evaluated the error term")
	}

	str := fmt.Sprintf("unknown term type %T", t)
	return state{}, scriptError(ErrInvalidTerm, str)
}

// returnValue passes v to the topmost frame.
func (m *Machine) returnValue(v Value) (state, error) {
	switch f := m.pop().(type) {
	case frameAwaitFunTerm:
		m.push(frameAwaitArg{fn: v})
		return computing(f.arg, f.env), nil

	case frameAwaitArg:
		return m.apply(f.fn, v)

	case frameAwaitFunValue:
		return m.apply(v, f.arg)

	case frameForce:
		return m.force(v)

	case frameConstr:
		done := make([]Value, len(f.done), len(f.done)+1)
		copy(done, f.done)
		done = append(done, v)
		if len(f.pending) == 0 {
			return returning(&ConstrValue{Tag: f.tag, Fields: done}), nil
		}
		m.push(frameConstr{env: f.env, tag: f.tag,
			pending: f.pending[1:], done: done})
		return computing(f.pending[0], f.env), nil

	case frameCases:
		c, ok := v.(*ConstrValue)
		if !ok {
			return state{}, scriptError(ErrTypeMismatch,
				"case scrutinee is "+describeValue(v))
		}
		if c.Tag >= uint64(len(f.branches)) {
			str := fmt.Sprintf("case has %d branches, scrutinee tag "+
				"is %d", len(f.branches), c.Tag)
			return state{}, scriptError(ErrTypeMismatch, str)
		}
		for i := len(c.Fields) - 1; i >= 0; i-- {
			m.push(frameAwaitFunValue{arg: c.Fields[i]})
		}
		return computing(f.branches[c.Tag], f.env), nil
	}

	return state{}, scriptError(ErrInvalidTerm, "corrupt machine stack")
}

// apply applies fn to arg.
func (m *Machine) apply(fn, arg Value) (state, error) {
	switch fn := fn.(type) {
	case *LambdaValue:
		return computing(fn.body, fn.env.extend(arg)), nil

	case *BuiltinValue:
		if fn.forces > 0 {
			str := fmt.Sprintf("builtin %v applied before being forced",
				fn.Fn)
			return state{}, scriptError(ErrTypeMismatch, str)
		}
		if len(fn.args) >= builtinTable[fn.Fn].arity {
			str := fmt.Sprintf("builtin %v applied to too many "+
				"arguments", fn.Fn)
			return state{}, scriptError(ErrTypeMismatch, str)
		}
		return m.maybeCall(fn.withArg(arg))
	}

	return state{}, scriptError(ErrTypeMismatch,
		"cannot apply "+describeValue(fn))
}

// force runs a delayed computation or instantiates a builtin.
func (m *Machine) force(v Value) (state, error) {
	switch v := v.(type) {
	case *DelayValue:
		return computing(v.body, v.env), nil

	case *BuiltinValue:
		if v.forces == 0 {
			str := fmt.Sprintf("builtin %v forced too many times", v.Fn)
			return state{}, scriptError(ErrTypeMismatch, str)
		}
		forced := &BuiltinValue{Fn: v.Fn, forces: v.forces - 1,
			args: v.args}
		return m.maybeCall(forced)
	}

	return state{}, scriptError(ErrTypeMismatch,
		"cannot force "+describeValue(v))
}

// maybeCall runs b when it is saturated and otherwise returns it as a value.
func (m *Machine) maybeCall(b *BuiltinValue) (state, error) {
	if !b.saturated() {
		return returning(b), nil
	}

	cost := m.costs.BuiltinCost(b.Fn, argSizes(b.Fn, b.args)...)
	if err := m.spend(cost); err != nil {
		return state{}, err
	}
	v, err := builtinTable[b.Fn].eval(m, b.args)
	if err != nil {
		return state{}, err
	}
	return returning(v), nil
}

// EvalResult is the outcome of Eval.
type EvalResult struct {
	// Term is the discharged result on success.
	Term Term

	// Value is the result value on success.
	Value Value

	// Err is the evaluation error, if any.
	Err error

	// Remaining and Consumed describe the budget after evaluation.  They
	// are set on failure too.
	Remaining ExBudget
	Consumed  ExBudget

	// Logs holds the trace messages emitted before evaluation stopped.
	Logs []string

	// BudgetLog holds the remaining budget after each debit when
	// MachineRecordBudget was set.
	BudgetLog []ExBudget
}

// Eval evaluates term under costs and budget and discharges the resulting
// value back into a term.  Evaluation errors are reported in the result
// together with the budget and logs accumulated up to the failure.
func Eval(ctx context.Context, term Term, budget ExBudget, costs *CostModel,
	flags MachineFlags) *EvalResult {

	m := NewMachine(costs, budget, flags)
	v, err := m.Run(ctx, term)
	res := &EvalResult{
		Value:     v,
		Err:       err,
		Remaining: m.Remaining(),
		Consumed:  m.Consumed(),
		Logs:      m.Logs(),
		BudgetLog: m.BudgetLog(),
	}
	if err == nil {
		res.Term = Discharge(v)
	}
	return res
}
