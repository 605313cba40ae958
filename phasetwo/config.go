// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"fmt"
	"runtime"

	"github.com/btcsuite/uplcd/ledger"
	"github.com/btcsuite/uplcd/uplc"
)

// BudgetPolicy selects the budget each redeemer is evaluated under.
type BudgetPolicy uint8

// These constants define the budget policies.
const (
	// BudgetPerRedeemer evaluates every redeemer under the full
	// configured budget.  It is used to measure what each script costs.
	BudgetPerRedeemer BudgetPolicy = iota

	// BudgetDeclared evaluates every redeemer under the execution units
	// it declares.
	BudgetDeclared

	// BudgetShared draws every redeemer from one pool of the configured
	// budget, in redeemer order.  Redeemers are evaluated sequentially
	// under this policy.
	BudgetShared
)

// String returns the BudgetPolicy as a human-readable name.
func (p BudgetPolicy) String() string {
	switch p {
	case BudgetPerRedeemer:
		return "per-redeemer"
	case BudgetDeclared:
		return "declared"
	case BudgetShared:
		return "shared"
	}
	return fmt.Sprintf("Unknown BudgetPolicy (%d)", uint8(p))
}

// DefaultBudget is the budget used when Config.Budget is nil.  It matches
// the maximum execution units of a transaction on the main network.
var DefaultBudget = uplc.ExBudget{CPU: 10000000000, Mem: 14000000}

// Config holds the options of EvalPhaseTwo.  The zero value is usable.
type Config struct {
	// Budget is the ceiling for evaluation.  Its meaning depends on
	// BudgetPolicy.  Nil selects DefaultBudget.  A zero budget is used as
	// given, so every script fails with uplc.ErrOutOfBudget.
	Budget *uplc.ExBudget

	// SlotConfig converts the validity interval to POSIX time.  The zero
	// value selects ledger.MainnetSlotConfig.
	SlotConfig ledger.SlotConfig

	// Strict stops at the first failing redeemer in redeemer order and
	// returns a ScriptFailureError.  Otherwise every failure is recorded
	// in its RedeemerResult.
	Strict bool

	// BudgetPolicy selects how the budget is handed out.
	BudgetPolicy BudgetPolicy

	// Workers bounds the number of concurrent evaluations.  Zero selects
	// three per CPU.
	Workers int

	// Cache holds decoded programs across calls.  Nil disables caching.
	Cache *ProgramCache

	// RecordBudget keeps the remaining budget after every charge in
	// RedeemerResult.BudgetLog.
	RecordBudget bool
}

// budget returns the configured budget or the default.
func (c *Config) budget() uplc.ExBudget {
	if c.Budget == nil {
		return DefaultBudget
	}
	return *c.Budget
}

// slotConfig returns the configured slot configuration or the main network
// one.
func (c *Config) slotConfig() ledger.SlotConfig {
	if c.SlotConfig == (ledger.SlotConfig{}) {
		return ledger.MainnetSlotConfig
	}
	return c.SlotConfig
}

// workers returns the number of evaluation goroutines to use for n
// redeemers.
func (c *Config) workers(n int) int {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 3
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	return workers
}
