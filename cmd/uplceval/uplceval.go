// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/btcsuite/uplcd/flat"
	"github.com/btcsuite/uplcd/internal/log"
	"github.com/btcsuite/uplcd/phasetwo"
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
)

// readOperand returns the bytes of a hex encoded command operand.  An
// operand starting with @ names a file holding the hex.
func readOperand(operand string) ([]byte, error) {
	if strings.HasPrefix(operand, "@") {
		b, err := os.ReadFile(cleanAndExpandPath(operand[1:]))
		if err != nil {
			return nil, err
		}
		operand = string(b)
	}
	return hex.DecodeString(strings.TrimSpace(operand))
}

// decodeProgram decodes a script in its transaction form or a bare flat
// program.
func decodeProgram(b []byte) (*uplc.Program, error) {
	program, err := flat.DecodeScript(b)
	if errors.Is(err, flat.ErrEnvelope) {
		return flat.DecodeProgram(b)
	}
	return program, err
}

// costModel returns the cost model for the configured language, read from
// the cost model file when one is given.
func costModel(cfg *config) (*uplc.CostModel, error) {
	if cfg.CostModels == "" {
		return uplc.DefaultCostModelFor(cfg.language), nil
	}

	b, err := os.ReadFile(cfg.CostModels)
	if err != nil {
		return nil, err
	}
	models, err := phasetwo.DecodeCostModels(b)
	if err != nil {
		return nil, err
	}
	cm, ok := models[cfg.language]
	if !ok {
		return nil, fmt.Errorf("%s holds no cost model for %v",
			cfg.CostModels, cfg.language)
	}
	return cm, nil
}

// evalCmd evaluates a script applied to data arguments and prints the
// result, the consumed budget and the traced messages.
func evalCmd(ctx context.Context, cfg *config, operands []string) error {
	if len(operands) < 1 {
		return fmt.Errorf("eval: missing script")
	}

	b, err := readOperand(operands[0])
	if err != nil {
		return fmt.Errorf("eval: reading script: %v", err)
	}
	program, err := decodeProgram(b)
	if err != nil {
		return fmt.Errorf("eval: %v", err)
	}

	args := make([]uplc.Term, 0, len(operands)-1)
	for i, operand := range operands[1:] {
		b, err := readOperand(operand)
		if err != nil {
			return fmt.Errorf("eval: reading argument %d: %v", i, err)
		}
		d, err := plutusdata.Decode(b)
		if err != nil {
			return fmt.Errorf("eval: argument %d: %v", i, err)
		}
		args = append(args, uplc.NewConstant(uplc.NewData(d)))
	}

	costs, err := costModel(cfg)
	if err != nil {
		return fmt.Errorf("eval: %v", err)
	}

	var flags uplc.MachineFlags
	if cfg.NoTrace {
		flags |= uplc.MachineNoTrace
	}

	log.EvalLog.Debugf("Evaluating %v program with %d %s under %v",
		program.Version, len(args),
		log.PickNoun(uint64(len(args)), "argument", "arguments"),
		cfg.budget())

	res := uplc.Eval(ctx, uplc.ApplyTerms(program.Term, args...),
		cfg.budget(), costs, flags)
	for _, msg := range res.Logs {
		fmt.Printf("trace: %s\n", msg)
	}
	fmt.Printf("cpu: %d\nmem: %d\n", res.Consumed.CPU, res.Consumed.Mem)
	if res.Err != nil {
		return fmt.Errorf("eval: %v", res.Err)
	}
	fmt.Println(uplc.Pretty(res.Term))
	return nil
}

// applyCmd applies a CBOR list of data parameters to a script and prints
// the specialized script.
func applyCmd(ctx context.Context, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("apply: want <params> <script>, got %d "+
			"operands", len(operands))
	}

	params, err := readOperand(operands[0])
	if err != nil {
		return fmt.Errorf("apply: reading parameters: %v", err)
	}
	script, err := readOperand(operands[1])
	if err != nil {
		return fmt.Errorf("apply: reading script: %v", err)
	}

	out, err := phasetwo.ApplyParamsToScript(ctx, params, script)
	if err != nil {
		return fmt.Errorf("apply: %v", err)
	}
	fmt.Println(hex.EncodeToString(out))
	return nil
}

// realMain is the real main function for the utility.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func realMain() error {
	cfg, args, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch args[0] {
	case "eval":
		return evalCmd(ctx, cfg, args[1:])
	case "apply":
		return applyCmd(ctx, args[1:])
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
