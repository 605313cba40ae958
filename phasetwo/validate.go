// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"context"

	"github.com/btcsuite/uplcd/uplc"
)

// validateResult is the result of one redeemer together with its position
// in the witness set.
type validateResult struct {
	position int
	result   RedeemerResult
}

// redeemerValidator provides a type which asynchronously evaluates the
// scripts of a transaction's redeemers.  It provides several channels for
// communication and a processing function that is intended to be run in
// multiple goroutines.
type redeemerValidator struct {
	validateChan chan *prepared
	quitChan     chan struct{}
	resultChan   chan validateResult
	ctx          context.Context
	flags        uplc.MachineFlags
	strict       bool
}

// sendResult sends the result of a script evaluation on the internal result
// channel while respecting the quit channel.  This allows orderly shutdown
// when the validation process stops early in strict mode.
func (v *redeemerValidator) sendResult(result validateResult) {
	select {
	case v.resultChan <- result:
	case <-v.quitChan:
	}
}

// validateHandler consumes items to evaluate from the internal validate
// channel and returns the result of the evaluation on the internal result
// channel.  It must be run as a goroutine.
func (v *redeemerValidator) validateHandler() {
out:
	for {
		select {
		case p := <-v.validateChan:
			v.sendResult(validateResult{
				position: p.item.position,
				result:   evaluate(v.ctx, p, v.flags),
			})

		case <-v.quitChan:
			break out
		}
	}
}

// Validate evaluates every prepared script using up to workers goroutines
// and returns the results in witness set order.  In strict mode no script
// past the first failure is started and the results end at the lowest
// failing position.
func (v *redeemerValidator) Validate(preps []*prepared, workers int) []RedeemerResult {
	results := make([]RedeemerResult, len(preps))
	if len(preps) == 0 {
		return results
	}

	// Start up validation handlers that are used to asynchronously
	// evaluate each redeemer.
	for i := 0; i < workers; i++ {
		go v.validateHandler()
	}

	// Items at or past stop are never sent.  A failure in strict mode
	// lowers stop to just past the failing position.  Since items are
	// sent in order, every item below a failure has already been sent and
	// its result will arrive.
	stop := len(preps)
	currentItem := 0
	processedItems := 0
	for currentItem < stop || processedItems < currentItem {
		// Only send items while there are still items that need to
		// be processed.  The select statement will never select a nil
		// channel.
		var validateChan chan *prepared
		var item *prepared
		if currentItem < stop {
			validateChan = v.validateChan
			item = preps[currentItem]
		}

		select {
		case validateChan <- item:
			currentItem++

		case res := <-v.resultChan:
			processedItems++
			results[res.position] = res.result
			if v.strict && !res.result.Success &&
				res.position+1 < stop {

				stop = res.position + 1
			}
		}
	}

	close(v.quitChan)
	return results[:stop]
}

// newRedeemerValidator returns a new instance of redeemerValidator to be
// used for evaluating scripts asynchronously.
func newRedeemerValidator(ctx context.Context, flags uplc.MachineFlags,
	strict bool) *redeemerValidator {

	return &redeemerValidator{
		validateChan: make(chan *prepared),
		quitChan:     make(chan struct{}),
		resultChan:   make(chan validateResult),
		ctx:          ctx,
		flags:        flags,
		strict:       strict,
	}
}
