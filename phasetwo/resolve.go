// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"fmt"

	"github.com/btcsuite/uplcd/ledger"
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
)

// purpose is the item a redeemer points at.  Only the field selected by the
// redeemer tag is set.
type purpose struct {
	tag       ledger.RedeemerTag
	input     ledger.OutputReference
	policy    ledger.PolicyID
	cert      *ledger.Certificate
	certIndex int
	account   ledger.RewardAccount
}

// evalItem holds everything needed to evaluate one redeemer.
type evalItem struct {
	// position is the index of the redeemer in the witness set.
	position int

	redeemer *ledger.Redeemer
	purpose  purpose
	hash     ledger.ScriptHash
	script   *ledger.Script

	// datum is the datum of the spent output, if it has one.
	datum plutusdata.PlutusData
}

// txView is a transaction together with the UTXOs it spends and references,
// indexed for resolution and context building.
type txView struct {
	tx      *ledger.Transaction
	utxos   map[ledger.OutputReference]*ledger.Output
	scripts map[ledger.ScriptHash]*ledger.Script
	datums  map[ledger.DatumHash]plutusdata.PlutusData
}

// newTxView indexes the witness scripts, the reference scripts of every
// spent and referenced output, and the witness datums of tx.
func newTxView(tx *ledger.Transaction, utxos []ledger.ResolvedInput) (*txView, error) {
	v := &txView{
		tx:      tx,
		utxos:   make(map[ledger.OutputReference]*ledger.Output, len(utxos)),
		scripts: make(map[ledger.ScriptHash]*ledger.Script),
		datums:  make(map[ledger.DatumHash]plutusdata.PlutusData),
	}
	for i := range utxos {
		v.utxos[utxos[i].Input] = &utxos[i].Output
	}

	for i := range tx.Witnesses.Scripts {
		s := &tx.Witnesses.Scripts[i]
		v.scripts[s.Hash()] = s
	}

	refs := make([]ledger.OutputReference, 0, len(tx.Inputs)+
		len(tx.ReferenceInputs))
	refs = append(refs, tx.Inputs...)
	refs = append(refs, tx.ReferenceInputs...)
	for _, ref := range refs {
		out, ok := v.utxos[ref]
		if !ok {
			str := fmt.Sprintf("input %v is not in the UTXO set", ref)
			return nil, validationError(ErrScriptResolution, str)
		}
		if out.ScriptRef != nil {
			v.scripts[out.ScriptRef.Hash()] = out.ScriptRef
		}
	}

	for _, d := range tx.Witnesses.Datums {
		v.datums[plutusdata.Hash(d)] = d
	}
	return v, nil
}

// output returns the resolved output for ref.  It must only be called for
// references of the transaction.
func (v *txView) output(ref ledger.OutputReference) *ledger.Output {
	return v.utxos[ref]
}

// resolvePurpose finds the item r points at and the hash of the script that
// guards it.
func (v *txView) resolvePurpose(r *ledger.Redeemer) (purpose, ledger.ScriptHash, error) {
	p := purpose{tag: r.Tag}
	idx := int(r.Index)
	outOfRange := func(n int) error {
		str := fmt.Sprintf("redeemer %v/%d points past the %d items it "+
			"can index", r.Tag, r.Index, n)
		return validationError(ErrScriptResolution, str)
	}

	switch r.Tag {
	case ledger.RedeemerSpend:
		inputs := v.tx.SortedInputs()
		if idx >= len(inputs) {
			return p, ledger.ScriptHash{}, outOfRange(len(inputs))
		}
		p.input = inputs[idx]
		cred := v.output(p.input).Address.Payment
		if !cred.IsScript() {
			str := fmt.Sprintf("redeemer %v/%d points at key locked "+
				"input %v", r.Tag, r.Index, p.input)
			return p, ledger.ScriptHash{}, validationError(
				ErrScriptResolution, str)
		}
		return p, cred.Hash, nil

	case ledger.RedeemerMint:
		policies := v.tx.Mint.Policies()
		if idx >= len(policies) {
			return p, ledger.ScriptHash{}, outOfRange(len(policies))
		}
		p.policy = policies[idx]
		return p, p.policy, nil

	case ledger.RedeemerCert:
		if idx >= len(v.tx.Certificates) {
			return p, ledger.ScriptHash{}, outOfRange(
				len(v.tx.Certificates))
		}
		p.cert = &v.tx.Certificates[idx]
		p.certIndex = idx
		hash, ok := p.cert.ScriptHash()
		if !ok {
			str := fmt.Sprintf("redeemer %v/%d points at %v "+
				"certificate that runs no script", r.Tag, r.Index,
				p.cert.Kind)
			return p, ledger.ScriptHash{}, validationError(
				ErrScriptResolution, str)
		}
		return p, hash, nil

	case ledger.RedeemerReward:
		withdrawals := v.tx.SortedWithdrawals()
		if idx >= len(withdrawals) {
			return p, ledger.ScriptHash{}, outOfRange(len(withdrawals))
		}
		p.account = withdrawals[idx].Account
		if !p.account.Credential.IsScript() {
			str := fmt.Sprintf("redeemer %v/%d points at key locked "+
				"reward account", r.Tag, r.Index)
			return p, ledger.ScriptHash{}, validationError(
				ErrScriptResolution, str)
		}
		return p, p.account.Credential.Hash, nil
	}

	str := fmt.Sprintf("unknown redeemer tag %v", r.Tag)
	return p, ledger.ScriptHash{}, validationError(ErrScriptResolution, str)
}

// outputDatum returns the datum of out, looking datum hashes up among the
// witness datums.  It reports false when out has a datum hash whose datum was
// not supplied.
func (v *txView) outputDatum(out *ledger.Output) (plutusdata.PlutusData, bool) {
	switch {
	case out.InlineDatum != nil:
		return out.InlineDatum, true
	case out.DatumHash != nil:
		datum, ok := v.datums[*out.DatumHash]
		return datum, ok
	}
	return nil, true
}

// usesV2Features reports whether the transaction uses a feature PlutusV1
// scripts can not observe: reference inputs, inline datums or reference
// scripts on any spent input or output.
func (v *txView) usesV2Features() bool {
	if len(v.tx.ReferenceInputs) > 0 {
		return true
	}
	for _, ref := range v.tx.Inputs {
		out := v.output(ref)
		if out.InlineDatum != nil || out.ScriptRef != nil {
			return true
		}
	}
	for i := range v.tx.Outputs {
		out := &v.tx.Outputs[i]
		if out.InlineDatum != nil || out.ScriptRef != nil {
			return true
		}
	}
	return false
}

// resolve matches every redeemer of the transaction with its purpose,
// script and datum, and checks that every script locked input has a
// redeemer.  The items are returned in witness set order.
func (v *txView) resolve() ([]*evalItem, error) {
	redeemers := v.tx.Witnesses.Redeemers
	items := make([]*evalItem, 0, len(redeemers))

	type pointer struct {
		tag   ledger.RedeemerTag
		index uint32
	}
	seen := make(map[pointer]struct{}, len(redeemers))
	spent := make(map[ledger.OutputReference]struct{})
	v2Features := v.usesV2Features()

	for i := range redeemers {
		r := &redeemers[i]
		ptr := pointer{r.Tag, r.Index}
		if _, ok := seen[ptr]; ok {
			str := fmt.Sprintf("duplicate redeemer %v/%d", r.Tag,
				r.Index)
			return nil, validationError(ErrScriptResolution, str)
		}
		seen[ptr] = struct{}{}

		p, hash, err := v.resolvePurpose(r)
		if err != nil {
			return nil, err
		}
		script, ok := v.scripts[hash]
		if !ok {
			str := fmt.Sprintf("script %v required by redeemer %v/%d "+
				"is not in the witness set or a reference input",
				hash, r.Tag, r.Index)
			return nil, validationError(ErrScriptResolution, str)
		}

		switch script.Language {
		case uplc.LanguageV1:
			if v2Features {
				str := fmt.Sprintf("script %v is %v but the "+
					"transaction uses reference inputs, inline "+
					"datums or reference scripts", hash,
					script.Language)
				return nil, validationError(ErrScriptResolution, str)
			}
		case uplc.LanguageV2, uplc.LanguageV3:
		default:
			str := fmt.Sprintf("script %v has unsupported language %v",
				hash, script.Language)
			return nil, validationError(ErrUnsupportedLanguage, str)
		}

		item := &evalItem{
			position: i,
			redeemer: r,
			purpose:  p,
			hash:     hash,
			script:   script,
		}
		if r.Tag == ledger.RedeemerSpend {
			spent[p.input] = struct{}{}
			datum, found := v.outputDatum(v.output(p.input))
			if !found || (datum == nil &&
				script.Language != uplc.LanguageV3) {

				str := fmt.Sprintf("missing datum for input %v "+
					"locked by script %v", p.input, hash)
				return nil, validationError(ErrScriptResolution, str)
			}
			item.datum = datum
		}
		items = append(items, item)
	}

	for _, ref := range v.tx.Inputs {
		if !v.output(ref).Address.Payment.IsScript() {
			continue
		}
		if _, ok := spent[ref]; !ok {
			str := fmt.Sprintf("script locked input %v has no "+
				"redeemer", ref)
			return nil, validationError(ErrScriptResolution, str)
		}
	}

	return items, nil
}
