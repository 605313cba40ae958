// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"math/big"
	"sort"

	"github.com/btcsuite/uplcd/ledger"
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
)

type (
	data = plutusdata.PlutusData
	pair = plutusdata.Pair
)

func constr(tag uint64, fields ...data) data {
	return plutusdata.NewConstr(tag, fields...)
}

func bytesData(b []byte) data {
	return plutusdata.NewByteString(b)
}

func natData(v uint64) data {
	return plutusdata.NewBigInteger(new(big.Int).SetUint64(v))
}

func intData(v int64) data {
	return plutusdata.NewInteger(v)
}

func maybeData(d data) data {
	if d == nil {
		return plutusdata.Nothing()
	}
	return plutusdata.Just(d)
}

// contextBuilder renders the script contexts of one transaction.  The
// transaction info is shared by every redeemer of the same language and is
// built once per language.
type contextBuilder struct {
	view  *txView
	items []*evalItem
	slots ledger.SlotConfig
	infos map[uplc.Language]data
}

func newContextBuilder(view *txView, items []*evalItem,
	slots ledger.SlotConfig) *contextBuilder {

	return &contextBuilder{
		view:  view,
		items: items,
		slots: slots,
		infos: make(map[uplc.Language]data, 3),
	}
}

// scriptArgs returns the arguments item's script is applied to: datum,
// redeemer and context for PlutusV1 and PlutusV2 spending scripts, redeemer
// and context for their other purposes, and only the context for PlutusV3.
func (b *contextBuilder) scriptArgs(item *evalItem) []data {
	lang := item.script.Language
	info := b.txInfo(lang)

	if lang == uplc.LanguageV3 {
		ctx := constr(0, info, item.redeemer.Data,
			b.scriptInfoData(item))
		return []data{ctx}
	}

	ctx := constr(0, info, b.purposeData(&item.purpose, lang))
	if item.purpose.tag == ledger.RedeemerSpend {
		return []data{item.datum, item.redeemer.Data, ctx}
	}
	return []data{item.redeemer.Data, ctx}
}

// txInfo returns the transaction info for lang, building it on first use.
func (b *contextBuilder) txInfo(lang uplc.Language) data {
	if info, ok := b.infos[lang]; ok {
		return info
	}

	tx := b.view.tx
	var inputs, refInputs, outputs []data
	for _, ref := range tx.SortedInputs() {
		inputs = append(inputs, b.txInInfoData(ref, lang))
	}
	for _, ref := range tx.SortedReferenceInputs() {
		refInputs = append(refInputs, b.txInInfoData(ref, lang))
	}
	for i := range tx.Outputs {
		outputs = append(outputs, txOutData(&tx.Outputs[i], lang))
	}

	var certs []data
	for i := range tx.Certificates {
		if lang == uplc.LanguageV3 {
			certs = append(certs, txCertData(&tx.Certificates[i]))
		} else {
			certs = append(certs, dcertData(&tx.Certificates[i]))
		}
	}

	var signers []data
	for _, h := range tx.SortedSigners() {
		signers = append(signers, bytesData(h[:]))
	}

	validRange := b.validRangeData()

	var info data
	switch lang {
	case uplc.LanguageV1:
		info = constr(0,
			plutusdata.NewList(inputs...),
			plutusdata.NewList(outputs...),
			adaValueData(tx.Fee),
			mintValueData(tx.Mint, true),
			plutusdata.NewList(certs...),
			b.withdrawalsData(lang),
			validRange,
			plutusdata.NewList(signers...),
			b.datumsData(lang),
			constr(0, bytesData(tx.ID[:])),
		)

	case uplc.LanguageV2:
		info = constr(0,
			plutusdata.NewList(inputs...),
			plutusdata.NewList(refInputs...),
			plutusdata.NewList(outputs...),
			adaValueData(tx.Fee),
			mintValueData(tx.Mint, true),
			plutusdata.NewList(certs...),
			b.withdrawalsData(lang),
			validRange,
			plutusdata.NewList(signers...),
			b.redeemersData(lang),
			b.datumsData(lang),
			constr(0, bytesData(tx.ID[:])),
		)

	default:
		info = constr(0,
			plutusdata.NewList(inputs...),
			plutusdata.NewList(refInputs...),
			plutusdata.NewList(outputs...),
			natData(tx.Fee),
			mintValueData(tx.Mint, false),
			plutusdata.NewList(certs...),
			b.withdrawalsData(lang),
			validRange,
			plutusdata.NewList(signers...),
			b.redeemersData(lang),
			b.datumsData(lang),
			bytesData(tx.ID[:]),
			plutusdata.NewMap(),
			plutusdata.NewList(),
			plutusdata.Nothing(),
			plutusdata.Nothing(),
		)
	}

	b.infos[lang] = info
	return info
}

func (b *contextBuilder) txInInfoData(ref ledger.OutputReference,
	lang uplc.Language) data {

	return constr(0, outRefData(ref, lang),
		txOutData(b.view.output(ref), lang))
}

// validRangeData renders the validity interval in POSIX milliseconds.  The
// lower bound is inclusive and a finite upper bound is exclusive.
func (b *contextBuilder) validRangeData() data {
	tx := b.view.tx
	lower := constr(0, constr(0), plutusdata.Bool(true))
	if tx.ValidityStart != nil {
		t := b.slots.SlotToPOSIXTime(*tx.ValidityStart)
		lower = constr(0, constr(1, natData(t)), plutusdata.Bool(true))
	}
	upper := constr(0, constr(2), plutusdata.Bool(true))
	if tx.TTL != nil {
		t := b.slots.SlotToPOSIXTime(*tx.TTL)
		upper = constr(0, constr(1, natData(t)), plutusdata.Bool(false))
	}
	return constr(0, lower, upper)
}

func (b *contextBuilder) withdrawalsData(lang uplc.Language) data {
	withdrawals := b.view.tx.SortedWithdrawals()
	if lang == uplc.LanguageV1 {
		items := make([]data, 0, len(withdrawals))
		for _, w := range withdrawals {
			items = append(items, constr(0,
				stakingCredentialData(w.Account.Credential),
				natData(w.Amount)))
		}
		return plutusdata.NewList(items...)
	}

	pairs := make([]pair, 0, len(withdrawals))
	for _, w := range withdrawals {
		key := credentialData(w.Account.Credential)
		if lang == uplc.LanguageV2 {
			key = stakingCredentialData(w.Account.Credential)
		}
		pairs = append(pairs, pair{Key: key, Value: natData(w.Amount)})
	}
	return plutusdata.NewMap(pairs...)
}

func (b *contextBuilder) datumsData(lang uplc.Language) data {
	datums := b.view.tx.Witnesses.Datums
	if lang == uplc.LanguageV1 {
		items := make([]data, 0, len(datums))
		for _, d := range datums {
			h := plutusdata.Hash(d)
			items = append(items, constr(0, bytesData(h[:]), d))
		}
		return plutusdata.NewList(items...)
	}

	pairs := make([]pair, 0, len(datums))
	for _, d := range datums {
		h := plutusdata.Hash(d)
		pairs = append(pairs, pair{Key: bytesData(h[:]), Value: d})
	}
	return plutusdata.NewMap(pairs...)
}

// redeemersData maps the purpose of every redeemer to its data, ordered by
// tag and then index.
func (b *contextBuilder) redeemersData(lang uplc.Language) data {
	sorted := make([]*evalItem, len(b.items))
	copy(sorted, b.items)
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := sorted[i].redeemer, sorted[j].redeemer
		if ri.Tag != rj.Tag {
			return ri.Tag < rj.Tag
		}
		return ri.Index < rj.Index
	})

	pairs := make([]pair, 0, len(sorted))
	for _, item := range sorted {
		pairs = append(pairs, pair{
			Key:   b.purposeData(&item.purpose, lang),
			Value: item.redeemer.Data,
		})
	}
	return plutusdata.NewMap(pairs...)
}

// purposeData renders the script purpose of p.
func (b *contextBuilder) purposeData(p *purpose, lang uplc.Language) data {
	switch p.tag {
	case ledger.RedeemerMint:
		return constr(0, bytesData(p.policy[:]))
	case ledger.RedeemerSpend:
		return constr(1, outRefData(p.input, lang))
	case ledger.RedeemerReward:
		if lang == uplc.LanguageV3 {
			return constr(2, credentialData(p.account.Credential))
		}
		return constr(2, stakingCredentialData(p.account.Credential))
	default:
		if lang == uplc.LanguageV3 {
			return constr(3, natData(uint64(p.certIndex)),
				txCertData(p.cert))
		}
		return constr(3, dcertData(p.cert))
	}
}

// scriptInfoData renders the PlutusV3 script info of item, which extends
// the purpose of spending scripts with the optional datum.
func (b *contextBuilder) scriptInfoData(item *evalItem) data {
	p := &item.purpose
	if p.tag == ledger.RedeemerSpend {
		return constr(1, outRefData(p.input, uplc.LanguageV3),
			maybeData(item.datum))
	}
	return b.purposeData(p, uplc.LanguageV3)
}

func outRefData(ref ledger.OutputReference, lang uplc.Language) data {
	if lang == uplc.LanguageV3 {
		return constr(0, bytesData(ref.TxID[:]),
			natData(uint64(ref.Index)))
	}
	return constr(0, constr(0, bytesData(ref.TxID[:])),
		natData(uint64(ref.Index)))
}

func txOutData(out *ledger.Output, lang uplc.Language) data {
	addr := addressData(&out.Address)
	value := outputValueData(&out.Value)

	if lang == uplc.LanguageV1 {
		var hash data
		if out.DatumHash != nil {
			hash = bytesData(out.DatumHash[:])
		}
		return constr(0, addr, value, maybeData(hash))
	}

	datum := constr(0)
	switch {
	case out.InlineDatum != nil:
		datum = constr(2, out.InlineDatum)
	case out.DatumHash != nil:
		datum = constr(1, bytesData(out.DatumHash[:]))
	}

	var scriptRef data
	if out.ScriptRef != nil {
		h := out.ScriptRef.Hash()
		scriptRef = bytesData(h[:])
	}
	return constr(0, addr, value, datum, maybeData(scriptRef))
}

func credentialData(c ledger.Credential) data {
	if c.IsScript() {
		return constr(1, bytesData(c.Hash[:]))
	}
	return constr(0, bytesData(c.Hash[:]))
}

func stakingCredentialData(c ledger.Credential) data {
	return constr(0, credentialData(c))
}

func addressData(a *ledger.Address) data {
	var stake data
	switch {
	case a.Stake.Credential != nil:
		stake = stakingCredentialData(*a.Stake.Credential)
	case a.Stake.Pointer != nil:
		ptr := a.Stake.Pointer
		stake = constr(1, natData(ptr.Slot), natData(ptr.TxIndex),
			natData(ptr.CertIndex))
	}
	return constr(0, credentialData(a.Payment), maybeData(stake))
}

// adaEntry is the value map entry for an amount of lovelace.
func adaEntry(amount data) pair {
	return pair{
		Key: bytesData(nil),
		Value: plutusdata.NewMap(pair{
			Key:   bytesData(nil),
			Value: amount,
		}),
	}
}

func adaValueData(coin uint64) data {
	return plutusdata.NewMap(adaEntry(natData(coin)))
}

// assetEntries renders the policies of m in canonical order.
func assetEntries(m ledger.MultiAsset) []pair {
	entries := make([]pair, 0, len(m))
	for _, policy := range m.Policies() {
		names := m.AssetNames(policy)
		assets := make([]pair, 0, len(names))
		for _, name := range names {
			assets = append(assets, pair{
				Key:   bytesData([]byte(name)),
				Value: intData(m[policy][name]),
			})
		}
		entries = append(entries, pair{
			Key:   bytesData(policy[:]),
			Value: plutusdata.NewMap(assets...),
		})
	}
	return entries
}

func outputValueData(v *ledger.Value) data {
	entries := []pair{adaEntry(natData(v.Coin))}
	entries = append(entries, assetEntries(v.Assets)...)
	return plutusdata.NewMap(entries...)
}

// mintValueData renders the minted assets.  PlutusV1 and PlutusV2 scripts
// see a zero lovelace entry ahead of the minted policies.
func mintValueData(m ledger.MultiAsset, zeroAda bool) data {
	var entries []pair
	if zeroAda {
		entries = append(entries, adaEntry(intData(0)))
	}
	entries = append(entries, assetEntries(m)...)
	return plutusdata.NewMap(entries...)
}

// dcertData renders a certificate for PlutusV1 and PlutusV2 scripts.
func dcertData(c *ledger.Certificate) data {
	switch c.Kind {
	case ledger.CertStakeRegistration, ledger.CertRegistration:
		return constr(0, stakingCredentialData(c.Credential))
	case ledger.CertStakeDeregistration, ledger.CertUnregistration:
		return constr(1, stakingCredentialData(c.Credential))
	case ledger.CertStakeDelegation:
		return constr(2, stakingCredentialData(c.Credential),
			bytesData(c.Pool[:]))
	case ledger.CertPoolRegistration:
		return constr(3, bytesData(c.Pool[:]), bytesData(c.VRF[:]))
	default:
		return constr(4, bytesData(c.Pool[:]), natData(c.Epoch))
	}
}

// txCertData renders a certificate for PlutusV3 scripts.
func txCertData(c *ledger.Certificate) data {
	switch c.Kind {
	case ledger.CertStakeRegistration:
		return constr(0, credentialData(c.Credential), maybeData(nil))
	case ledger.CertRegistration:
		return constr(0, credentialData(c.Credential),
			maybeData(natData(c.Deposit)))
	case ledger.CertStakeDeregistration:
		return constr(1, credentialData(c.Credential), maybeData(nil))
	case ledger.CertUnregistration:
		return constr(1, credentialData(c.Credential),
			maybeData(natData(c.Deposit)))
	case ledger.CertStakeDelegation:
		delegatee := constr(0, bytesData(c.Pool[:]))
		return constr(2, credentialData(c.Credential), delegatee)
	case ledger.CertPoolRegistration:
		return constr(7, bytesData(c.Pool[:]), bytesData(c.VRF[:]))
	default:
		return constr(8, bytesData(c.Pool[:]), natData(c.Epoch))
	}
}
