// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"testing"

	"github.com/btcsuite/uplcd/ledger"
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
	"github.com/stretchr/testify/require"
)

// builderFor resolves the redeemers of f and returns a context builder for
// them.
func builderFor(t *testing.T, f *fixture, slots ledger.SlotConfig) (*contextBuilder, []*evalItem) {
	t.Helper()

	view, err := newTxView(&f.tx, f.utxos)
	require.NoError(t, err)
	items, err := view.resolve()
	require.NoError(t, err)
	return newContextBuilder(view, items, slots), items
}

func requireConstr(t *testing.T, d plutusdata.PlutusData, tag uint64,
	fields int) plutusdata.Constr {

	t.Helper()

	c, ok := d.(plutusdata.Constr)
	require.True(t, ok, "%v is not a constructor", d)
	require.Equal(t, tag, c.Tag, "%v", d)
	require.Len(t, c.Fields, fields, "%v", d)
	return c
}

// TestTxInfoShape ensures the transaction info has the layout of each
// language.
func TestTxInfoShape(t *testing.T) {
	t.Parallel()

	script := newScript(t, uplc.LanguageV2, lam(lam(lam(conUnit()))))
	f := spendFixture(script, plutusdata.NewInteger(1), plutusdata.Unit())
	b, _ := builderFor(t, f, ledger.MainnetSlotConfig)

	tests := []struct {
		lang   uplc.Language
		fields int
	}{
		{uplc.LanguageV1, 10},
		{uplc.LanguageV2, 12},
		{uplc.LanguageV3, 16},
	}
	for _, test := range tests {
		info := requireConstr(t, b.txInfo(test.lang), 0, test.fields)

		inputs, ok := info.Fields[0].(plutusdata.List)
		require.True(t, ok, test.lang.String())
		require.Len(t, inputs.Items, 2, test.lang.String())
	}

	// The info is built once per language.
	require.Len(t, b.infos, 3)
}

// TestScriptArgs ensures every purpose receives the arguments of its
// language.
func TestScriptArgs(t *testing.T) {
	t.Parallel()

	datum := plutusdata.NewInteger(7)
	redeemer := plutusdata.NewInteger(8)
	tests := []struct {
		name string
		lang uplc.Language
		args int
	}{
		{"v1", uplc.LanguageV1, 3},
		{"v2", uplc.LanguageV2, 3},
		{"v3", uplc.LanguageV3, 1},
	}
	for _, test := range tests {
		script := newScript(t, test.lang, lam(conUnit()))
		f := spendFixture(script, datum, redeemer)
		b, items := builderFor(t, f, ledger.MainnetSlotConfig)
		require.Len(t, items, 1, test.name)

		args := b.scriptArgs(items[0])
		require.Len(t, args, test.args, test.name)
		if test.lang != uplc.LanguageV3 {
			require.True(t, plutusdata.Equal(datum, args[0]), test.name)
			require.True(t, plutusdata.Equal(redeemer, args[1]),
				test.name)
			ctx := requireConstr(t, args[2], 0, 2)

			// Spending purpose of the script input.
			purpose := requireConstr(t, ctx.Fields[1], 1, 1)
			requireConstr(t, purpose.Fields[0], 0, 2)
			continue
		}

		ctx := requireConstr(t, args[0], 0, 3)
		require.True(t, plutusdata.Equal(redeemer, ctx.Fields[1]),
			test.name)

		// Spending script info carries the optional datum.
		info := requireConstr(t, ctx.Fields[2], 1, 2)
		require.True(t, plutusdata.Equal(plutusdata.Just(datum),
			info.Fields[1]), test.name)
	}

	// Minting scripts of older languages receive no datum.
	f := mintFixture(mintingScripts(t, 1)...)
	b, items := builderFor(t, f, ledger.MainnetSlotConfig)
	args := b.scriptArgs(items[0])
	require.Len(t, args, 2)
	ctx := requireConstr(t, args[1], 0, 2)
	requireConstr(t, ctx.Fields[1], 0, 1)
}

// TestValidRange ensures the validity interval is converted to POSIX time
// with an inclusive lower bound and an exclusive upper bound.
func TestValidRange(t *testing.T) {
	t.Parallel()

	start, ttl := uint64(10), uint64(20)
	script := newScript(t, uplc.LanguageV2, lam(lam(lam(conUnit()))))
	f := spendFixture(script, plutusdata.NewInteger(1), plutusdata.Unit())

	slots := ledger.PreviewSlotConfig
	finite := func(ms uint64) plutusdata.PlutusData {
		return plutusdata.NewConstr(1, plutusdata.NewInteger(int64(ms)))
	}
	tests := []struct {
		name      string
		start     *uint64
		ttl       *uint64
		wantLower plutusdata.PlutusData
		wantUpper plutusdata.PlutusData
	}{{
		name: "unbounded",
		wantLower: plutusdata.NewConstr(0, plutusdata.NewConstr(0),
			plutusdata.Bool(true)),
		wantUpper: plutusdata.NewConstr(0, plutusdata.NewConstr(2),
			plutusdata.Bool(true)),
	}, {
		name:  "bounded",
		start: &start,
		ttl:   &ttl,
		wantLower: plutusdata.NewConstr(0,
			finite(slots.ZeroTime+10*1000), plutusdata.Bool(true)),
		wantUpper: plutusdata.NewConstr(0,
			finite(slots.ZeroTime+20*1000), plutusdata.Bool(false)),
	}}

	for _, test := range tests {
		f.tx.ValidityStart = test.start
		f.tx.TTL = test.ttl
		b, _ := builderFor(t, f, slots)
		got := b.validRangeData()
		want := plutusdata.NewConstr(0, test.wantLower, test.wantUpper)
		require.True(t, plutusdata.Equal(want, got), "%s: got %v",
			test.name, got)
	}
}

// TestRedeemersData ensures the redeemer map is sorted by purpose.
func TestRedeemersData(t *testing.T) {
	t.Parallel()

	f := mintFixture(mintingScripts(t, 3)...)

	// Reverse the witness order.
	r := f.tx.Witnesses.Redeemers
	r[0], r[2] = r[2], r[0]

	b, _ := builderFor(t, f, ledger.MainnetSlotConfig)
	m, ok := b.redeemersData(uplc.LanguageV2).(plutusdata.Map)
	require.True(t, ok)
	require.Len(t, m.Pairs, 3)

	policies := f.tx.Mint.Policies()
	for i, p := range m.Pairs {
		purpose := requireConstr(t, p.Key, 0, 1)
		want := plutusdata.NewByteString(policies[i][:])
		require.True(t, plutusdata.Equal(want, purpose.Fields[0]),
			"entry %d: %v", i, purpose)
	}
}
