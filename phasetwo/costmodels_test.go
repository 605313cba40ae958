// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"context"
	"testing"

	"github.com/btcsuite/uplcd/ledger"
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

// TestCostModelsRoundTrip ensures an encoded cost model table decodes to the
// same parameters.
func TestCostModelsRoundTrip(t *testing.T) {
	t.Parallel()

	models := CostModels{
		uplc.LanguageV1: uplc.DefaultCostModelFor(uplc.LanguageV1),
		uplc.LanguageV2: uplc.DefaultCostModelFor(uplc.LanguageV2),
		uplc.LanguageV3: uplc.DefaultCostModelFor(uplc.LanguageV3),
	}
	b, err := EncodeCostModels(models)
	require.NoError(t, err)

	// Deterministic encoding.
	again, err := EncodeCostModels(models)
	require.NoError(t, err)
	require.Equal(t, b, again)

	decoded, err := DecodeCostModels(b)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for lang, cm := range models {
		require.Equal(t, lang, decoded[lang].Language)
		require.Equal(t, cm.Params(), decoded[lang].Params(),
			lang.String())
	}
}

// TestDecodeCostModelsErrors ensures malformed tables are rejected and
// unknown languages are skipped.
func TestDecodeCostModelsErrors(t *testing.T) {
	t.Parallel()

	unknown, err := cbor.Marshal(map[uint64][]int64{7: {1, 2, 3}})
	require.NoError(t, err)
	models, err := DecodeCostModels(unknown)
	require.NoError(t, err)
	require.Empty(t, models)

	tests := []struct {
		name  string
		input []byte
	}{
		{"not a map", []byte{0x01}},
		{"truncated", []byte{0xa1, 0x00}},
		{"short parameter list", func() []byte {
			b, err := cbor.Marshal(map[uint64][]int64{0: {1, 2}})
			require.NoError(t, err)
			return b
		}()},
	}
	for _, test := range tests {
		_, err := DecodeCostModels(test.input)
		require.ErrorIs(t, err, ErrDecoding, test.name)
	}

	_, err = EncodeCostModels(CostModels{
		uplc.Language(9): uplc.DefaultCostModel(),
	})
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

// TestCostModelLookup ensures a nil table selects the defaults while a
// supplied table must cover the language.
func TestCostModelLookup(t *testing.T) {
	t.Parallel()

	var models CostModels
	cm, err := models.lookup(uplc.LanguageV2)
	require.NoError(t, err)
	require.Equal(t, uplc.LanguageV2, cm.Language)

	models = CostModels{
		uplc.LanguageV3: uplc.DefaultCostModelFor(uplc.LanguageV3),
	}
	_, err = models.lookup(uplc.LanguageV2)
	require.ErrorIs(t, err, ErrMissingCostModel)
}

// TestDecodeMainnetCostModels ensures the main network cost model table
// decodes onto the named steps and builtins and charges scripts the main
// network budget.
func TestDecodeMainnetCostModels(t *testing.T) {
	t.Parallel()

	b, err := cbor.Marshal(map[uint64][]int64{
		0: uplc.MainnetParams(uplc.LanguageV1),
		1: uplc.MainnetParams(uplc.LanguageV2),
		2: uplc.MainnetParams(uplc.LanguageV3),
	})
	require.NoError(t, err)
	models, err := DecodeCostModels(b)
	require.NoError(t, err)
	require.Len(t, models, 3)

	v2 := models[uplc.LanguageV2]
	require.Equal(t, uplc.ExBudget{CPU: 100, Mem: 100}, v2.Startup)
	for _, kind := range []uplc.StepKind{uplc.StepConst, uplc.StepVar,
		uplc.StepLambda, uplc.StepApply, uplc.StepDelay, uplc.StepForce,
		uplc.StepBuiltin} {

		require.Equal(t, uplc.ExBudget{CPU: 23000, Mem: 100},
			v2.StepCost(kind), kind.String())
	}
	v3 := models[uplc.LanguageV3]
	require.Equal(t, uplc.ExBudget{CPU: 100, Mem: 100}, v3.Startup)
	require.Equal(t, uplc.ExBudget{CPU: 16000, Mem: 100},
		v3.StepCost(uplc.StepCase))

	tests := []struct {
		name   string
		script ledger.Script
		want   uplc.ExBudget
	}{{
		// Startup, three applications, three lambdas and four constants.
		name: "always succeeds v2",
		script: newScript(t, uplc.LanguageV2,
			lam(lam(lam(conUnit())))),
		want: uplc.ExBudget{CPU: 230100, Mem: 1100},
	}, {
		// Startup, one application, one lambda and two constants.
		name:   "always succeeds v3",
		script: newScript(t, uplc.LanguageV3, lam(conUnit())),
		want:   uplc.ExBudget{CPU: 64100, Mem: 500},
	}}

	for _, test := range tests {
		f := spendFixture(test.script, plutusdata.NewInteger(1),
			plutusdata.Unit())
		results, err := EvalPhaseTwo(context.Background(), &f.tx, f.utxos,
			models, nil)
		require.NoError(t, err, test.name)
		require.Len(t, results, 1, test.name)
		require.True(t, results[0].Success, test.name)
		require.Equal(t, test.want, results[0].Consumed, test.name)
	}
}
