// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"fmt"

	"github.com/btcsuite/uplcd/uplc"
	"github.com/fxamacker/cbor/v2"
)

// encMode encodes cost model tables deterministically.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("phasetwo: invalid encode options: %v", err))
	}
	return em
}()

// CostModels holds one cost model per language.  A nil CostModels selects
// the default cost model of every language.
type CostModels map[uplc.Language]*uplc.CostModel

// lookup returns the cost model for l.
func (c CostModels) lookup(l uplc.Language) (*uplc.CostModel, error) {
	if c == nil {
		return uplc.DefaultCostModelFor(l), nil
	}
	cm, ok := c[l]
	if !ok || cm == nil {
		str := fmt.Sprintf("no cost model for %v", l)
		return nil, validationError(ErrMissingCostModel, str)
	}
	return cm, nil
}

// DecodeCostModels parses the ledger cost model table, a CBOR map from
// language number (0 for PlutusV1) to the list of cost model parameters.
// Entries for unknown languages are skipped.
func DecodeCostModels(b []byte) (CostModels, error) {
	var raw map[uint64][]int64
	if err := cbor.Unmarshal(b, &raw); err != nil {
		str := fmt.Sprintf("malformed cost model table: %v", err)
		return nil, validationError(ErrDecoding, str)
	}

	models := make(CostModels, len(raw))
	for key, params := range raw {
		lang := uplc.Language(key + 1)
		if key > uint64(uplc.LanguageV3-1) {
			log.Debugf("Skipping cost model for unknown language %d",
				key)
			continue
		}
		cm, err := uplc.NewCostModelFromParams(lang, params)
		if err != nil {
			return nil, Error{
				Err: ErrDecoding,
				Description: fmt.Sprintf("cost model for %v: %v",
					lang, err),
			}
		}
		models[lang] = cm
	}
	return models, nil
}

// EncodeCostModels serializes models as a ledger cost model table.
func EncodeCostModels(models CostModels) ([]byte, error) {
	raw := make(map[uint64][]int64, len(models))
	for lang, cm := range models {
		if lang < uplc.LanguageV1 || lang > uplc.LanguageV3 {
			str := fmt.Sprintf("cost model for %v", lang)
			return nil, validationError(ErrUnsupportedLanguage, str)
		}
		raw[uint64(lang)-1] = cm.Params()
	}
	return encMode.Marshal(raw)
}
