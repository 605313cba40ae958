// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"sort"
)

// MultiAsset maps a minting policy and an asset name to a quantity.  Asset
// names are raw bytes held in a string.  Quantities are negative only in
// the mint field of a transaction, where they denote burns.
type MultiAsset map[PolicyID]map[string]int64

// Policies returns the policies of m in ascending byte order.  This is the
// order mint redeemers index into.
func (m MultiAsset) Policies() []PolicyID {
	policies := make([]PolicyID, 0, len(m))
	for p := range m {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool {
		return bytes.Compare(policies[i][:], policies[j][:]) < 0
	})
	return policies
}

// AssetNames returns the asset names minted under policy in ascending byte
// order.
func (m MultiAsset) AssetNames(policy PolicyID) []string {
	assets := m[policy]
	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value is an amount of lovelace plus native assets.
type Value struct {
	Coin   uint64
	Assets MultiAsset
}

// Lovelace returns a value holding only coin.
func Lovelace(coin uint64) Value {
	return Value{Coin: coin}
}
