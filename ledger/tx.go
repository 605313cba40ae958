// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/btcsuite/uplcd/plutusdata"
)

// OutputReference identifies a transaction output.
type OutputReference struct {
	TxID  TxID
	Index uint32
}

// String returns the reference in txid#index form.
func (o OutputReference) String() string {
	return fmt.Sprintf("%v#%d", o.TxID, o.Index)
}

// Compare orders references by transaction id bytes and then by output
// index.
func (o OutputReference) Compare(other OutputReference) int {
	if c := bytes.Compare(o.TxID[:], other.TxID[:]); c != 0 {
		return c
	}
	switch {
	case o.Index < other.Index:
		return -1
	case o.Index > other.Index:
		return 1
	}
	return 0
}

// Output is a transaction output.  At most one of DatumHash and InlineDatum
// is set.
type Output struct {
	Address     Address
	Value       Value
	DatumHash   *DatumHash
	InlineDatum plutusdata.PlutusData
	ScriptRef   *Script
}

// ResolvedInput pairs an output reference with the output it names.
type ResolvedInput struct {
	Input  OutputReference
	Output Output
}

// CertKind identifies a certificate type.
type CertKind uint8

// These constants define the certificate kinds visible to scripts.
const (
	CertStakeRegistration CertKind = iota
	CertStakeDeregistration
	CertStakeDelegation
	CertPoolRegistration
	CertPoolRetirement
	CertRegistration
	CertUnregistration
)

var certKindStrings = map[CertKind]string{
	CertStakeRegistration:   "StakeRegistration",
	CertStakeDeregistration: "StakeDeregistration",
	CertStakeDelegation:     "StakeDelegation",
	CertPoolRegistration:    "PoolRegistration",
	CertPoolRetirement:      "PoolRetirement",
	CertRegistration:        "Registration",
	CertUnregistration:      "Unregistration",
}

// String returns the CertKind as a human-readable name.
func (k CertKind) String() string {
	if s, ok := certKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("Unknown CertKind (%d)", uint8(k))
}

// Certificate is a delegation or pool certificate.  Credential is used by
// the stake certificates, Pool by delegation and both pool certificates,
// VRF by pool registration, Epoch by pool retirement and Deposit by the
// registration and unregistration certificates that carry one.
type Certificate struct {
	Kind       CertKind
	Credential Credential
	Pool       KeyHash
	VRF        Hash32
	Epoch      uint64
	Deposit    uint64
}

// ScriptHash returns the hash of the script that must witness c, if any.
// Stake registrations without a deposit and pool certificates never run a
// script.
func (c *Certificate) ScriptHash() (ScriptHash, bool) {
	switch c.Kind {
	case CertStakeDeregistration, CertStakeDelegation, CertRegistration,
		CertUnregistration:

		if c.Credential.IsScript() {
			return c.Credential.Hash, true
		}
	}
	return ScriptHash{}, false
}

// Withdrawal takes rewards from a stake account.
type Withdrawal struct {
	Account RewardAccount
	Amount  uint64
}

// RedeemerTag identifies what a redeemer points at.
type RedeemerTag uint8

// These constants define the redeemer tags.
const (
	RedeemerSpend RedeemerTag = iota
	RedeemerMint
	RedeemerCert
	RedeemerReward
)

// String returns the RedeemerTag as a human-readable name.
func (t RedeemerTag) String() string {
	switch t {
	case RedeemerSpend:
		return "Spend"
	case RedeemerMint:
		return "Mint"
	case RedeemerCert:
		return "Cert"
	case RedeemerReward:
		return "Reward"
	}
	return fmt.Sprintf("Unknown RedeemerTag (%d)", uint8(t))
}

// ExUnits is the execution budget declared by a redeemer.
type ExUnits struct {
	Mem   uint64
	Steps uint64
}

// Redeemer supplies the argument and declared budget for one script
// execution.  Index is into the canonical ordering selected by Tag.
type Redeemer struct {
	Tag     RedeemerTag
	Index   uint32
	Data    plutusdata.PlutusData
	ExUnits ExUnits
}

// WitnessSet holds the scripts, datums and redeemers supplied by a
// transaction.
type WitnessSet struct {
	Scripts   []Script
	Datums    []plutusdata.PlutusData
	Redeemers []Redeemer
}

// Transaction is a decoded transaction.  ValidityStart and TTL are slots;
// nil means unbounded.
type Transaction struct {
	ID              TxID
	Inputs          []OutputReference
	ReferenceInputs []OutputReference
	Outputs         []Output
	Fee             uint64
	ValidityStart   *uint64
	TTL             *uint64
	Certificates    []Certificate
	Withdrawals     []Withdrawal
	Mint            MultiAsset
	RequiredSigners []KeyHash
	Witnesses       WitnessSet
}

// sortedRefs returns a sorted copy of refs.
func sortedRefs(refs []OutputReference) []OutputReference {
	sorted := make([]OutputReference, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return sorted
}

// SortedInputs returns the spent inputs in the order spend redeemers index
// into.
func (tx *Transaction) SortedInputs() []OutputReference {
	return sortedRefs(tx.Inputs)
}

// SortedReferenceInputs returns the reference inputs in ledger order.
func (tx *Transaction) SortedReferenceInputs() []OutputReference {
	return sortedRefs(tx.ReferenceInputs)
}

// SortedWithdrawals returns the withdrawals in the order reward redeemers
// index into.
func (tx *Transaction) SortedWithdrawals() []Withdrawal {
	sorted := make([]Withdrawal, len(tx.Withdrawals))
	copy(sorted, tx.Withdrawals)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Account.Bytes(),
			sorted[j].Account.Bytes()) < 0
	})
	return sorted
}

// SortedSigners returns the required signers in ascending byte order.
func (tx *Transaction) SortedSigners() []KeyHash {
	sorted := make([]KeyHash, len(tx.RequiredSigners))
	copy(sorted, tx.RequiredSigners)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	return sorted
}
