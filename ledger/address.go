// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import "fmt"

// CredentialKind distinguishes key credentials from script credentials.
type CredentialKind uint8

// These constants define the credential kinds.
const (
	KeyCredential CredentialKind = iota
	ScriptCredential
)

// String returns the CredentialKind as a human-readable name.
func (k CredentialKind) String() string {
	switch k {
	case KeyCredential:
		return "key"
	case ScriptCredential:
		return "script"
	}
	return fmt.Sprintf("Unknown CredentialKind (%d)", uint8(k))
}

// Credential is a key hash or a script hash that controls an output or a
// stake account.
type Credential struct {
	Kind CredentialKind
	Hash Hash28
}

// NewKeyCredential returns a credential controlled by a key.
func NewKeyCredential(h KeyHash) Credential {
	return Credential{Kind: KeyCredential, Hash: h}
}

// NewScriptCredential returns a credential controlled by a script.
func NewScriptCredential(h ScriptHash) Credential {
	return Credential{Kind: ScriptCredential, Hash: h}
}

// IsScript reports whether c is controlled by a script.
func (c Credential) IsScript() bool {
	return c.Kind == ScriptCredential
}

// Pointer locates a stake registration certificate on chain.
type Pointer struct {
	Slot      uint64
	TxIndex   uint64
	CertIndex uint64
}

// StakeReference is the delegation part of an address.  At most one of
// Credential and Pointer is set; both nil means the address has no
// delegation part.
type StakeReference struct {
	Credential *Credential
	Pointer    *Pointer
}

// Address is a Shelley era address.
type Address struct {
	Network byte
	Payment Credential
	Stake   StakeReference
}

// RewardAccount is the stake address withdrawals are taken from.
type RewardAccount struct {
	Network    byte
	Credential Credential
}

// Bytes returns the serialized reward account: a header byte holding the
// credential kind and network id followed by the credential hash.
func (r RewardAccount) Bytes() []byte {
	header := 0xe0 | r.Network&0x0f
	if r.Credential.IsScript() {
		header |= 0x10
	}
	b := make([]byte, 0, 1+Hash28Size)
	b = append(b, header)
	return append(b, r.Credential.Hash[:]...)
}
