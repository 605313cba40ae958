// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func hash28(b byte) Hash28 {
	var h Hash28
	h[0] = b
	return h
}

func hash32(b byte) Hash32 {
	var h Hash32
	h[0] = b
	return h
}

// TestScriptHash ensures script hashes cover the language prefix.
func TestScriptHash(t *testing.T) {
	t.Parallel()

	body := []byte{0x46, 0x01, 0x00, 0x00, 0x20, 0x01, 0x01}
	v1 := Script{Language: uplc.LanguageV1, Bytes: body}
	v2 := Script{Language: uplc.LanguageV2, Bytes: body}
	require.NotEqual(t, v1.Hash(), v2.Hash())

	h, err := blake2b.New(Hash28Size, nil)
	require.NoError(t, err)
	h.Write(append([]byte{0x02}, body...))
	require.Equal(t, hex.EncodeToString(h.Sum(nil)), v2.Hash().String())

	parsed, err := NewHash28FromStr(v2.Hash().String())
	require.NoError(t, err)
	require.Equal(t, v2.Hash(), parsed)

	_, err = NewHash28FromStr("abcd")
	require.Error(t, err)
}

// TestSlotToPOSIXTime ensures slots convert with the network parameters.
func TestSlotToPOSIXTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  SlotConfig
		slot uint64
		want uint64
	}{
		{"mainnet zero slot", MainnetSlotConfig, 4492800, 1596059091000},
		{"mainnet later", MainnetSlotConfig, 4492810, 1596059101000},
		{"preview", PreviewSlotConfig, 10, 1666656010000},
		{"before zero slot", PreprodSlotConfig, 0, 1655769600000},
		{"custom length", SlotConfig{ZeroTime: 5, ZeroSlot: 2,
			SlotLength: 20}, 4, 45},
	}

	for _, test := range tests {
		require.Equal(t, test.want, test.cfg.SlotToPOSIXTime(test.slot),
			test.name)
	}
}

// TestCanonicalOrdering ensures the orderings redeemer pointers index into.
func TestCanonicalOrdering(t *testing.T) {
	t.Parallel()

	tx := &Transaction{
		Inputs: []OutputReference{
			{TxID: hash32(2), Index: 0},
			{TxID: hash32(1), Index: 5},
			{TxID: hash32(1), Index: 1},
		},
		Withdrawals: []Withdrawal{
			{Account: RewardAccount{Credential: NewScriptCredential(hash28(1))}},
			{Account: RewardAccount{Credential: NewKeyCredential(hash28(9))}},
			{Account: RewardAccount{Credential: NewKeyCredential(hash28(3))}},
		},
		Mint: MultiAsset{
			hash28(7): {"b": 1, "a": -1},
			hash28(4): {"": 1},
		},
		RequiredSigners: []KeyHash{hash28(8), hash28(2)},
	}

	require.Equal(t, []OutputReference{
		{TxID: hash32(1), Index: 1},
		{TxID: hash32(1), Index: 5},
		{TxID: hash32(2), Index: 0},
	}, tx.SortedInputs())

	// Key accounts sort ahead of script accounts.
	wdrl := tx.SortedWithdrawals()
	require.Equal(t, hash28(3), wdrl[0].Account.Credential.Hash)
	require.Equal(t, hash28(9), wdrl[1].Account.Credential.Hash)
	require.Equal(t, hash28(1), wdrl[2].Account.Credential.Hash)

	require.Equal(t, []PolicyID{hash28(4), hash28(7)}, tx.Mint.Policies())
	require.Equal(t, []string{"a", "b"}, tx.Mint.AssetNames(hash28(7)))
	require.Equal(t, []KeyHash{hash28(2), hash28(8)}, tx.SortedSigners())

	// The transaction itself is untouched.
	require.Equal(t, hash32(2), tx.Inputs[0].TxID)
}

// TestRewardAccountBytes ensures the header byte carries the credential
// kind and network.
func TestRewardAccountBytes(t *testing.T) {
	t.Parallel()

	key := RewardAccount{Network: 1, Credential: NewKeyCredential(hash28(0xaa))}
	require.Equal(t, byte(0xe1), key.Bytes()[0])
	require.Len(t, key.Bytes(), 29)

	script := RewardAccount{Credential: NewScriptCredential(hash28(0xaa))}
	require.Equal(t, byte(0xf0), script.Bytes()[0])
}

// TestCertificateScriptHash ensures only witnessed stake certificates
// require a script.
func TestCertificateScriptHash(t *testing.T) {
	t.Parallel()

	scriptCred := NewScriptCredential(hash28(5))
	tests := []struct {
		cert Certificate
		want bool
	}{
		{Certificate{Kind: CertStakeRegistration, Credential: scriptCred}, false},
		{Certificate{Kind: CertStakeDeregistration, Credential: scriptCred}, true},
		{Certificate{Kind: CertStakeDelegation, Credential: scriptCred}, true},
		{Certificate{Kind: CertRegistration, Credential: scriptCred}, true},
		{Certificate{Kind: CertStakeDelegation,
			Credential: NewKeyCredential(hash28(5))}, false},
		{Certificate{Kind: CertPoolRetirement, Pool: hash28(5)}, false},
	}

	for _, test := range tests {
		h, ok := test.cert.ScriptHash()
		require.Equal(t, test.want, ok, test.cert.Kind.String())
		if ok {
			require.Equal(t, hash28(5), h)
		}
	}
}

// TestRedeemerEncoding ensures redeemers serialize in the witness set
// layout.
func TestRedeemerEncoding(t *testing.T) {
	t.Parallel()

	r := &Redeemer{
		Tag:     RedeemerSpend,
		Index:   0,
		Data:    plutusdata.NewInteger(42),
		ExUnits: ExUnits{Mem: 1, Steps: 2},
	}
	b, err := EncodeRedeemer(r)
	require.NoError(t, err)
	require.Equal(t, "840000182a820102", hex.EncodeToString(b))

	decoded, err := DecodeRedeemer(b)
	require.NoError(t, err)
	require.Equal(t, r.Tag, decoded.Tag)
	require.Equal(t, r.ExUnits, decoded.ExUnits)
	require.True(t, plutusdata.Equal(r.Data, decoded.Data))

	_, err = DecodeRedeemer([]byte{0x84, 0x07, 0x00, 0x00, 0x82, 0x01, 0x02})
	require.Error(t, err)
	_, err = EncodeRedeemer(&Redeemer{})
	require.Error(t, err)
}
