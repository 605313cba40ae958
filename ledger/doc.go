// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ledger defines the decoded transaction and UTXO structures consumed
by phase-two validation.

The types mirror the parts of a transaction body and witness set that
scripts can observe: inputs and reference inputs, outputs with their
addresses, values, datums and reference scripts, minted assets,
certificates, withdrawals, the validity interval, required signers, witness
scripts, datums and redeemers.  Decoding these from the binary transaction
format is left to the caller.

The canonical orderings used to resolve redeemer pointers are provided here
as well: inputs sort by transaction id then output index, minting policies
and required signers by hash bytes, and withdrawals by the serialized reward
account.
*/
package ledger
