// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package phasetwo runs the Plutus scripts of a transaction and reports, for
every redeemer, whether its script accepted and the budget it consumed.

Validation proceeds in three stages.  First every redeemer is resolved to the
item it points at and the script guarding that item, using the witness
scripts and the reference scripts of the resolved inputs.  Then the script
context is built for the language of each script.  Finally the scripts are
evaluated, in parallel across redeemers, and the results are returned in the
order the redeemers appear in the witness set regardless of completion order.

Resolution failures and undecodable scripts abort the whole call.  Script
failures are reported per redeemer, or as a ScriptFailureError in strict
mode.  The transaction and UTXO set passed in are never modified.
*/
package phasetwo
