// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

const (
	// ecdsaPubKeyLen is the length of a compressed secp256k1 public key.
	ecdsaPubKeyLen = 33

	// secpMessageLen is the length of the message digest verified by the
	// ECDSA builtin.
	secpMessageLen = 32

	// secpSignatureLen is the length of a compact r || s signature.
	secpSignatureLen = 64
)

// bip340Challenge is the tag of the BIP340 challenge hash.
var bip340Challenge = []byte("BIP0340/challenge")

func hashBuiltin(fn BuiltinID, args []Value, hash func([]byte) []byte) (Value, error) {
	msg, err := argBytes(fn, args, 0)
	if err != nil {
		return nil, err
	}
	return bytesValue(hash(msg)), nil
}

func evalSha2_256(_ *Machine, args []Value) (Value, error) {
	return hashBuiltin(Sha2_256, args, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})
}

func evalSha3_256(_ *Machine, args []Value) (Value, error) {
	return hashBuiltin(Sha3_256, args, func(b []byte) []byte {
		h := sha3.Sum256(b)
		return h[:]
	})
}

func evalKeccak_256(_ *Machine, args []Value) (Value, error) {
	return hashBuiltin(Keccak_256, args, func(b []byte) []byte {
		h := sha3.NewLegacyKeccak256()
		h.Write(b)
		return h.Sum(nil)
	})
}

func evalBlake2b_256(_ *Machine, args []Value) (Value, error) {
	return hashBuiltin(Blake2b_256, args, func(b []byte) []byte {
		h := blake2b.Sum256(b)
		return h[:]
	})
}

func evalBlake2b_224(_ *Machine, args []Value) (Value, error) {
	return hashBuiltin(Blake2b_224, args, func(b []byte) []byte {
		// A nil key never fails.
		h, _ := blake2b.New(28, nil)
		h.Write(b)
		return h.Sum(nil)
	})
}

func evalRipemd_160(_ *Machine, args []Value) (Value, error) {
	return hashBuiltin(Ripemd_160, args, func(b []byte) []byte {
		h := ripemd160.New()
		h.Write(b)
		return h.Sum(nil)
	})
}

// signatureArgs unlifts the key, message and signature arguments shared by
// the signature verification builtins.
func signatureArgs(fn BuiltinID, args []Value) ([]byte, []byte, []byte, error) {
	key, err := argBytes(fn, args, 0)
	if err != nil {
		return nil, nil, nil, err
	}
	msg, err := argBytes(fn, args, 1)
	if err != nil {
		return nil, nil, nil, err
	}
	sig, err := argBytes(fn, args, 2)
	if err != nil {
		return nil, nil, nil, err
	}
	return key, msg, sig, nil
}

// evalVerifyEd25519Signature verifies an Ed25519 signature over a message of
// any length.  Malformed keys and signatures are failures, an invalid
// signature is false.
func evalVerifyEd25519Signature(_ *Machine, args []Value) (Value, error) {
	fn := VerifyEd25519Signature
	key, msg, sig, err := signatureArgs(fn, args)
	if err != nil {
		return nil, err
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, builtinFailure(fn, "public key has length %d, want %d",
			len(key), ed25519.PublicKeySize)
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, builtinFailure(fn, "signature has length %d, want %d",
			len(sig), ed25519.SignatureSize)
	}
	return boolValue(ed25519.Verify(key, msg, sig)), nil
}

// evalVerifyEcdsaSecp256k1Signature verifies a compact ECDSA signature over a
// 32 byte digest with a compressed public key.  Signatures with a high s
// value are rejected.
func evalVerifyEcdsaSecp256k1Signature(_ *Machine, args []Value) (Value, error) {
	fn := VerifyEcdsaSecp256k1Signature
	key, msg, sig, err := signatureArgs(fn, args)
	if err != nil {
		return nil, err
	}
	if len(key) != ecdsaPubKeyLen {
		return nil, builtinFailure(fn, "public key has length %d, want %d",
			len(key), ecdsaPubKeyLen)
	}
	if len(msg) != secpMessageLen {
		return nil, builtinFailure(fn, "message has length %d, want %d",
			len(msg), secpMessageLen)
	}
	if len(sig) != secpSignatureLen {
		return nil, builtinFailure(fn, "signature has length %d, want %d",
			len(sig), secpSignatureLen)
	}

	pubKey, err := btcec.ParsePubKey(key)
	if err != nil {
		return nil, builtinFailure(fn, "invalid public key: %v", err)
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return nil, builtinFailure(fn, "invalid signature r value")
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
		return nil, builtinFailure(fn, "invalid signature s value")
	}
	if s.IsOverHalfOrder() {
		return boolValue(false), nil
	}

	signature := ecdsa.NewSignature(&r, &s)
	return boolValue(signature.Verify(msg, pubKey)), nil
}

// evalVerifySchnorrSecp256k1Signature verifies a BIP340 signature.  Unlike
// the BIP340 reference the message may have any length.
func evalVerifySchnorrSecp256k1Signature(_ *Machine, args []Value) (Value, error) {
	fn := VerifySchnorrSecp256k1Signature
	key, msg, sig, err := signatureArgs(fn, args)
	if err != nil {
		return nil, err
	}
	if len(key) != schnorr.PubKeyBytesLen {
		return nil, builtinFailure(fn, "public key has length %d, want %d",
			len(key), schnorr.PubKeyBytesLen)
	}
	if len(sig) != schnorr.SignatureSize {
		return nil, builtinFailure(fn, "signature has length %d, want %d",
			len(sig), schnorr.SignatureSize)
	}

	pubKey, err := schnorr.ParsePubKey(key)
	if err != nil {
		return nil, builtinFailure(fn, "invalid public key: %v", err)
	}

	var r secp256k1.FieldVal
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return boolValue(false), nil
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return boolValue(false), nil
	}

	commitment := chainhash.TaggedHash(bip340Challenge, sig[:32], key, msg)
	var e secp256k1.ModNScalar
	e.SetBytes((*[32]byte)(commitment))
	e.Negate()

	// R = s*G - e*P must be a finite point with an even y coordinate and
	// an x coordinate equal to r.
	var p, rPoint, sG, eP secp256k1.JacobianPoint
	pubKey.AsJacobian(&p)
	secp256k1.ScalarBaseMultNonConst(&s, &sG)
	secp256k1.ScalarMultNonConst(&e, &p, &eP)
	secp256k1.AddNonConst(&sG, &eP, &rPoint)
	if (rPoint.X.IsZero() && rPoint.Y.IsZero()) || rPoint.Z.IsZero() {
		return boolValue(false), nil
	}
	rPoint.ToAffine()
	if rPoint.Y.IsOdd() {
		return boolValue(false), nil
	}
	return boolValue(r.Equals(&rPoint.X)), nil
}
