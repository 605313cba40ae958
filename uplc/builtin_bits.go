// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"math/big"
	"math/bits"
)

// maxByteStringWidth is the largest byte string integerToByteString and
// replicateByte will produce.
const maxByteStringWidth = 8192

// evalIntegerToByteString converts a non-negative integer to a byte string.
// The first argument selects big endian output, the second the exact output
// width with zero meaning as short as possible.
func evalIntegerToByteString(_ *Machine, args []Value) (Value, error) {
	fn := IntegerToByteString
	bigEndian, err := argBool(fn, args, 0)
	if err != nil {
		return nil, err
	}
	width, err := argInteger(fn, args, 1)
	if err != nil {
		return nil, err
	}
	n, err := argInteger(fn, args, 2)
	if err != nil {
		return nil, err
	}

	if width.Sign() < 0 || width.Cmp(big.NewInt(maxByteStringWidth)) > 0 {
		return nil, builtinFailure(fn, "width %v out of range", width)
	}
	if n.Sign() < 0 {
		return nil, builtinFailure(fn, "negative integer %v", n)
	}

	magnitude := n.Bytes()
	w := int(width.Int64())
	switch {
	case w == 0 && len(magnitude) > maxByteStringWidth:
		return nil, builtinFailure(fn, "integer needs %d bytes, limit %d",
			len(magnitude), maxByteStringWidth)
	case w == 0:
		w = len(magnitude)
	case len(magnitude) > w:
		return nil, builtinFailure(fn, "integer needs %d bytes, width "+
			"is %d", len(magnitude), w)
	}

	out := make([]byte, w)
	copy(out[w-len(magnitude):], magnitude)
	if !bigEndian {
		reverseBytes(out)
	}
	return bytesValue(out), nil
}

// evalByteStringToInteger interprets a byte string as a non-negative integer
// in the selected byte order.
func evalByteStringToInteger(_ *Machine, args []Value) (Value, error) {
	fn := ByteStringToInteger
	bigEndian, err := argBool(fn, args, 0)
	if err != nil {
		return nil, err
	}
	bs, err := argBytes(fn, args, 1)
	if err != nil {
		return nil, err
	}

	b := append([]byte(nil), bs...)
	if !bigEndian {
		reverseBytes(b)
	}
	return intValue(new(big.Int).SetBytes(b)), nil
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// logicalBuiltin implements andByteString, orByteString and xorByteString.
// With padding the shorter operand is extended so that the tail of the
// longer one passes through unchanged, otherwise the longer operand is
// truncated.
func logicalBuiltin(fn BuiltinID, args []Value, op func(a, b byte) byte) (Value, error) {
	pad, err := argBool(fn, args, 0)
	if err != nil {
		return nil, err
	}
	x, err := argBytes(fn, args, 1)
	if err != nil {
		return nil, err
	}
	y, err := argBytes(fn, args, 2)
	if err != nil {
		return nil, err
	}

	short, long := x, y
	if len(short) > len(long) {
		short, long = long, short
	}
	var out []byte
	if pad {
		out = append([]byte(nil), long...)
	} else {
		out = make([]byte, len(short))
	}
	for i := range short {
		out[i] = op(x[i], y[i])
	}
	return bytesValue(out), nil
}

func evalAndByteString(_ *Machine, args []Value) (Value, error) {
	return logicalBuiltin(AndByteString, args, func(a, b byte) byte {
		return a & b
	})
}

func evalOrByteString(_ *Machine, args []Value) (Value, error) {
	return logicalBuiltin(OrByteString, args, func(a, b byte) byte {
		return a | b
	})
}

func evalXorByteString(_ *Machine, args []Value) (Value, error) {
	return logicalBuiltin(XorByteString, args, func(a, b byte) byte {
		return a ^ b
	})
}

func evalComplementByteString(_ *Machine, args []Value) (Value, error) {
	bs, err := argBytes(ComplementByteString, args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(bs))
	for i, b := range bs {
		out[i] = ^b
	}
	return bytesValue(out), nil
}

// bitPosition maps a bit index to its byte offset and mask.  Bit zero is the
// least significant bit of the last byte.
func bitPosition(fn BuiltinID, bs []byte, idx *big.Int) (int, byte, error) {
	if idx.Sign() < 0 || idx.Cmp(big.NewInt(int64(len(bs))*8)) >= 0 {
		return 0, 0, builtinFailure(fn, "bit index %v out of range for "+
			"length %d", idx, len(bs))
	}
	i := int(idx.Int64())
	return len(bs) - 1 - i/8, 1 << (i % 8), nil
}

func evalReadBit(_ *Machine, args []Value) (Value, error) {
	bs, err := argBytes(ReadBit, args, 0)
	if err != nil {
		return nil, err
	}
	idx, err := argInteger(ReadBit, args, 1)
	if err != nil {
		return nil, err
	}
	offset, mask, err := bitPosition(ReadBit, bs, idx)
	if err != nil {
		return nil, err
	}
	return boolValue(bs[offset]&mask != 0), nil
}

// evalWriteBits sets every listed bit index to the given value.
func evalWriteBits(_ *Machine, args []Value) (Value, error) {
	bs, err := argBytes(WriteBits, args, 0)
	if err != nil {
		return nil, err
	}
	indices, err := argList(WriteBits, args, 1)
	if err != nil {
		return nil, err
	}
	if !indices.ElemType.Equal(IntegerType) {
		return nil, typeMismatch(WriteBits, 1, "(list integer)", args[1])
	}
	set, err := argBool(WriteBits, args, 2)
	if err != nil {
		return nil, err
	}

	out := append([]byte(nil), bs...)
	for _, item := range indices.Items {
		offset, mask, err := bitPosition(WriteBits, out,
			item.(Integer).Value)
		if err != nil {
			return nil, err
		}
		if set {
			out[offset] |= mask
		} else {
			out[offset] &^= mask
		}
	}
	if out == nil {
		out = []byte{}
	}
	return bytesValue(out), nil
}

func evalReplicateByte(_ *Machine, args []Value) (Value, error) {
	n, err := argInteger(ReplicateByte, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argInteger(ReplicateByte, args, 1)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 || n.Cmp(big.NewInt(maxByteStringWidth)) > 0 {
		return nil, builtinFailure(ReplicateByte, "length %v out of range",
			n)
	}
	if b.Sign() < 0 || b.Cmp(big.NewInt(255)) > 0 {
		return nil, builtinFailure(ReplicateByte, "%v is not a byte", b)
	}
	out := make([]byte, n.Int64())
	for i := range out {
		out[i] = byte(b.Int64())
	}
	return bytesValue(out), nil
}

// bitsArgs unlifts the byte string and shift amount of a shift or rotation.
func bitsArgs(fn BuiltinID, args []Value) ([]byte, *big.Int, error) {
	bs, err := argBytes(fn, args, 0)
	if err != nil {
		return nil, nil, err
	}
	n, err := argInteger(fn, args, 1)
	if err != nil {
		return nil, nil, err
	}
	return bs, n, nil
}

// evalShiftByteString shifts towards the most significant bit for positive
// amounts and towards the least significant bit for negative ones, filling
// with zeros and keeping the length.
func evalShiftByteString(_ *Machine, args []Value) (Value, error) {
	bs, n, err := bitsArgs(ShiftByteString, args)
	if err != nil {
		return nil, err
	}
	width := uint(len(bs)) * 8
	out := make([]byte, len(bs))
	if new(big.Int).Abs(n).Cmp(big.NewInt(int64(width))) >= 0 {
		return bytesValue(out), nil
	}

	v := new(big.Int).SetBytes(bs)
	if n.Sign() >= 0 {
		v.Lsh(v, uint(n.Int64()))
		v.And(v, bitMask(width))
	} else {
		v.Rsh(v, uint(-n.Int64()))
	}
	return bytesValue(v.FillBytes(out)), nil
}

// evalRotateByteString rotates towards the most significant bit for
// positive amounts.
func evalRotateByteString(_ *Machine, args []Value) (Value, error) {
	bs, n, err := bitsArgs(RotateByteString, args)
	if err != nil {
		return nil, err
	}
	width := uint(len(bs)) * 8
	out := make([]byte, len(bs))
	if width == 0 {
		return bytesValue(out), nil
	}

	// Mod is euclidean so k is in [0, width).
	k := uint(new(big.Int).Mod(n, big.NewInt(int64(width))).Int64())
	v := new(big.Int).SetBytes(bs)
	hi := new(big.Int).Lsh(v, k)
	hi.And(hi, bitMask(width))
	lo := new(big.Int).Rsh(v, width-k)
	return bytesValue(hi.Or(hi, lo).FillBytes(out)), nil
}

func bitMask(width uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), width)
	return m.Sub(m, big.NewInt(1))
}

func evalCountSetBits(_ *Machine, args []Value) (Value, error) {
	bs, err := argBytes(CountSetBits, args, 0)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, b := range bs {
		count += bits.OnesCount8(b)
	}
	return intValue(big.NewInt(int64(count))), nil
}

// evalFindFirstSetBit returns the index of the least significant set bit or
// -1 when no bit is set.
func evalFindFirstSetBit(_ *Machine, args []Value) (Value, error) {
	bs, err := argBytes(FindFirstSetBit, args, 0)
	if err != nil {
		return nil, err
	}
	for i := len(bs) - 1; i >= 0; i-- {
		if bs[i] != 0 {
			idx := (len(bs)-1-i)*8 + bits.TrailingZeros8(bs[i])
			return intValue(big.NewInt(int64(idx))), nil
		}
	}
	return intValue(big.NewInt(-1)), nil
}
