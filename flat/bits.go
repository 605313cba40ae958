// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flat

import (
	"fmt"
	"math/big"
)

// maxChunkLen is the largest number of bytes a single byte string chunk can
// hold.
const maxChunkLen = 255

// bitWriter accumulates a bit stream most significant bit first.
type bitWriter struct {
	buf  []byte
	cur  byte
	used uint8
}

// bit appends a single bit.
func (w *bitWriter) bit(b bool) {
	w.cur <<= 1
	if b {
		w.cur |= 1
	}
	w.used++
	if w.used == 8 {
		w.buf = append(w.buf, w.cur)
		w.cur, w.used = 0, 0
	}
}

// bits appends the low n bits of v, most significant first.
func (w *bitWriter) bits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bit(v>>uint(i)&1 == 1)
	}
}

// byte appends a full byte.  The writer does not need to be aligned.
func (w *bitWriter) byte(b byte) {
	if w.used == 0 {
		w.buf = append(w.buf, b)
		return
	}
	w.bits(uint64(b), 8)
}

// filler pads the stream with zero bits followed by a single one bit so the
// stream ends on a byte boundary.  An aligned stream gets a full 0x01 byte.
func (w *bitWriter) filler() {
	for w.used != 7 {
		w.bit(false)
	}
	w.bit(true)
}

// natural appends a non-negative integer as little endian groups of seven
// bits, each preceded by a continuation bit.
func (w *bitWriter) natural(v uint64) {
	for v > 0x7f {
		w.byte(0x80 | byte(v&0x7f))
		v >>= 7
	}
	w.byte(byte(v))
}

// bigNatural is natural for arbitrary precision values.  v must not be
// negative.
func (w *bitWriter) bigNatural(v *big.Int) {
	if v.IsUint64() {
		w.natural(v.Uint64())
		return
	}

	n := new(big.Int).Set(v)
	group := new(big.Int)
	mask := big.NewInt(0x7f)
	for n.Cmp(mask) > 0 {
		group.And(n, mask)
		w.byte(0x80 | byte(group.Uint64()))
		n.Rsh(n, 7)
	}
	w.byte(byte(n.Uint64()))
}

// integer appends a signed integer zigzag encoded as a natural.
func (w *bitWriter) integer(v *big.Int) {
	z := new(big.Int).Lsh(v, 1)
	if v.Sign() < 0 {
		z.Neg(z)
		z.Sub(z, big.NewInt(1))
	}
	w.bigNatural(z)
}

// byteString appends a filler followed by b split into length prefixed
// chunks and a terminating empty chunk.
func (w *bitWriter) byteString(b []byte) {
	w.filler()
	for len(b) > 0 {
		n := len(b)
		if n > maxChunkLen {
			n = maxChunkLen
		}
		w.buf = append(w.buf, byte(n))
		w.buf = append(w.buf, b[:n]...)
		b = b[n:]
	}
	w.buf = append(w.buf, 0)
}

// bytes returns the stream written so far.  The caller must have padded the
// stream to a byte boundary.
func (w *bitWriter) bytes() []byte {
	return w.buf
}

// bitReader consumes a bit stream most significant bit first.
type bitReader struct {
	buf []byte
	pos int
}

// remaining returns the number of unread bits.
func (r *bitReader) remaining() int {
	return len(r.buf)*8 - r.pos
}

// bit reads a single bit.
func (r *bitReader) bit() (bool, error) {
	if r.remaining() < 1 {
		return false, flatError(ErrMalformed, "unexpected end of input")
	}
	b := r.buf[r.pos/8]>>(7-uint(r.pos%8))&1 == 1
	r.pos++
	return b, nil
}

// bits reads n bits as an unsigned value, most significant first.
func (r *bitReader) bits(n int) (uint64, error) {
	if r.remaining() < n {
		str := fmt.Sprintf("unexpected end of input reading %d bits", n)
		return 0, flatError(ErrMalformed, str)
	}
	var v uint64
	for i := 0; i < n; i++ {
		b := r.buf[r.pos/8] >> (7 - uint(r.pos%8)) & 1
		v = v<<1 | uint64(b)
		r.pos++
	}
	return v, nil
}

// filler skips zero bits up to and including the next one bit, which must
// leave the reader on a byte boundary.
func (r *bitReader) filler() error {
	for {
		b, err := r.bit()
		if err != nil {
			return err
		}
		if b {
			break
		}
	}
	if r.pos%8 != 0 {
		return flatError(ErrMalformed, "filler does not end on a byte "+
			"boundary")
	}
	return nil
}

// bigNatural reads a natural of any size.
func (r *bitReader) bigNatural() (*big.Int, error) {
	v := new(big.Int)
	group := new(big.Int)
	for shift := uint(0); ; shift += 7 {
		b, err := r.bits(8)
		if err != nil {
			return nil, err
		}
		group.SetUint64(b & 0x7f)
		v.Or(v, group.Lsh(group, shift))
		if b&0x80 == 0 {
			return v, nil
		}
	}
}

// natural reads a natural that must fit in a uint64.
func (r *bitReader) natural() (uint64, error) {
	v, err := r.bigNatural()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		str := fmt.Sprintf("natural %v does not fit in 64 bits", v)
		return 0, flatError(ErrMalformed, str)
	}
	return v.Uint64(), nil
}

// integer reads a zigzag encoded signed integer.
func (r *bitReader) integer() (*big.Int, error) {
	z, err := r.bigNatural()
	if err != nil {
		return nil, err
	}
	negative := z.Bit(0) == 1
	z.Rsh(z, 1)
	if negative {
		z.Neg(z)
		z.Sub(z, big.NewInt(1))
	}
	return z, nil
}

// byteString reads a filler followed by length prefixed chunks.
func (r *bitReader) byteString() ([]byte, error) {
	if err := r.filler(); err != nil {
		return nil, err
	}
	out := []byte{}
	for {
		idx := r.pos / 8
		if idx >= len(r.buf) {
			return nil, flatError(ErrMalformed, "unterminated byte string")
		}
		n := int(r.buf[idx])
		if n == 0 {
			r.pos += 8
			return out, nil
		}
		if idx+1+n > len(r.buf) {
			str := fmt.Sprintf("byte string chunk of %d bytes exceeds "+
				"input", n)
			return nil, flatError(ErrMalformed, str)
		}
		out = append(out, r.buf[idx+1:idx+1+n]...)
		r.pos += 8 * (n + 1)
	}
}
