// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plutusdata

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

const (
	// maxChunkSize is the largest byte string emitted as a single chunk.
	// Longer byte strings, including bignum payloads, are split.
	maxChunkSize = 64

	// maxNestedLevels bounds the nesting depth accepted by the decoder.
	maxNestedLevels = 1024

	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6

	tagPositiveBignum = 2
	tagNegativeBignum = 3
	tagConstrGeneral  = 102
	tagConstrSmall    = 121
	tagConstrLarge    = 1280

	cborBreak = 0xff
)

// decMode is the CBOR decoding mode shared by every decode call.  It is safe
// for concurrent use.
var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		MaxNestedLevels: maxNestedLevels,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("plutusdata: invalid decode options: %v", err))
	}
	return dm
}()

// Encode returns the canonical CBOR encoding of d.
func Encode(d PlutusData) []byte {
	return appendData(nil, d)
}

func appendData(buf []byte, d PlutusData) []byte {
	switch d := d.(type) {
	case Constr:
		switch {
		case d.Tag < 7:
			buf = appendHead(buf, majorTag, tagConstrSmall+d.Tag)
		case d.Tag < 128:
			buf = appendHead(buf, majorTag, tagConstrLarge+d.Tag-7)
		default:
			buf = appendHead(buf, majorTag, tagConstrGeneral)
			buf = appendHead(buf, majorArray, 2)
			buf = appendHead(buf, majorUnsigned, d.Tag)
		}
		return appendList(buf, d.Fields)

	case Map:
		buf = appendHead(buf, majorMap, uint64(len(d.Pairs)))
		for _, p := range d.Pairs {
			buf = appendData(buf, p.Key)
			buf = appendData(buf, p.Value)
		}
		return buf

	case List:
		return appendList(buf, d.Items)

	case Integer:
		return appendInteger(buf, d.Value)

	case ByteString:
		return appendBytes(buf, d.Bytes)
	}

	panic(fmt.Sprintf("plutusdata: unknown data type %T", d))
}

// appendList emits an empty list as a definite zero length array and any
// other list with indefinite length.
func appendList(buf []byte, items []PlutusData) []byte {
	if len(items) == 0 {
		return appendHead(buf, majorArray, 0)
	}
	buf = append(buf, majorArray<<5|31)
	for _, item := range items {
		buf = appendData(buf, item)
	}
	return append(buf, cborBreak)
}

func appendInteger(buf []byte, v *big.Int) []byte {
	if v.Sign() >= 0 {
		if v.IsUint64() {
			return appendHead(buf, majorUnsigned, v.Uint64())
		}
		buf = appendHead(buf, majorTag, tagPositiveBignum)
		return appendBytes(buf, v.Bytes())
	}

	// Negative integers encode -1 - v.
	n := new(big.Int).Neg(v)
	n.Sub(n, big.NewInt(1))
	if n.IsUint64() {
		return appendHead(buf, majorNegative, n.Uint64())
	}
	buf = appendHead(buf, majorTag, tagNegativeBignum)
	return appendBytes(buf, n.Bytes())
}

func appendBytes(buf []byte, b []byte) []byte {
	if len(b) <= maxChunkSize {
		buf = appendHead(buf, majorBytes, uint64(len(b)))
		return append(buf, b...)
	}
	buf = append(buf, majorBytes<<5|31)
	for len(b) > 0 {
		n := len(b)
		if n > maxChunkSize {
			n = maxChunkSize
		}
		buf = appendHead(buf, majorBytes, uint64(n))
		buf = append(buf, b[:n]...)
		b = b[n:]
	}
	return append(buf, cborBreak)
}

func appendHead(buf []byte, major byte, n uint64) []byte {
	m := major << 5
	switch {
	case n < 24:
		return append(buf, m|byte(n))
	case n <= 0xff:
		return append(buf, m|24, byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(buf, m|25), uint16(n))
	case n <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(buf, m|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(buf, m|27), n)
	}
}

// Decode parses a single PlutusData value from b.  The whole input must be
// consumed.
func Decode(b []byte) (PlutusData, error) {
	d, rest, err := DecodeFirst(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		str := fmt.Sprintf("%d trailing bytes after data value", len(rest))
		return nil, dataError(ErrTrailingBytes, str)
	}
	return d, nil
}

// DecodeFirst parses the first PlutusData value in b and returns the
// remaining bytes.
func DecodeFirst(b []byte) (PlutusData, []byte, error) {
	return decodeData(b, 0)
}

func decodeData(b []byte, depth int) (PlutusData, []byte, error) {
	if len(b) == 0 {
		return nil, nil, dataError(ErrMalformed, "unexpected end of input")
	}
	if depth > maxNestedLevels {
		return nil, nil, dataError(ErrMalformed, "data nested too deeply")
	}

	switch b[0] >> 5 {
	case majorUnsigned, majorNegative:
		var n big.Int
		rest, err := decMode.UnmarshalFirst(b, &n)
		if err != nil {
			return nil, nil, malformed("integer", err)
		}
		return Integer{Value: &n}, rest, nil

	case majorBytes:
		var bs []byte
		rest, err := decMode.UnmarshalFirst(b, &bs)
		if err != nil {
			return nil, nil, malformed("byte string", err)
		}
		return NewByteString(bs), rest, nil

	case majorArray:
		var raw []cbor.RawMessage
		rest, err := decMode.UnmarshalFirst(b, &raw)
		if err != nil {
			return nil, nil, malformed("list", err)
		}
		items, err := decodeItems(raw, depth)
		if err != nil {
			return nil, nil, err
		}
		return NewList(items...), rest, nil

	case majorMap:
		return decodeMap(b, depth)

	case majorTag:
		return decodeTagged(b, depth)
	}

	str := fmt.Sprintf("unexpected CBOR major type %d", b[0]>>5)
	return nil, nil, dataError(ErrMalformed, str)
}

func decodeItems(raw []cbor.RawMessage, depth int) ([]PlutusData, error) {
	items := make([]PlutusData, 0, len(raw))
	for _, r := range raw {
		item, rest, err := decodeData(r, depth+1)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, dataError(ErrMalformed, "list item has "+
				"trailing bytes")
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeFields(content cbor.RawMessage, depth int) ([]PlutusData, error) {
	var raw []cbor.RawMessage
	if err := decMode.Unmarshal(content, &raw); err != nil {
		return nil, malformed("constructor fields", err)
	}
	return decodeItems(raw, depth)
}

func decodeTagged(b []byte, depth int) (PlutusData, []byte, error) {
	var tag cbor.RawTag
	rest, err := decMode.UnmarshalFirst(b, &tag)
	if err != nil {
		return nil, nil, malformed("tag", err)
	}

	switch {
	case tag.Number == tagPositiveBignum || tag.Number == tagNegativeBignum:
		var n big.Int
		if err := decMode.Unmarshal(b[:len(b)-len(rest)], &n); err != nil {
			return nil, nil, malformed("bignum", err)
		}
		return Integer{Value: &n}, rest, nil

	case tag.Number >= tagConstrSmall && tag.Number < tagConstrSmall+7:
		fields, err := decodeFields(tag.Content, depth)
		if err != nil {
			return nil, nil, err
		}
		return NewConstr(tag.Number-tagConstrSmall, fields...), rest, nil

	case tag.Number >= tagConstrLarge && tag.Number <= tagConstrLarge+120:
		fields, err := decodeFields(tag.Content, depth)
		if err != nil {
			return nil, nil, err
		}
		constrTag := tag.Number - tagConstrLarge + 7
		return NewConstr(constrTag, fields...), rest, nil

	case tag.Number == tagConstrGeneral:
		var parts []cbor.RawMessage
		if err := decMode.Unmarshal(tag.Content, &parts); err != nil {
			return nil, nil, malformed("general constructor", err)
		}
		if len(parts) != 2 {
			str := fmt.Sprintf("general constructor has %d parts, "+
				"want 2", len(parts))
			return nil, nil, dataError(ErrMalformed, str)
		}
		var constrTag uint64
		if err := decMode.Unmarshal(parts[0], &constrTag); err != nil {
			return nil, nil, malformed("constructor index", err)
		}
		fields, err := decodeFields(parts[1], depth)
		if err != nil {
			return nil, nil, err
		}
		return NewConstr(constrTag, fields...), rest, nil
	}

	str := fmt.Sprintf("CBOR tag %d is not a data tag", tag.Number)
	return nil, nil, dataError(ErrUnsupportedTag, str)
}

// decodeMap walks the map entries one at a time so that the pair order and
// any duplicate or structured keys survive decoding.
func decodeMap(b []byte, depth int) (PlutusData, []byte, error) {
	info := b[0] & 0x1f
	indefinite := info == 31

	var count uint64
	var pos int
	if indefinite {
		pos = 1
	} else {
		n, size, err := readArgument(b)
		if err != nil {
			return nil, nil, err
		}
		count, pos = n, size
	}

	rest := b[pos:]
	var pairs []Pair
	for i := uint64(0); indefinite || i < count; i++ {
		if indefinite {
			if len(rest) == 0 {
				return nil, nil, dataError(ErrMalformed,
					"unterminated map")
			}
			if rest[0] == cborBreak {
				rest = rest[1:]
				break
			}
		}

		key, r, err := decodeData(rest, depth+1)
		if err != nil {
			return nil, nil, err
		}
		value, r, err := decodeData(r, depth+1)
		if err != nil {
			return nil, nil, err
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
		rest = r
	}
	return NewMap(pairs...), rest, nil
}

// readArgument decodes the argument of a definite length head and returns it
// along with the size of the head.
func readArgument(b []byte) (uint64, int, error) {
	info := b[0] & 0x1f
	need := 0
	switch {
	case info < 24:
		return uint64(info), 1, nil
	case info == 24:
		need = 1
	case info == 25:
		need = 2
	case info == 26:
		need = 4
	case info == 27:
		need = 8
	default:
		str := fmt.Sprintf("invalid additional information %d", info)
		return 0, 0, dataError(ErrMalformed, str)
	}
	if len(b) < 1+need {
		return 0, 0, dataError(ErrMalformed, "truncated head")
	}
	var n uint64
	for _, c := range b[1 : 1+need] {
		n = n<<8 | uint64(c)
	}
	return n, 1 + need, nil
}

func malformed(what string, err error) Error {
	return dataError(ErrMalformed, fmt.Sprintf("malformed %s: %v", what,
		err))
}
