// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flat

import (
	"fmt"

	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
)

// Term tags.
const (
	tagVar      = 0
	tagDelay    = 1
	tagLambda   = 2
	tagApply    = 3
	tagConstant = 4
	tagForce    = 5
	tagError    = 6
	tagBuiltin  = 7
	tagConstr   = 8
	tagCase     = 9

	termTagWidth    = 4
	builtinTagWidth = 7
	typeTagWidth    = 4
)

// Constant type tags.
const (
	typeTagInteger    = 0
	typeTagByteString = 1
	typeTagString     = 2
	typeTagUnit       = 3
	typeTagBool       = 4
	typeTagList       = 5
	typeTagPair       = 6
	typeTagApply      = 7
	typeTagData       = 8
)

// EncodeProgram serializes p.
func EncodeProgram(p *uplc.Program) ([]byte, error) {
	var w bitWriter
	w.natural(p.Version.Major)
	w.natural(p.Version.Minor)
	w.natural(p.Version.Patch)
	if err := encodeTerm(&w, p.Term); err != nil {
		return nil, err
	}
	w.filler()
	return w.bytes(), nil
}

func encodeTerm(w *bitWriter, t uplc.Term) error {
	switch t := t.(type) {
	case *uplc.Var:
		if t.Index < 0 {
			str := fmt.Sprintf("negative variable index %d", t.Index)
			return flatError(ErrUnencodable, str)
		}
		w.bits(tagVar, termTagWidth)
		w.natural(uint64(t.Index) + 1)

	case *uplc.Delay:
		w.bits(tagDelay, termTagWidth)
		return encodeTerm(w, t.Body)

	case *uplc.Lambda:
		w.bits(tagLambda, termTagWidth)
		return encodeTerm(w, t.Body)

	case *uplc.Apply:
		w.bits(tagApply, termTagWidth)
		if err := encodeTerm(w, t.Function); err != nil {
			return err
		}
		return encodeTerm(w, t.Argument)

	case *uplc.Constant:
		w.bits(tagConstant, termTagWidth)
		typ := t.Value.Type()
		if err := encodeType(w, typ); err != nil {
			return err
		}
		return encodeConst(w, t.Value)

	case *uplc.Force:
		w.bits(tagForce, termTagWidth)
		return encodeTerm(w, t.Body)

	case *uplc.ErrorTerm:
		w.bits(tagError, termTagWidth)

	case *uplc.Builtin:
		if !t.Fn.Implemented() {
			str := fmt.Sprintf("builtin %v has no tag", t.Fn)
			return flatError(ErrUnencodable, str)
		}
		w.bits(tagBuiltin, termTagWidth)
		w.bits(uint64(t.Fn), builtinTagWidth)

	case *uplc.Constr:
		w.bits(tagConstr, termTagWidth)
		w.natural(t.Tag)
		return encodeTerms(w, t.Fields)

	case *uplc.Case:
		w.bits(tagCase, termTagWidth)
		if err := encodeTerm(w, t.Scrutinee); err != nil {
			return err
		}
		return encodeTerms(w, t.Branches)

	default:
		str := fmt.Sprintf("unknown term type %T", t)
		return flatError(ErrUnencodable, str)
	}
	return nil
}

// encodeTerms writes a list of terms, each preceded by a one bit.
func encodeTerms(w *bitWriter, terms []uplc.Term) error {
	for _, t := range terms {
		w.bit(true)
		if err := encodeTerm(w, t); err != nil {
			return err
		}
	}
	w.bit(false)
	return nil
}

// typeTags flattens a constant type into its tag sequence.
func typeTags(dst []uint64, t uplc.Type) ([]uint64, error) {
	switch t.Kind {
	case uplc.TypeInteger:
		return append(dst, typeTagInteger), nil
	case uplc.TypeByteString:
		return append(dst, typeTagByteString), nil
	case uplc.TypeString:
		return append(dst, typeTagString), nil
	case uplc.TypeUnit:
		return append(dst, typeTagUnit), nil
	case uplc.TypeBool:
		return append(dst, typeTagBool), nil
	case uplc.TypeData:
		return append(dst, typeTagData), nil
	case uplc.TypeList:
		if len(t.Args) != 1 {
			return nil, flatError(ErrUnencodable, "list type without "+
				"an element type")
		}
		dst = append(dst, typeTagApply, typeTagList)
		return typeTags(dst, t.Args[0])
	case uplc.TypePair:
		if len(t.Args) != 2 {
			return nil, flatError(ErrUnencodable, "pair type without "+
				"component types")
		}
		dst = append(dst, typeTagApply, typeTagApply, typeTagPair)
		dst, err := typeTags(dst, t.Args[0])
		if err != nil {
			return nil, err
		}
		return typeTags(dst, t.Args[1])
	}
	str := fmt.Sprintf("unknown constant type kind %d", t.Kind)
	return nil, flatError(ErrUnencodable, str)
}

func encodeType(w *bitWriter, t uplc.Type) error {
	tags, err := typeTags(nil, t)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		w.bit(true)
		w.bits(tag, typeTagWidth)
	}
	w.bit(false)
	return nil
}

func encodeConst(w *bitWriter, c uplc.Const) error {
	switch c := c.(type) {
	case uplc.Integer:
		w.integer(c.Value)
	case uplc.ByteString:
		w.byteString(c.Bytes)
	case uplc.String:
		w.byteString([]byte(c.Text))
	case uplc.Unit:
	case uplc.Bool:
		w.bit(c.Value)
	case uplc.List:
		for _, item := range c.Items {
			w.bit(true)
			if err := encodeConst(w, item); err != nil {
				return err
			}
		}
		w.bit(false)
	case uplc.Pair:
		if err := encodeConst(w, c.First); err != nil {
			return err
		}
		return encodeConst(w, c.Second)
	case uplc.Data:
		w.byteString(plutusdata.Encode(c.Value))
	default:
		str := fmt.Sprintf("unknown constant type %T", c)
		return flatError(ErrUnencodable, str)
	}
	return nil
}
