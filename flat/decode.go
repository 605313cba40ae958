// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flat

import (
	"fmt"
	"unicode/utf8"

	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
)

// decoder carries the state of a single program decode.
type decoder struct {
	r       bitReader
	version uplc.Version
}

// DecodeProgram deserializes a flat program.  The input must hold exactly
// one program.
func DecodeProgram(b []byte) (*uplc.Program, error) {
	d := decoder{r: bitReader{buf: b}}

	var err error
	if d.version.Major, err = d.r.natural(); err != nil {
		return nil, err
	}
	if d.version.Minor, err = d.r.natural(); err != nil {
		return nil, err
	}
	if d.version.Patch, err = d.r.natural(); err != nil {
		return nil, err
	}
	if d.version.Major != 1 {
		str := fmt.Sprintf("program version %v is not supported",
			d.version)
		return nil, flatError(ErrUnsupportedVersion, str)
	}

	term, err := d.term()
	if err != nil {
		return nil, err
	}
	if err := d.r.filler(); err != nil {
		return nil, err
	}
	if rem := d.r.remaining(); rem != 0 {
		str := fmt.Sprintf("%d bytes remain after the program", rem/8)
		return nil, flatError(ErrTrailingBytes, str)
	}

	program := &uplc.Program{Version: d.version, Term: term}
	log.Tracef("Decoded %d bytes: %v", len(b), newLogClosure(func() string {
		return uplc.PrettyProgram(program)
	}))
	return program, nil
}

// allowsConstr reports whether the program version includes constr and case.
func (d *decoder) allowsConstr() bool {
	return d.version.Major > 1 || d.version.Minor >= 1
}

func (d *decoder) term() (uplc.Term, error) {
	tag, err := d.r.bits(termTagWidth)
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagVar:
		n, err := d.r.natural()
		if err != nil {
			return nil, err
		}
		if n == 0 || n > uint64(maxInt) {
			str := fmt.Sprintf("variable index %d out of range", n)
			return nil, flatError(ErrMalformed, str)
		}
		return &uplc.Var{Index: int(n - 1)}, nil

	case tagDelay:
		body, err := d.term()
		if err != nil {
			return nil, err
		}
		return &uplc.Delay{Body: body}, nil

	case tagLambda:
		body, err := d.term()
		if err != nil {
			return nil, err
		}
		return &uplc.Lambda{Body: body}, nil

	case tagApply:
		fn, err := d.term()
		if err != nil {
			return nil, err
		}
		arg, err := d.term()
		if err != nil {
			return nil, err
		}
		return &uplc.Apply{Function: fn, Argument: arg}, nil

	case tagConstant:
		typ, err := d.constType()
		if err != nil {
			return nil, err
		}
		c, err := d.constValue(typ)
		if err != nil {
			return nil, err
		}
		return uplc.NewConstant(c), nil

	case tagForce:
		body, err := d.term()
		if err != nil {
			return nil, err
		}
		return &uplc.Force{Body: body}, nil

	case tagError:
		return &uplc.ErrorTerm{}, nil

	case tagBuiltin:
		v, err := d.r.bits(builtinTagWidth)
		if err != nil {
			return nil, err
		}
		fn := uplc.BuiltinID(v)
		if !fn.Implemented() {
			str := fmt.Sprintf("builtin tag %d is not known", v)
			return nil, flatError(ErrUnknownBuiltin, str)
		}
		return &uplc.Builtin{Fn: fn}, nil

	case tagConstr:
		if !d.allowsConstr() {
			str := fmt.Sprintf("constr is not allowed in program "+
				"version %v", d.version)
			return nil, flatError(ErrUnsupportedVersion, str)
		}
		ctag, err := d.r.natural()
		if err != nil {
			return nil, err
		}
		fields, err := d.terms()
		if err != nil {
			return nil, err
		}
		return &uplc.Constr{Tag: ctag, Fields: fields}, nil

	case tagCase:
		if !d.allowsConstr() {
			str := fmt.Sprintf("case is not allowed in program "+
				"version %v", d.version)
			return nil, flatError(ErrUnsupportedVersion, str)
		}
		scrutinee, err := d.term()
		if err != nil {
			return nil, err
		}
		branches, err := d.terms()
		if err != nil {
			return nil, err
		}
		return &uplc.Case{Scrutinee: scrutinee, Branches: branches}, nil
	}

	str := fmt.Sprintf("unknown term tag %d", tag)
	return nil, flatError(ErrMalformed, str)
}

// terms reads a list of terms, each preceded by a one bit.
func (d *decoder) terms() ([]uplc.Term, error) {
	var terms []uplc.Term
	for {
		more, err := d.r.bit()
		if err != nil {
			return nil, err
		}
		if !more {
			return terms, nil
		}
		t, err := d.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
}

// constType reads the tag list of a constant type and parses it.
func (d *decoder) constType() (uplc.Type, error) {
	var tags []uint64
	for {
		more, err := d.r.bit()
		if err != nil {
			return uplc.Type{}, err
		}
		if !more {
			break
		}
		tag, err := d.r.bits(typeTagWidth)
		if err != nil {
			return uplc.Type{}, err
		}
		tags = append(tags, tag)
	}

	typ, rest, err := parseType(tags)
	if err != nil {
		return uplc.Type{}, err
	}
	if len(rest) != 0 {
		str := fmt.Sprintf("%d unused constant type tags", len(rest))
		return uplc.Type{}, flatError(ErrMalformed, str)
	}
	return typ, nil
}

// parseType parses one type from the front of tags and returns the unused
// tags.
func parseType(tags []uint64) (uplc.Type, []uint64, error) {
	if len(tags) == 0 {
		return uplc.Type{}, nil, flatError(ErrMalformed, "missing "+
			"constant type tag")
	}

	switch tags[0] {
	case typeTagInteger:
		return uplc.IntegerType, tags[1:], nil
	case typeTagByteString:
		return uplc.ByteStringType, tags[1:], nil
	case typeTagString:
		return uplc.StringType, tags[1:], nil
	case typeTagUnit:
		return uplc.UnitType, tags[1:], nil
	case typeTagBool:
		return uplc.BoolType, tags[1:], nil
	case typeTagData:
		return uplc.DataType, tags[1:], nil
	case typeTagApply:
		switch {
		case len(tags) > 1 && tags[1] == typeTagList:
			elem, rest, err := parseType(tags[2:])
			if err != nil {
				return uplc.Type{}, nil, err
			}
			return uplc.ListOf(elem), rest, nil

		case len(tags) > 2 && tags[1] == typeTagApply &&
			tags[2] == typeTagPair:

			first, rest, err := parseType(tags[3:])
			if err != nil {
				return uplc.Type{}, nil, err
			}
			second, rest, err := parseType(rest)
			if err != nil {
				return uplc.Type{}, nil, err
			}
			return uplc.PairOf(first, second), rest, nil
		}
	}

	str := fmt.Sprintf("invalid constant type tags %v", tags)
	return uplc.Type{}, nil, flatError(ErrMalformed, str)
}

// constValue reads a constant of type t.
func (d *decoder) constValue(t uplc.Type) (uplc.Const, error) {
	switch t.Kind {
	case uplc.TypeInteger:
		v, err := d.r.integer()
		if err != nil {
			return nil, err
		}
		return uplc.Integer{Value: v}, nil

	case uplc.TypeByteString:
		b, err := d.r.byteString()
		if err != nil {
			return nil, err
		}
		return uplc.NewByteString(b), nil

	case uplc.TypeString:
		b, err := d.r.byteString()
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, flatError(ErrMalformed, "string constant is "+
				"not valid utf-8")
		}
		return uplc.String{Text: string(b)}, nil

	case uplc.TypeUnit:
		return uplc.Unit{}, nil

	case uplc.TypeBool:
		b, err := d.r.bit()
		if err != nil {
			return nil, err
		}
		return uplc.Bool{Value: b}, nil

	case uplc.TypeList:
		elem := t.Args[0]
		var items []uplc.Const
		for {
			more, err := d.r.bit()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			item, err := d.constValue(elem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return uplc.NewList(elem, items...), nil

	case uplc.TypePair:
		first, err := d.constValue(t.Args[0])
		if err != nil {
			return nil, err
		}
		second, err := d.constValue(t.Args[1])
		if err != nil {
			return nil, err
		}
		return uplc.Pair{First: first, Second: second}, nil

	case uplc.TypeData:
		b, err := d.r.byteString()
		if err != nil {
			return nil, err
		}
		v, err := plutusdata.Decode(b)
		if err != nil {
			return nil, Error{
				Err:         ErrMalformed,
				Description: fmt.Sprintf("data constant: %v", err),
			}
		}
		return uplc.NewData(v), nil
	}

	str := fmt.Sprintf("unknown constant type %v", t)
	return nil, flatError(ErrMalformed, str)
}

// maxInt is the largest value of an int.
const maxInt = int(^uint(0) >> 1)
