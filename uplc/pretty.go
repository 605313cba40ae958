// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"strconv"
	"strings"
)

// Pretty returns t in the textual UPLC syntax.  Binders are named i_0, i_1
// and so on by nesting depth.  Variables escaping every enclosing binder are
// printed as free_<index>.
func Pretty(t Term) string {
	var sb strings.Builder
	writeTerm(&sb, t, 0)
	return sb.String()
}

// PrettyProgram returns p in the textual UPLC syntax.
func PrettyProgram(p *Program) string {
	var sb strings.Builder
	sb.WriteString("(program ")
	sb.WriteString(p.Version.String())
	sb.WriteByte(' ')
	writeTerm(&sb, p.Term, 0)
	sb.WriteByte(')')
	return sb.String()
}

func writeName(sb *strings.Builder, level int) {
	sb.WriteString("i_")
	sb.WriteString(strconv.Itoa(level))
}

func writeTerm(sb *strings.Builder, t Term, depth int) {
	switch t := t.(type) {
	case *Var:
		level := depth - 1 - t.Index
		if level < 0 {
			sb.WriteString("free_")
			sb.WriteString(strconv.Itoa(t.Index))
			return
		}
		writeName(sb, level)

	case *Lambda:
		sb.WriteString("(lam ")
		writeName(sb, depth)
		sb.WriteByte(' ')
		writeTerm(sb, t.Body, depth+1)
		sb.WriteByte(')')

	case *Apply:
		sb.WriteByte('[')
		writeTerm(sb, t.Function, depth)
		sb.WriteByte(' ')
		writeTerm(sb, t.Argument, depth)
		sb.WriteByte(']')

	case *Delay:
		sb.WriteString("(delay ")
		writeTerm(sb, t.Body, depth)
		sb.WriteByte(')')

	case *Force:
		sb.WriteString("(force ")
		writeTerm(sb, t.Body, depth)
		sb.WriteByte(')')

	case *Constant:
		sb.WriteString("(con ")
		sb.WriteString(t.Value.Type().String())
		sb.WriteByte(' ')
		sb.WriteString(t.Value.String())
		sb.WriteByte(')')

	case *Builtin:
		sb.WriteString("(builtin ")
		sb.WriteString(t.Fn.String())
		sb.WriteByte(')')

	case *ErrorTerm:
		sb.WriteString("(error)")

	case *Constr:
		sb.WriteString("(constr ")
		sb.WriteString(strconv.FormatUint(t.Tag, 10))
		for _, f := range t.Fields {
			sb.WriteByte(' ')
			writeTerm(sb, f, depth)
		}
		sb.WriteByte(')')

	case *Case:
		sb.WriteString("(case ")
		writeTerm(sb, t.Scrutinee, depth)
		for _, b := range t.Branches {
			sb.WriteByte(' ')
			writeTerm(sb, b, depth)
		}
		sb.WriteByte(')')

	default:
		sb.WriteString("(unknown)")
	}
}
