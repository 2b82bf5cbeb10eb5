package query

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cast"
)

// Attributes resolves attribute names of a queried object.
type Attributes func(name string) (interface{}, bool)

// Node is a parsed predicate evaluated against object attributes.
type Node interface {
	Eval(attrs Attributes) (bool, error)
}

type and struct {
	operands []Node
}

func (n *and) Eval(attrs Attributes) (bool, error) {
	for _, o := range n.operands {
		ok, err := o.Eval(attrs)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

type or struct {
	operands []Node
}

func (n *or) Eval(attrs Attributes) (bool, error) {
	for _, o := range n.operands {
		ok, err := o.Eval(attrs)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

type not struct {
	operand Node
}

func (n *not) Eval(attrs Attributes) (bool, error) {
	ok, err := n.operand.Eval(attrs)
	return !ok, err
}

type comparison struct {
	attr  string
	op    string
	value string
}

func (n *comparison) Eval(attrs Attributes) (bool, error) {
	v, ok := attrs(n.attr)
	if !ok {
		return false, nil
	}

	if fv, err := cast.ToFloat64E(v); err == nil {
		if fc, err := cast.ToFloat64E(n.value); err == nil {
			return compare(fv, fc, n.op)
		}
	}
	sv, err := cast.ToStringE(v)
	if err != nil {
		return false, fmt.Errorf("attribute %q: %w", n.attr, err)
	}
	if n.op == "==" || n.op == "!=" {
		m, err := path.Match(n.value, sv)
		if err != nil {
			return false, fmt.Errorf("attribute %q: %w", n.attr, err)
		}
		return m == (n.op == "=="), nil
	}
	return compare(sv, n.value, n.op)
}

func compare[T float64 | string](a, b T, op string) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case ">":
		return a > b, nil
	case "<=":
		return a <= b, nil
	case ">=":
		return a >= b, nil
	}
	return false, fmt.Errorf("unknown operator %q", op)
}

// Query is a parsed object query: a set of type name patterns plus
// an optional attribute predicate.
type Query struct {
	types []string
	cond  Node
}

// MatchType checks a DXF type name against the type patterns.
// Patterns are matched case insensitive and support the shell
// wildcards of path.Match.
func (q *Query) MatchType(typ string) bool {
	for _, p := range q.types {
		if p == "*" {
			return true
		}
		if ok, _ := path.Match(strings.ToUpper(p), strings.ToUpper(typ)); ok {
			return true
		}
	}
	return false
}

// Match evaluates the complete query for an object given by its
// type name and attribute resolver.
func (q *Query) Match(typ string, attrs Attributes) (bool, error) {
	if !q.MatchType(typ) {
		return false, nil
	}
	if q.cond == nil {
		return true, nil
	}
	return q.cond.Eval(attrs)
}
