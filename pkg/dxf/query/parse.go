package query

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// The query syntax follows the pattern
//
//	names [ '[' condition ']' ]
//
// with names being a blank separated list of type name patterns
// ('*' selects all types) and condition a boolean expression over
// attribute comparisons:
//
//	condition: andterm { '|' andterm }
//	andterm:   term { '&' term }
//	term:      '!' term | '(' condition ')' | comparison
//	comparison: attr ( '==' | '!=' | '<' | '>' | '<=' | '>=' ) literal
//	literal:   quoted string | number | name
type parser struct {
	in      []byte
	offset  int
	no      int
	current rune
}

func newParser(in string) *parser {
	p := &parser{
		in: []byte(in),
	}
	p.Next()
	return p
}

func (s *parser) Next() rune {
	if s.offset >= len(s.in) {
		s.current = 0
		return 0
	}
	r, size := utf8.DecodeRune(s.in[s.offset:])
	s.current = r
	s.offset += size
	s.no++
	return r
}

func (s *parser) ParseRune(r rune) error {
	if s.Current() != r {
		return s.Errorf("%q expected", string(r))
	}
	s.Next()
	return nil
}

func (s *parser) Current() rune {
	return s.current
}

func (s *parser) Position() int {
	return s.no
}

func (s *parser) Errorf(msg string, args ...interface{}) error {
	return fmt.Errorf("%q %d: %s", string(s.in), s.Position(), fmt.Sprintf(msg, args...))
}

func (s *parser) SkipBlank() rune {
	n := s.Current()
	for unicode.IsSpace(n) {
		n = s.Next()
	}
	return n
}

////////////////////////////////////////////////////////////////////////////////

func isName(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '*' || r == '?'
}

func (s *parser) parseName() (string, error) {
	n := s.SkipBlank()
	if !isName(n) {
		return "", s.Errorf("name expected, but found %q", string(n))
	}
	name := ""
	for isName(n) {
		name = name + string(n)
		n = s.Next()
	}
	return name, nil
}

func (s *parser) parseLiteral() (string, error) {
	n := s.SkipBlank()
	if n == '\'' || n == '"' {
		quote := n
		value := ""
		for {
			n = s.Next()
			if n == 0 {
				return "", s.Errorf("unterminated string literal")
			}
			if n == utf8.RuneError {
				return "", s.Errorf("invalid character in string literal")
			}
			if n == quote {
				s.Next()
				return value, nil
			}
			value = value + string(n)
		}
	}
	if unicode.IsDigit(n) || n == '-' || n == '.' {
		value := ""
		for unicode.IsDigit(n) || n == '-' || n == '.' {
			value = value + string(n)
			n = s.Next()
		}
		return value, nil
	}
	return s.parseName()
}

func (s *parser) parseCondition() (Node, error) {
	o1, err := s.parseAndTerm()
	if err != nil {
		return nil, err
	}
	operands := []Node{o1}
	for s.SkipBlank() == '|' {
		s.Next()
		o, err := s.parseAndTerm()
		if err != nil {
			return nil, err
		}
		operands = append(operands, o)
	}
	if len(operands) == 1 {
		return o1, nil
	}
	return &or{operands}, nil
}

func (s *parser) parseAndTerm() (Node, error) {
	o1, err := s.parseTerm()
	if err != nil {
		return nil, err
	}
	operands := []Node{o1}
	for s.SkipBlank() == '&' {
		s.Next()
		o, err := s.parseTerm()
		if err != nil {
			return nil, err
		}
		operands = append(operands, o)
	}
	if len(operands) == 1 {
		return o1, nil
	}
	return &and{operands}, nil
}

func (s *parser) parseTerm() (Node, error) {
	switch s.SkipBlank() {
	case '!':
		s.Next()
		o, err := s.parseTerm()
		if err != nil {
			return nil, err
		}
		return &not{o}, nil
	case '(':
		s.Next()
		o, err := s.parseCondition()
		if err != nil {
			return nil, err
		}
		err = s.ParseRune(')')
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return s.parseComparison()
	}
}

func (s *parser) parseComparison() (Node, error) {
	attr, err := s.parseName()
	if err != nil {
		return nil, err
	}
	op := ""
	switch s.SkipBlank() {
	case '=', '!':
		op = string(s.Current())
		if s.Next() != '=' {
			return nil, s.Errorf("'=' expected after %q", op)
		}
		op += "="
		s.Next()
	case '<', '>':
		op = string(s.Current())
		if s.Next() == '=' {
			op += "="
			s.Next()
		}
	default:
		return nil, s.Errorf("comparison operator expected, but found %q", string(s.Current()))
	}
	value, err := s.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &comparison{attr: attr, op: op, value: value}, nil
}

// Parse parses a query expression.
func Parse(in string) (*Query, error) {
	p := newParser(in)

	q := &Query{}
	for isName(p.SkipBlank()) {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		q.types = append(q.types, name)
	}
	if len(q.types) == 0 {
		return nil, p.Errorf("type name pattern expected")
	}
	if p.SkipBlank() == '[' {
		p.Next()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		err = p.ParseRune(']')
		if err != nil {
			return nil, err
		}
		q.cond = cond
	}
	if p.SkipBlank() != 0 {
		return nil, p.Errorf("unexpected character %q", string(p.Current()))
	}
	return q, nil
}
