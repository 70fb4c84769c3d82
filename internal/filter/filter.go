// Package filter implements the boolean expression language used to narrow
// flow queries.
//
// The grammar is deliberately permissive: keywords are case-insensitive,
// `and`/`or` fold strictly left to right with no precedence climbing,
// unrecognized keys match every flow, and malformed or truncated input
// degrades to a partial or always-true predicate instead of a parse error.
// Filter strings in the wild rely on this behavior.
package filter

import (
	"strconv"
	"strings"

	"FlowScope/internal/model"
)

// Node is one predicate in the compiled filter tree. Matching is
// deterministic and free of side effects.
type Node interface {
	Match(f *model.Flow) bool
}

// All matches every flow. It is the compilation result of an empty
// expression and the store's initial active filter.
var All Node = allNode{}

type allNode struct{}

func (allNode) Match(*model.Flow) bool { return true }

type andNode struct{ l, r Node }

func (n andNode) Match(f *model.Flow) bool { return n.l.Match(f) && n.r.Match(f) }

type orNode struct{ l, r Node }

func (n orNode) Match(f *model.Flow) bool { return n.l.Match(f) || n.r.Match(f) }

// eqNode compares one key against one value.
type eqNode struct {
	key   string
	value string
}

func (n eqNode) Match(f *model.Flow) bool {
	switch n.key {
	case "proto":
		return strconv.Itoa(f.Protocol) == n.value ||
			(strings.EqualFold(n.value, "tcp") && f.IsTCP()) ||
			(strings.EqualFold(n.value, "udp") && f.IsUDP())
	case "src":
		return f.Src == n.value
	case "dst":
		return f.Dst == n.value
	case "sport":
		return f.SrcPort == atoiOr(n.value, 0)
	case "dport":
		return f.DstPort == atoiOr(n.value, 0)
	default:
		// Unrecognized keys are not an error; they match everything.
		return true
	}
}

// inNode tests set membership. Note that proto is not handled here: only
// src, dst, sport and dport are recognized, anything else never matches.
type inNode struct {
	key    string
	values []string
}

func (n inNode) Match(f *model.Flow) bool {
	switch n.key {
	case "src":
		return containsString(n.values, f.Src)
	case "dst":
		return containsString(n.values, f.Dst)
	case "sport":
		return containsPort(n.values, f.SrcPort)
	case "dport":
		return containsPort(n.values, f.DstPort)
	default:
		return false
	}
}

// And combines two predicates; both must match.
func And(l, r Node) Node { return andNode{l: l, r: r} }

// Compile parses an expression into a predicate tree. It never fails: blank
// input and unparsable tail tokens compile to All.
func Compile(expr string) Node {
	if strings.TrimSpace(expr) == "" {
		return All
	}
	return parseExpr(newTokens(expr))
}

// parseExpr folds terms joined by and/or strictly left to right, so
// `a or b and c` means `(a or b) and c`.
func parseExpr(q *tokens) Node {
	acc := parseTerm(q)
	for {
		op, ok := q.peek()
		if !ok {
			break
		}
		switch strings.ToLower(op) {
		case "and":
			q.next()
			acc = andNode{l: acc, r: parseTerm(q)}
		case "or":
			q.next()
			acc = orNode{l: acc, r: parseTerm(q)}
		default:
			return acc
		}
	}
	return acc
}

func parseTerm(q *tokens) Node {
	t, ok := q.next()
	if !ok {
		return All
	}
	if t == "(" {
		inner := parseExpr(q)
		q.next() // consume ')'
		return inner
	}

	key := strings.ToLower(t)
	op, ok := q.next()
	if !ok {
		return All
	}
	switch strings.ToLower(op) {
	case "=":
		val, _ := q.next()
		return eqNode{key: key, value: stripQuotes(val)}
	case "in":
		q.next() // consume '('
		var vals []string
		for {
			s, ok := q.next()
			if !ok || s == ")" {
				break
			}
			if s == "," {
				continue
			}
			vals = append(vals, stripQuotes(s))
		}
		return inNode{key: key, values: vals}
	default:
		return All
	}
}

// tokens is a token queue over a whitespace-split expression. Parentheses
// are padded with spaces first so they never glue to adjacent tokens.
type tokens struct {
	toks []string
	pos  int
}

func newTokens(expr string) *tokens {
	padded := strings.ReplaceAll(expr, "(", " ( ")
	padded = strings.ReplaceAll(padded, ")", " ) ")
	return &tokens{toks: strings.Fields(padded)}
}

func (q *tokens) peek() (string, bool) {
	if q.pos >= len(q.toks) {
		return "", false
	}
	return q.toks[q.pos], true
}

func (q *tokens) next() (string, bool) {
	t, ok := q.peek()
	if ok {
		q.pos++
	}
	return t, ok
}

// stripQuotes removes one leading and one trailing double quote.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func containsString(vals []string, s string) bool {
	for _, v := range vals {
		if v == s {
			return true
		}
	}
	return false
}

func containsPort(vals []string, port int) bool {
	for _, v := range vals {
		if atoiOr(v, 0) == port {
			return true
		}
	}
	return false
}
