package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Wildcard is the directory substring-match token.
const Wildcard = "*"

const objectClassAttr = "objectclass"

// Filter is a composable directory query expression rendering to RFC 4515
// filter text.
type Filter interface {
	String() string
}

type eqFilter struct {
	attr  string
	value string
}

func (f eqFilter) String() string {
	return "(" + f.attr + "=" + ldap.EscapeFilter(f.value) + ")"
}

// Eq builds an exact-match predicate. The value is escaped in full.
func Eq(attr, value string) Filter {
	return eqFilter{attr: attr, value: value}
}

type likeFilter struct {
	attr    string
	pattern string
}

func (f likeFilter) String() string {
	return "(" + f.attr + "=" + escapePattern(f.pattern) + ")"
}

// Like builds a substring-match predicate. Wildcards in the pattern are
// preserved; the literal segments between them are escaped.
func Like(attr, pattern string) Filter {
	return likeFilter{attr: attr, pattern: pattern}
}

type setFilter struct {
	op      string
	clauses []Filter
}

func (f setFilter) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(f.op)
	for _, c := range f.clauses {
		b.WriteString(c.String())
	}
	b.WriteString(")")
	return b.String()
}

// And builds a conjunction; every clause must hold.
func And(clauses ...Filter) Filter {
	return setFilter{op: "&", clauses: clauses}
}

// Or builds a disjunction; at least one clause must hold.
func Or(clauses ...Filter) Filter {
	return setFilter{op: "|", clauses: clauses}
}

// NormalizeSearchText turns free-text input into a substring pattern:
// every literal space becomes a wildcard and the pattern always ends with
// one, giving prefix-and-token matching rather than strict equality.
// "Conference Room" becomes "Conference*Room*".
func NormalizeSearchText(text string) string {
	pattern := strings.ReplaceAll(text, " ", Wildcard)
	if !strings.HasSuffix(pattern, Wildcard) {
		pattern += Wildcard
	}
	return pattern
}

func escapePattern(pattern string) string {
	segments := strings.Split(pattern, Wildcard)
	for i, s := range segments {
		segments[i] = ldap.EscapeFilter(s)
	}
	return strings.Join(segments, Wildcard)
}
