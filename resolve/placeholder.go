// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"fmt"
	"iter"
	"strings"
)

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenArg               // %1 .. %9
	tokenPercent           // %%
)

type token struct {
	kind tokenKind
	text string // raw text of the token
	arg  int    // 1-based argument index for tokenArg
}

// tokens splits s into literal runs, %N references and %% escapes.
// A % not followed by a digit 1-9 or another % is literal text.
func tokens(s string) iter.Seq[token] {
	return func(yield func(token) bool) {
		start := 0

		for i := 0; i < len(s); i++ {
			if s[i] != '%' || i+1 == len(s) {
				continue
			}

			var tok token

			switch c := s[i+1]; {
			case c == '%':
				tok = token{kind: tokenPercent, text: "%%"}
			case c >= '1' && c <= '9':
				tok = token{kind: tokenArg, text: s[i : i+2], arg: int(c - '0')}
			default:
				continue
			}

			if start < i && !yield(token{kind: tokenLiteral, text: s[start:i]}) {
				return
			}

			if !yield(tok) {
				return
			}

			i++
			start = i + 1
		}

		if start < len(s) {
			yield(token{kind: tokenLiteral, text: s[start:]})
		}
	}
}

// substitution is the outcome of applying arguments to a string.
type substitution struct {
	text string
	// unmatched counts %N references without a supplied argument.
	unmatched int
	// unused counts supplied arguments never referenced.
	unused int
}

func (s substitution) mismatch() bool {
	return s.unmatched > 0 || s.unused > 0
}

func substitute(s string, args []any) substitution {
	if len(args) == 0 && !strings.Contains(s, "%") {
		return substitution{text: s}
	}

	var (
		b    strings.Builder
		used = make([]bool, len(args))
		out  substitution
	)

	b.Grow(len(s))

	for tok := range tokens(s) {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(tok.text)
		case tokenPercent:
			b.WriteByte('%')
		case tokenArg:
			if tok.arg > len(args) {
				b.WriteString(tok.text)

				out.unmatched++

				continue
			}

			b.WriteString(argString(args[tok.arg-1]))

			used[tok.arg-1] = true
		}
	}

	for _, u := range used {
		if !u {
			out.unused++
		}
	}

	out.text = b.String()

	return out
}

func argString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
