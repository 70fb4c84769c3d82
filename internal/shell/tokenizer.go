package shell

import "strings"

// tokenize splits a command line on whitespace, keeping double-quoted spans
// together as single tokens with the quotes removed.
func tokenize(line string) []string {
	var (
		toks    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	flush := func() {
		if started {
			toks = append(toks, cur.String())
			cur.Reset()
			started = false
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case (r == ' ' || r == '\t') && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return toks
}

// kvArgs extracts key=value tokens into a map, lowercasing keys, and returns
// the remaining positional tokens in order.
func kvArgs(toks []string) (map[string]string, []string) {
	kv := make(map[string]string)
	var pos []string
	for _, t := range toks {
		if i := strings.IndexByte(t, '='); i > 0 {
			kv[strings.ToLower(t[:i])] = t[i+1:]
			continue
		}
		pos = append(pos, t)
	}
	return kv, pos
}

// stripQuotes removes a wrapping pair of single or double quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// rest returns the raw remainder of line after the first n whitespace-split
// words, preserving the original spelling (quotes, parentheses).
func rest(line string, n int) string {
	s := strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		j := strings.IndexAny(s, " \t")
		if j < 0 {
			return ""
		}
		s = strings.TrimSpace(s[j:])
	}
	return s
}
