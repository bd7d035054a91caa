// pattern: Functional Core
package config

import "strings"

// SplitCommandLine implements the quoting-split rule of spec §4.B: scan
// left-to-right, a double-quote toggles in-quotes mode, an unescaped space
// or tab outside quotes terminates the current token, other characters
// accumulate. No backslash escaping. Empty tokens are dropped.
func SplitCommandLine(s string) []string {
	args := make([]string, 0)
	var current strings.Builder
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			args = append(args, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return args
}

// JoinCommandLine is the inverse used by the round-trip law of spec §8: it
// joins tokens with a single space, quoting any token that itself contains
// whitespace so that SplitCommandLine(JoinCommandLine(args)) reproduces
// args.
func JoinCommandLine(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			parts[i] = `"` + a + `"`
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
