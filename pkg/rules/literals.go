package rules

import "strings"

// Spellings of the numeric literals one and zero that assertion rules
// recognise. Membership is exact: "01", "1_0" or "+1" are not in the sets.
var (
	oneLiterals  = literalSet("1.0", "1", "1L", "1.0f", "1f", "1.0F", "0x1", "0b1")
	zeroLiterals = literalSet("0.0", "0", "0L", "0.0f", "0f", "0.0F", "0x0", "0b0")
)

func literalSet(spellings ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(spellings))
	for _, s := range spellings {
		set[s] = struct{}{}
	}

	return set
}

// IsOneLiteral reports whether text spells the literal one.
func IsOneLiteral(text string) bool {
	_, ok := oneLiterals[strings.TrimSpace(text)]

	return ok
}

// IsZeroLiteral reports whether text spells the literal zero.
func IsZeroLiteral(text string) bool {
	_, ok := zeroLiterals[strings.TrimSpace(text)]

	return ok
}
