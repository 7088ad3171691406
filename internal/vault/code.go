package vault

import (
	"fmt"
	"math/rand"
	"strings"
)

var codeWords = []string{
	"GHOST", "ALPHA", "BRAVO", "TITAN", "VULCAN", "RAPTOR", "SHADOW", "STRIKE",
}

// GenerateCode produces a human-readable family code like "GHOST-7".
func GenerateCode() string {
	word := codeWords[rand.Intn(len(codeWords))]
	return fmt.Sprintf("%s-%d", word, rand.Intn(99))
}

// NormalizeCode canonicalizes user input so "ghost-7 " and "GHOST-7" address
// the same vault.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
