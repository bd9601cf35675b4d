// Package security provides password strength analysis, local breach
// checking, TOTP code handling, and vault health scoring. Everything here
// is pure computation over in-memory data; nothing performs network I/O.
package security

import (
	"fmt"
	"math"
	"strings"
)

// Level is a password strength rating from VeryWeak to VeryStrong.
type Level int

const (
	VeryWeak Level = iota
	Weak
	Fair
	Strong
	VeryStrong
)

func (l Level) String() string {
	switch l {
	case VeryWeak:
		return "Very Weak"
	case Weak:
		return "Weak"
	case Fair:
		return "Fair"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very Strong"
	}
	return "Unknown"
}

// IsWeak reports whether the level is below Strong.
func (l Level) IsWeak() bool {
	return l < Strong
}

// Score thresholds in effective bits of entropy.
const (
	weakThreshold       = 28
	fairThreshold       = 36
	strongThreshold     = 60
	veryStrongThreshold = 80
)

// Pattern penalties, in bits subtracted from the entropy estimate. Applied
// at most once each.
const (
	dictionaryPenalty = 20
	keyboardPenalty   = 15
	repeatPenalty     = 10
	sequencePenalty   = 10
)

// guessesPerSecond models an offline attacker against a slow hash.
const guessesPerSecond = 1e4

// Analysis is the result of scoring one password.
type Analysis struct {
	Level            Level
	Entropy          float64
	CrackTimeSeconds float64
	CrackTimeDisplay string
	Warnings         []string
	Suggestions      []string
}

var keyboardRuns = []string{
	"qwerty", "qwertz", "azerty", "asdfgh", "zxcvbn",
	"asdf", "zxcv", "qaz", "wsx", "1qaz", "2wsx",
}

// Analyze scores a password. The estimate is the lesser of a charset-pool
// estimate and the Shannon entropy of the actual characters, reduced by
// fixed penalties for recognizable patterns.
func Analyze(password string) Analysis {
	if password == "" {
		return Analysis{
			Level:            VeryWeak,
			CrackTimeDisplay: "Instant",
			Warnings:         []string{"Password is empty"},
			Suggestions:      []string{"Use a password of at least 12 characters"},
		}
	}

	entropy := math.Min(poolEntropy(password), ShannonEntropy(password))

	var warnings, suggestions []string
	normalized := normalizeLeet(strings.ToLower(password))

	if containsDictionaryWord(normalized) {
		entropy -= dictionaryPenalty
		warnings = append(warnings, "Contains a common password or word")
		suggestions = append(suggestions, "Avoid dictionary words and common passwords")
	}
	if containsKeyboardRun(normalized) {
		entropy -= keyboardPenalty
		warnings = append(warnings, "Contains a keyboard pattern")
		suggestions = append(suggestions, "Avoid keyboard patterns like qwerty or asdf")
	}
	if hasRepeatedRun(password) {
		entropy -= repeatPenalty
		warnings = append(warnings, "Contains repeated characters")
		suggestions = append(suggestions, "Avoid repeating the same character")
	}
	if hasSequentialRun(password) {
		entropy -= sequencePenalty
		warnings = append(warnings, "Contains a sequential run")
		suggestions = append(suggestions, "Avoid sequences like abc or 123")
	}
	if len(password) < 12 {
		suggestions = append(suggestions, "Use a password of at least 12 characters")
	}
	entropy = math.Max(entropy, 0)

	seconds := math.Pow(2, entropy) / guessesPerSecond

	return Analysis{
		Level:            levelForEntropy(entropy),
		Entropy:          entropy,
		CrackTimeSeconds: seconds,
		CrackTimeDisplay: formatCrackTime(seconds),
		Warnings:         warnings,
		Suggestions:      suggestions,
	}
}

// IsWeak reports whether a password scores below Strong.
func IsWeak(password string) bool {
	return Analyze(password).Level.IsWeak()
}

func levelForEntropy(bits float64) Level {
	switch {
	case bits < weakThreshold:
		return VeryWeak
	case bits < fairThreshold:
		return Weak
	case bits < strongThreshold:
		return Fair
	case bits < veryStrongThreshold:
		return Strong
	default:
		return VeryStrong
	}
}

// poolEntropy assumes each character was drawn uniformly from the union of
// the character classes present.
func poolEntropy(password string) float64 {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	pool := 0
	if lower {
		pool += 26
	}
	if upper {
		pool += 26
	}
	if digit {
		pool += 10
	}
	if symbol {
		pool += 33
	}
	n := len([]rune(password))
	return float64(n) * math.Log2(float64(pool))
}

// ShannonEntropy is the Shannon entropy of the password's character
// distribution, in bits, scaled by its length.
func ShannonEntropy(password string) float64 {
	runes := []rune(password)
	if len(runes) == 0 {
		return 0
	}
	freq := make(map[rune]int)
	for _, r := range runes {
		freq[r]++
	}
	n := float64(len(runes))
	var perChar float64
	for _, count := range freq {
		p := float64(count) / n
		perChar -= p * math.Log2(p)
	}
	return perChar * n
}

var leetReplacer = strings.NewReplacer(
	"0", "o", "1", "l", "3", "e", "4", "a", "5", "s", "7", "t", "@", "a", "$", "s",
)

func normalizeLeet(s string) string {
	return leetReplacer.Replace(s)
}

// containsDictionaryWord checks the normalized password against the common
// password corpus shared with the breach checker.
func containsDictionaryWord(normalized string) bool {
	for _, w := range commonPasswords {
		if len(w) >= 4 && strings.Contains(normalized, w) {
			return true
		}
	}
	return false
}

func containsKeyboardRun(normalized string) bool {
	for _, run := range keyboardRuns {
		if strings.Contains(normalized, run) {
			return true
		}
	}
	return false
}

// hasRepeatedRun reports three or more identical characters in a row.
func hasRepeatedRun(password string) bool {
	runes := []rune(password)
	for i := 2; i < len(runes); i++ {
		if runes[i] == runes[i-1] && runes[i] == runes[i-2] {
			return true
		}
	}
	return false
}

// hasSequentialRun reports three or more consecutive codepoints in a row,
// ascending or descending, such as abc, 123 or cba.
func hasSequentialRun(password string) bool {
	runes := []rune(password)
	for i := 2; i < len(runes); i++ {
		if runes[i] == runes[i-1]+1 && runes[i-1] == runes[i-2]+1 {
			return true
		}
		if runes[i] == runes[i-1]-1 && runes[i-1] == runes[i-2]-1 {
			return true
		}
	}
	return false
}

func formatCrackTime(seconds float64) string {
	switch {
	case seconds < 1:
		return "Instant"
	case seconds < 60:
		return fmt.Sprintf("%.0f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.0f minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%.1f days", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%.1f months", seconds/2592000)
	case seconds < 3153600000:
		return fmt.Sprintf("%.1f years", seconds/31536000)
	default:
		return "Centuries"
	}
}
