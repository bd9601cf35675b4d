package security

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"sync"
)

// commonPasswords is a small corpus of the most common leaked passwords.
// It backs both the exact-match common check and the local breach corpus.
var commonPasswords = []string{
	"password", "123456", "12345678", "qwerty", "abc123", "monkey",
	"1234567", "letmein", "trustno1", "dragon", "baseball", "111111",
	"iloveyou", "master", "sunshine", "ashley", "bailey", "passw0rd",
	"shadow", "123123", "654321", "superman", "qazwsx", "michael",
	"football", "welcome", "jesus", "ninja", "mustang", "password1",
	"123456789", "admin", "welcome1", "login", "admin123", "root",
	"toor", "pass", "test", "guest", "changeme", "password123",
	"qwerty123", "hello", "1234", "12345", "123",
}

// IsCommonPassword reports whether the password, lowercased, is an exact
// match in the common password corpus.
func IsCommonPassword(password string) bool {
	lower := strings.ToLower(password)
	for _, p := range commonPasswords {
		if p == lower {
			return true
		}
	}
	return false
}

// SHA1Hex returns the uppercase hex SHA-1 digest of the password, the form
// used by k-anonymity range queries.
func SHA1Hex(password string) string {
	sum := sha1.Sum([]byte(password))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// HashPrefix returns the first five characters of the password's SHA-1
// digest. Only the prefix ever needs to leave the process in a range
// query; the full digest stays local.
func HashPrefix(password string) string {
	return SHA1Hex(password)[:5]
}

// BreachResult describes one password's standing against the local corpus.
type BreachResult struct {
	Breached       bool
	Common         bool
	HashPrefix     string
	Recommendation string
}

var (
	breachOnce   sync.Once
	breachCorpus map[string][]string // SHA-1 prefix -> suffixes
)

// CheckLocal checks a password against the local breach corpus using the
// same prefix/suffix split a remote range query would use. The corpus is
// built lazily from the common password list.
func CheckLocal(password string) BreachResult {
	breachOnce.Do(func() {
		breachCorpus = make(map[string][]string, len(commonPasswords))
		for _, p := range commonPasswords {
			h := SHA1Hex(p)
			breachCorpus[h[:5]] = append(breachCorpus[h[:5]], h[5:])
		}
	})

	hash := SHA1Hex(password)
	prefix, suffix := hash[:5], hash[5:]

	r := BreachResult{
		Common:     IsCommonPassword(password),
		HashPrefix: prefix,
	}
	for _, s := range breachCorpus[prefix] {
		if s == suffix {
			r.Breached = true
			break
		}
	}

	switch {
	case r.Common:
		r.Recommendation = "This is a very common password. Change it immediately!"
	case r.Breached:
		r.Recommendation = "This password appears in known breaches. Change it!"
	case len(password) < 12:
		r.Recommendation = "Password is short. Consider using a longer password."
	default:
		r.Recommendation = "Password appears secure."
	}
	return r
}

// CheckBatch runs CheckLocal over several passwords, keyed by a label the
// caller supplies (typically the service name).
func CheckBatch(passwords map[string]string) map[string]BreachResult {
	out := make(map[string]BreachResult, len(passwords))
	for label, pw := range passwords {
		out[label] = CheckLocal(pw)
	}
	return out
}
