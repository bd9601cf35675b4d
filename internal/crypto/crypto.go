package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Derivation is deliberately slow (on the order of
// seconds) to make offline guessing expensive. Never weaken these, never
// cache derived keys across calls.
const (
	argonMemory      = 64 * 1024 // KiB
	argonIterations  = 3
	argonParallelism = 4
)

const (
	// KeySize is the derived key length (AES-256).
	KeySize = 32
	// SaltSize is the key-derivation salt length.
	SaltSize = 32
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
)

// ErrDecrypt is returned for every decryption failure. Wrong key and
// tampered ciphertext are deliberately indistinguishable.
var ErrDecrypt = errors.New("decryption failed")

// ErrNoCharsets is returned by GeneratePassword when every character
// class is disabled.
var ErrNoCharsets = errors.New("no character classes enabled")

// DeriveKey derives a 256-bit key from a master password and salt using
// Argon2id. The same password and salt always yield the same key.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonIterations, argonMemory, argonParallelism, KeySize)
}

// Encrypt seals plaintext with AES-256-GCM under a freshly generated random
// nonce. Returns ciphertext and nonce separately; the nonce must be stored
// alongside the ciphertext and must never be reused with the same key.
func Encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("creating GCM: %w", err)
	}
	nonce = make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generating nonce: %w", err)
	}
	ciphertext = gcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt opens AES-256-GCM ciphertext. Any failure — wrong key, corrupted
// or tampered data, bad nonce — is reported as ErrDecrypt with no partial
// output and no detail about the cause.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecrypt
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecrypt
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, ErrDecrypt
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// GenerateRandomBytes returns n bytes from the OS CSPRNG.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return b, nil
}

// GenerateSalt returns a new random key-derivation salt. A vault's salt is
// generated once at creation and reused for every subsequent unlock.
func GenerateSalt() ([]byte, error) {
	return GenerateRandomBytes(SaltSize)
}

// Character classes for password generation.
const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{}|;:,.<>?"
)

// PasswordOptions selects which character classes GeneratePassword
// samples from. Each class is independently toggleable.
type PasswordOptions struct {
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

// DefaultPasswordOptions enables every character class.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{Upper: true, Lower: true, Digits: true, Symbols: true}
}

// GeneratePassword returns a random password of the given length, sampled
// uniformly from the union of the enabled character classes using the OS
// CSPRNG. Disabling every class is a caller error (ErrNoCharsets); there is
// no fallback to a weaker generator.
func GeneratePassword(length int, opts PasswordOptions) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("invalid password length %d", length)
	}

	var charset string
	if opts.Upper {
		charset += upperChars
	}
	if opts.Lower {
		charset += lowerChars
	}
	if opts.Digits {
		charset += digitChars
	}
	if opts.Symbols {
		charset += symbolChars
	}
	if charset == "" {
		return "", ErrNoCharsets
	}

	// rand.Int is uniform over [0, max) — no modulo bias.
	max := big.NewInt(int64(len(charset)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("sampling charset: %w", err)
		}
		buf[i] = charset[n.Int64()]
	}
	out := string(buf)
	Zero(buf)
	return out, nil
}

// Zero overwrites b with zeros. Call it on every exit path of any scope
// that owns key material or decrypted plaintext.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
