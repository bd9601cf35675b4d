package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	password := []byte("CorrectHorseBattery9!")
	salt := []byte("0123456789abcdef0123456789abcdef")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if len(key1) != KeySize {
		t.Fatalf("expected %d-byte key, got %d", KeySize, len(key1))
	}
	if !bytes.Equal(key1, key2) {
		t.Error("same password and salt should derive the same key")
	}
}

func TestDeriveKeyInputSensitivity(t *testing.T) {
	salt := []byte("0123456789abcdef0123456789abcdef")
	key := DeriveKey([]byte("password-one"), salt)

	if bytes.Equal(key, DeriveKey([]byte("password-two"), salt)) {
		t.Error("different passwords should derive different keys")
	}
	otherSalt := []byte("fedcba9876543210fedcba9876543210")
	if bytes.Equal(key, DeriveKey([]byte("password-one"), otherSalt)) {
		t.Error("different salts should derive different keys")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, _ := GenerateRandomBytes(KeySize)
	plaintexts := [][]byte{
		[]byte(""),
		[]byte("x"),
		[]byte("the quick brown fox"),
		bytes.Repeat([]byte{0xAB}, 4096),
	}

	for _, plaintext := range plaintexts {
		ciphertext, nonce, err := Encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if len(nonce) != NonceSize {
			t.Errorf("expected %d-byte nonce, got %d", NonceSize, len(nonce))
		}

		decrypted, err := Decrypt(ciphertext, nonce, key)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if !bytes.Equal(decrypted, plaintext) {
			t.Errorf("round trip mismatch: got %q want %q", decrypted, plaintext)
		}
	}
}

func TestEncryptFreshNonce(t *testing.T) {
	key, _ := GenerateRandomBytes(KeySize)
	plaintext := []byte("same plaintext")

	_, nonce1, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatal(err)
	}
	_, nonce2, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(nonce1, nonce2) {
		t.Error("two encryptions must never share a nonce")
	}
}

func TestDecryptFailsClosed(t *testing.T) {
	key, _ := GenerateRandomBytes(KeySize)
	ciphertext, nonce, err := Encrypt([]byte("sensitive payload"), key)
	if err != nil {
		t.Fatal(err)
	}

	// Flipping any single bit must fail authentication.
	for i := 0; i < len(ciphertext); i++ {
		tampered := append([]byte(nil), ciphertext...)
		tampered[i] ^= 0x01
		if _, err := Decrypt(tampered, nonce, key); err == nil {
			t.Fatalf("tampered byte %d decrypted successfully", i)
		}
	}

	wrongKey, _ := GenerateRandomBytes(KeySize)
	if _, err := Decrypt(ciphertext, nonce, wrongKey); err == nil {
		t.Error("wrong key should fail decryption")
	}

	badNonce, _ := GenerateRandomBytes(NonceSize)
	plaintext, err := Decrypt(ciphertext, badNonce, key)
	if err == nil {
		t.Error("wrong nonce should fail decryption")
	}
	if plaintext != nil {
		t.Error("failed decryption must not return partial output")
	}
}

func TestDecryptErrorIsGeneric(t *testing.T) {
	key, _ := GenerateRandomBytes(KeySize)
	wrongKey, _ := GenerateRandomBytes(KeySize)
	ciphertext, nonce, _ := Encrypt([]byte("data"), key)

	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0xFF

	_, errWrongKey := Decrypt(ciphertext, nonce, wrongKey)
	_, errTampered := Decrypt(tampered, nonce, key)

	// Wrong key and tamper must be indistinguishable to the caller.
	if errWrongKey == nil || errTampered == nil {
		t.Fatal("expected both decryptions to fail")
	}
	if errWrongKey.Error() != errTampered.Error() {
		t.Errorf("error messages differ: %q vs %q", errWrongKey, errTampered)
	}
}

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}
	if len(salt1) != SaltSize {
		t.Errorf("expected %d-byte salt, got %d", SaltSize, len(salt1))
	}
	salt2, _ := GenerateSalt()
	if bytes.Equal(salt1, salt2) {
		t.Error("two salts should not be equal")
	}
}

func TestGeneratePassword(t *testing.T) {
	cases := []struct {
		name    string
		length  int
		opts    PasswordOptions
		allowed string
	}{
		{"all classes", 24, DefaultPasswordOptions(), upperChars + lowerChars + digitChars + symbolChars},
		{"no symbols", 16, PasswordOptions{Upper: true, Lower: true, Digits: true}, upperChars + lowerChars + digitChars},
		{"digits only", 8, PasswordOptions{Digits: true}, digitChars},
		{"single char", 1, PasswordOptions{Lower: true}, lowerChars},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pw, err := GeneratePassword(tc.length, tc.opts)
			if err != nil {
				t.Fatalf("GeneratePassword failed: %v", err)
			}
			if len(pw) != tc.length {
				t.Errorf("expected length %d, got %d", tc.length, len(pw))
			}
			for _, c := range pw {
				if !strings.ContainsRune(tc.allowed, c) {
					t.Errorf("character %q outside enabled classes", c)
				}
			}
		})
	}
}

func TestGeneratePasswordNoCharsets(t *testing.T) {
	if _, err := GeneratePassword(16, PasswordOptions{}); err != ErrNoCharsets {
		t.Errorf("expected ErrNoCharsets, got %v", err)
	}
}

func TestGeneratePasswordInvalidLength(t *testing.T) {
	if _, err := GeneratePassword(0, DefaultPasswordOptions()); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestZero(t *testing.T) {
	b := []byte("secret key material")
	Zero(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}
