// Package store owns the on-disk encrypted container. It turns a master
// password and a file path into a decrypted in-memory vault, and a vault
// plus key back into a file.
//
// The store assumes exclusive access to the vault file for the duration of
// an unlock/mutate/save cycle. It does not implement file locking: running
// multiple processes against one vault file concurrently is the caller's
// responsibility and may corrupt state.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/org/passvault/internal/crypto"
	"github.com/org/passvault/internal/vault"
)

// Version is the current vault file format version.
const Version = 1

var (
	// ErrVaultExists is returned by Init when the target file exists.
	ErrVaultExists = errors.New("vault already exists")
	// ErrVaultNotFound is returned by Unlock when the file is absent.
	ErrVaultNotFound = errors.New("vault not found")
	// ErrUnlockFailed covers both a wrong master password and a corrupt or
	// tampered file. The two are deliberately conflated: distinguishing
	// them would narrow an attacker's search space.
	ErrUnlockFailed = errors.New("invalid master password or corrupt vault file")
)

// Container is the on-disk representation of a vault. The salt is fixed at
// creation; the nonce is regenerated on every save.
type Container struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
	Version    int    `json:"version"`
}

// Session is one unlocked vault: the decrypted data, the derived key, and
// the salt needed to keep the key derivable on the next unlock. Lock must
// be called on every exit path once a session exists.
type Session struct {
	Path  string
	Vault *vault.Vault

	key  []byte
	salt []byte
}

// Init creates a new encrypted vault at path. It fails with ErrVaultExists
// if the file is already present. The returned session is unlocked.
func Init(path string, masterPassword []byte) (*Session, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrVaultExists, path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking vault path: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating vault directory: %w", err)
		}
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Path:  path,
		Vault: vault.New(),
		key:   crypto.DeriveKey(masterPassword, salt),
		salt:  salt,
	}
	if err := s.Save(); err != nil {
		s.Lock()
		return nil, err
	}
	return s, nil
}

// Unlock reads the container at path, derives the key with the stored
// salt, and decrypts the vault. Decryption and deserialization failures
// are both reported as ErrUnlockFailed.
func Unlock(path string, masterPassword []byte) (*Session, error) {
	c, err := readContainer(path)
	if err != nil {
		return nil, err
	}
	if c.Version != Version {
		return nil, fmt.Errorf("unsupported vault file version %d", c.Version)
	}

	key := crypto.DeriveKey(masterPassword, c.Salt)

	plaintext, err := crypto.Decrypt(c.Ciphertext, c.Nonce, key)
	if err != nil {
		crypto.Zero(key)
		return nil, ErrUnlockFailed
	}

	var v vault.Vault
	if err := json.Unmarshal(plaintext, &v); err != nil {
		crypto.Zero(plaintext)
		crypto.Zero(key)
		return nil, ErrUnlockFailed
	}
	crypto.Zero(plaintext)

	return &Session{
		Path:  path,
		Vault: &v,
		key:   key,
		salt:  append([]byte(nil), c.Salt...),
	}, nil
}

// Save serializes the vault, encrypts it under a freshly generated nonce,
// and writes the container via write-temp-then-rename so a crash mid-write
// cannot leave a torn file. The lock state is unchanged. I/O errors
// surface immediately; nothing is retried.
func (s *Session) Save() error {
	if s.Vault == nil || s.key == nil {
		return errors.New("session is locked")
	}

	plaintext, err := json.Marshal(s.Vault)
	if err != nil {
		return fmt.Errorf("serializing vault: %w", err)
	}
	defer crypto.Zero(plaintext)

	ciphertext, nonce, err := crypto.Encrypt(plaintext, s.key)
	if err != nil {
		return fmt.Errorf("encrypting vault: %w", err)
	}

	data, err := json.Marshal(&Container{
		Salt:       s.salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Version:    Version,
	})
	if err != nil {
		return fmt.Errorf("serializing vault container: %w", err)
	}

	if s.Vault.Settings.BackupEnabled {
		if err := rotateBackups(s.Path, s.Vault.Settings.BackupCount); err != nil {
			return err
		}
	}
	return writeAtomic(s.Path, data)
}

// Lock zeroizes the derived key and wipes the vault's secret fields,
// ending the session. Safe to call more than once.
func (s *Session) Lock() {
	crypto.Zero(s.key)
	s.key = nil
	if s.Vault != nil {
		s.Vault.Wipe()
		s.Vault = nil
	}
}

func readContainer(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrVaultNotFound, path)
		}
		return nil, fmt.Errorf("reading vault file: %w", err)
	}
	var c Container
	if err := json.Unmarshal(data, &c); err != nil {
		// A malformed container is indistinguishable from any other
		// corruption at the public boundary.
		return nil, ErrUnlockFailed
	}
	return &c, nil
}

// writeAtomic writes data to a unique temp file next to path, then renames
// it into place.
func writeAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.tmp.%s", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing vault file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("replacing vault file: %w", err)
	}
	return nil
}

// rotateBackups shifts <path>.bak.1..count-1 up by one and copies the
// current file to <path>.bak.1. A missing current file (first save) is not
// an error.
func rotateBackups(path string, count int) error {
	if count < 1 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading vault file for backup: %w", err)
	}
	for i := count - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.bak.%d", path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, fmt.Sprintf("%s.bak.%d", path, i+1)); err != nil {
			return fmt.Errorf("rotating backup %d: %w", i, err)
		}
	}
	if err := os.WriteFile(fmt.Sprintf("%s.bak.1", path), data, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}
