package main

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog/log"

	"github.com/org/passvault/internal/crypto"
	"github.com/org/passvault/internal/store"
)

// unlockSession prompts for the master password and opens the vault. Key
// derivation is deliberately slow, so a spinner covers the wait.
func unlockSession() (*store.Session, error) {
	pw, err := promptPassword("Master password")
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(pw)

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr), spinner.WithSuffix(" unlocking vault..."))
	sp.Start()
	sess, err := store.Unlock(vaultPath(), pw)
	sp.Stop()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", sess.Path).Int("credentials", len(sess.Vault.Credentials)).Msg("vault unlocked")
	return sess, nil
}
