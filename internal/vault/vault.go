// Package vault holds the decrypted data model of one vault file and the
// operations performed on it while unlocked. Nothing here touches disk or
// triggers persistence — saving is the caller's explicit responsibility.
package vault

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/org/passvault/internal/audit"
)

// ErrCredentialNotFound is returned when no credential matches a service.
var ErrCredentialNotFound = errors.New("credential not found")

// Audit operation kinds.
const (
	OpAdd    = "add"
	OpGet    = "get"
	OpUpdate = "update"
	OpRemove = "remove"
)

// Settings is vault configuration consumed by external callers. The core
// persists it but does not interpret it, except for the backup fields the
// store honors on save.
type Settings struct {
	AutoLockTimeoutMinutes int  `json:"auto_lock_timeout_minutes"`
	RequireTOTP            bool `json:"require_totp"`
	BackupEnabled          bool `json:"backup_enabled"`
	BackupCount            int  `json:"backup_count"`
}

// DefaultSettings returns the settings a freshly initialized vault carries.
func DefaultSettings() Settings {
	return Settings{
		AutoLockTimeoutMinutes: 15,
		BackupEnabled:          true,
		BackupCount:            5,
	}
}

// Stats are derived counters over the credential list. They are a cache,
// recomputed on demand, and are never serialized or treated as truth.
type Stats struct {
	TotalCredentials int
	Favorites        int
	WithTOTP         int
	WithHistory      int
	ByTag            map[string]int
}

// Vault is the decrypted contents of one vault file. Credential order is
// insertion order and is stable across save/load.
type Vault struct {
	Credentials []Credential `json:"credentials"`
	Settings    Settings     `json:"settings"`
	AuditLog    audit.Log    `json:"audit_log"`
}

// New returns an empty vault with default settings.
func New() *Vault {
	return &Vault{Settings: DefaultSettings()}
}

// Add appends a credential. Duplicate services are permitted; callers that
// need uniqueness must check first.
func (v *Vault) Add(c Credential) {
	v.Credentials = append(v.Credentials, c)
	v.AuditLog.Record(OpAdd, c.Service)
}

// Get returns the first credential whose service matches exactly.
// Retrieval is a mutating operation with respect to access metadata: it
// stamps last_accessed and records an audit entry.
func (v *Vault) Get(service string) (*Credential, error) {
	for i := range v.Credentials {
		if v.Credentials[i].Service == service {
			v.Credentials[i].MarkAccessed()
			v.AuditLog.Record(OpGet, service)
			return &v.Credentials[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCredentialNotFound, service)
}

// UpdatePassword replaces the password of the first matching credential,
// pushing the superseded value onto its history.
func (v *Vault) UpdatePassword(service, newPassword string) error {
	for i := range v.Credentials {
		if v.Credentials[i].Service == service {
			v.Credentials[i].UpdatePassword(newPassword)
			v.AuditLog.Record(OpUpdate, service)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCredentialNotFound, service)
}

// Remove deletes the first matching credential, wiping its secrets.
func (v *Vault) Remove(service string) error {
	for i := range v.Credentials {
		if v.Credentials[i].Service == service {
			v.Credentials[i].Wipe()
			v.Credentials = append(v.Credentials[:i], v.Credentials[i+1:]...)
			v.AuditLog.Record(OpRemove, service)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCredentialNotFound, service)
}

// Search returns credentials whose service, username, or any tag contains
// the query, case-insensitively, in insertion order.
func (v *Vault) Search(query string) []*Credential {
	q := strings.ToLower(query)
	var out []*Credential
	for i := range v.Credentials {
		c := &v.Credentials[i]
		if strings.Contains(strings.ToLower(c.Service), q) ||
			strings.Contains(strings.ToLower(c.Username), q) ||
			tagsContain(c.Tags, q) {
			out = append(out, c)
		}
	}
	return out
}

func tagsContain(tags []string, q string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Favorites returns credentials flagged as favorite, in insertion order.
func (v *Vault) Favorites() []*Credential {
	var out []*Credential
	for i := range v.Credentials {
		if v.Credentials[i].Favorite {
			out = append(out, &v.Credentials[i])
		}
	}
	return out
}

// Recent returns up to n credentials ordered by last_accessed descending.
// Never-accessed credentials sort as oldest, after every accessed one,
// ties broken by insertion order.
func (v *Vault) Recent(n int) []*Credential {
	out := make([]*Credential, 0, len(v.Credentials))
	for i := range v.Credentials {
		out = append(out, &v.Credentials[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastAccessed, out[j].LastAccessed
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ByTag returns credentials carrying the exact tag, in insertion order.
func (v *Vault) ByTag(tag string) []*Credential {
	var out []*Credential
	for i := range v.Credentials {
		if v.Credentials[i].HasTag(tag) {
			out = append(out, &v.Credentials[i])
		}
	}
	return out
}

// ReusedPasswords groups credentials by password value and returns the
// services of every group of size two or more, keyed by the shared
// password. Credentials with empty passwords are ignored.
func (v *Vault) ReusedPasswords() map[string][]string {
	groups := make(map[string][]string)
	for i := range v.Credentials {
		c := &v.Credentials[i]
		if c.Password != "" {
			groups[c.Password] = append(groups[c.Password], c.Service)
		}
	}
	for pw, services := range groups {
		if len(services) < 2 {
			delete(groups, pw)
		}
	}
	return groups
}

// OldPasswords returns credentials whose password is older than
// thresholdDays.
func (v *Vault) OldPasswords(thresholdDays int) []*Credential {
	var out []*Credential
	for i := range v.Credentials {
		if v.Credentials[i].IsOld(thresholdDays) {
			out = append(out, &v.Credentials[i])
		}
	}
	return out
}

// AllTags returns every distinct tag in the vault, sorted.
func (v *Vault) AllTags() []string {
	seen := make(map[string]struct{})
	for i := range v.Credentials {
		for _, t := range v.Credentials[i].Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// ComputeStats derives counters from the credential list. It is a pure
// function of the credentials — there is no incremental state to drift.
func (v *Vault) ComputeStats() Stats {
	s := Stats{
		TotalCredentials: len(v.Credentials),
		ByTag:            make(map[string]int),
	}
	for i := range v.Credentials {
		c := &v.Credentials[i]
		if c.Favorite {
			s.Favorites++
		}
		if c.TOTPSecret != "" {
			s.WithTOTP++
		}
		if len(c.PasswordHistory) > 0 {
			s.WithHistory++
		}
		for _, t := range c.Tags {
			s.ByTag[t]++
		}
	}
	return s
}

// Wipe drops every credential's secret fields. Called by the store when
// the session locks; the audit log is metadata and survives in memory
// until the vault itself is released.
func (v *Vault) Wipe() {
	for i := range v.Credentials {
		v.Credentials[i].Wipe()
	}
	v.Credentials = nil
}
