package vault

import "time"

// historyCap bounds password_history per credential. Pushing an entry past
// the cap evicts the oldest value.
const historyCap = 10

// HistoryEntry is a superseded password and the moment it was replaced.
type HistoryEntry struct {
	Password  string    `json:"password"`
	ChangedAt time.Time `json:"changed_at"`
}

// Credential is one stored secret. Service identifies it within a vault;
// duplicates are permitted and must be disambiguated by the caller. The
// password is held in memory only while the vault is unlocked and is
// persisted exclusively inside the encrypted payload.
type Credential struct {
	Service         string            `json:"service"`
	Username        string            `json:"username"`
	Password        string            `json:"password"`
	Notes           string            `json:"notes,omitempty"`
	URL             string            `json:"url,omitempty"`
	Tags            []string          `json:"tags"`
	Favorite        bool              `json:"favorite"`
	CustomFields    map[string]string `json:"custom_fields,omitempty"`
	PasswordHistory []HistoryEntry    `json:"password_history"`
	TOTPSecret      string            `json:"totp_secret,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	LastAccessed    *time.Time        `json:"last_accessed,omitempty"`
}

// NewCredential creates a credential with creation and update timestamps
// set to now. CreatedAt is never mutated afterwards.
func NewCredential(service, username, password string) Credential {
	now := time.Now().UTC()
	return Credential{
		Service:   service,
		Username:  username,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdatePassword replaces the current password, pushing the superseded
// value onto the history. A value enters history only at the moment it is
// replaced, so the history never contains the current password.
func (c *Credential) UpdatePassword(newPassword string) {
	now := time.Now().UTC()
	if c.Password != "" {
		c.pushHistory(HistoryEntry{Password: c.Password, ChangedAt: now})
	}
	c.Password = newPassword
	c.UpdatedAt = now
}

// pushHistory prepends an entry (most recent first), evicting the oldest
// once the cap is reached. The backing slice never grows past the cap.
func (c *Credential) pushHistory(e HistoryEntry) {
	if len(c.PasswordHistory) < historyCap {
		c.PasswordHistory = append(c.PasswordHistory, HistoryEntry{})
	}
	copy(c.PasswordHistory[1:], c.PasswordHistory)
	c.PasswordHistory[0] = e
}

// MarkAccessed records a retrieval. Metadata edits must not call this.
func (c *Credential) MarkAccessed() {
	now := time.Now().UTC()
	c.LastAccessed = &now
}

// AddTag appends a tag if not already present. Reports whether the
// credential changed.
func (c *Credential) AddTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return false
		}
	}
	c.Tags = append(c.Tags, tag)
	c.UpdatedAt = time.Now().UTC()
	return true
}

// RemoveTag deletes a tag. Reports whether the credential changed.
func (c *Credential) RemoveTag(tag string) bool {
	for i, t := range c.Tags {
		if t == tag {
			c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// ToggleFavorite flips the favorite flag.
func (c *Credential) ToggleFavorite() {
	c.Favorite = !c.Favorite
	c.UpdatedAt = time.Now().UTC()
}

// HasTag reports whether the credential carries the exact tag.
func (c *Credential) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PasswordAgeDays returns whole days since the password last changed.
func (c *Credential) PasswordAgeDays() int {
	return int(time.Since(c.UpdatedAt).Hours() / 24)
}

// IsOld reports whether the password is older than thresholdDays.
func (c *Credential) IsOld(thresholdDays int) bool {
	return c.PasswordAgeDays() > thresholdDays
}

// Wipe drops every secret field. Go strings are immutable, so this clears
// references for collection rather than overwriting bytes in place; byte
// buffers holding the serialized vault are zeroed separately by the store.
func (c *Credential) Wipe() {
	c.Password = ""
	c.TOTPSecret = ""
	for i := range c.PasswordHistory {
		c.PasswordHistory[i].Password = ""
	}
	c.PasswordHistory = nil
	for k := range c.CustomFields {
		delete(c.CustomFields, k)
	}
}
