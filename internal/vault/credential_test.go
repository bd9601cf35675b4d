package vault

import (
	"fmt"
	"testing"
	"time"
)

func TestNewCredentialTimestamps(t *testing.T) {
	c := NewCredential("github.com", "alice", "Tr0ub4dor&3")
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Error("timestamps should be set at creation")
	}
	if !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Error("created_at and updated_at should match at creation")
	}
	if c.LastAccessed != nil {
		t.Error("last_accessed should be unset at creation")
	}
}

func TestUpdatePasswordHistory(t *testing.T) {
	c := NewCredential("github.com", "alice", "Tr0ub4dor&3")
	c.UpdatePassword("NewP@ssw0rd1")

	if c.Password != "NewP@ssw0rd1" {
		t.Errorf("password not updated: %s", c.Password)
	}
	if len(c.PasswordHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(c.PasswordHistory))
	}
	if c.PasswordHistory[0].Password != "Tr0ub4dor&3" {
		t.Errorf("expected superseded password as most recent history entry, got %s", c.PasswordHistory[0].Password)
	}
}

func TestHistoryNeverContainsCurrentPassword(t *testing.T) {
	c := NewCredential("svc", "user", "pw-0")
	for i := 1; i <= 7; i++ {
		c.UpdatePassword(fmt.Sprintf("pw-%d", i))
		for _, h := range c.PasswordHistory {
			if h.Password == c.Password {
				t.Fatalf("history contains the current password %q", c.Password)
			}
		}
	}
}

func TestHistoryCap(t *testing.T) {
	c := NewCredential("svc", "user", "pw-0")
	for i := 1; i <= 11; i++ {
		c.UpdatePassword(fmt.Sprintf("pw-%d", i))
	}

	if len(c.PasswordHistory) != 10 {
		t.Fatalf("expected exactly 10 history entries, got %d", len(c.PasswordHistory))
	}
	// Most recent first: pw-10 was superseded last.
	if got := c.PasswordHistory[0].Password; got != "pw-10" {
		t.Errorf("expected pw-10 as newest entry, got %s", got)
	}
	// pw-0, the oldest original value, must have been evicted.
	if got := c.PasswordHistory[9].Password; got != "pw-1" {
		t.Errorf("expected pw-1 as oldest retained entry, got %s", got)
	}
	for _, h := range c.PasswordHistory {
		if h.Password == "pw-0" {
			t.Error("oldest value should have been evicted")
		}
	}
}

func TestUpdatePasswordEmptyCurrent(t *testing.T) {
	c := NewCredential("svc", "user", "")
	c.UpdatePassword("first-real-password")
	if len(c.PasswordHistory) != 0 {
		t.Errorf("empty password should not enter history, got %d entries", len(c.PasswordHistory))
	}
}

func TestTagOperations(t *testing.T) {
	c := NewCredential("svc", "user", "pw")
	if !c.AddTag("work") {
		t.Error("adding a new tag should report a change")
	}
	if c.AddTag("work") {
		t.Error("adding a duplicate tag should not report a change")
	}
	if !c.HasTag("work") {
		t.Error("expected tag to be present")
	}
	if !c.RemoveTag("work") {
		t.Error("removing an existing tag should report a change")
	}
	if c.RemoveTag("work") {
		t.Error("removing an absent tag should not report a change")
	}
}

func TestToggleFavorite(t *testing.T) {
	c := NewCredential("svc", "user", "pw")
	c.ToggleFavorite()
	if !c.Favorite {
		t.Error("first toggle should mark favorite")
	}
	c.ToggleFavorite()
	if c.Favorite {
		t.Error("second toggle should unmark favorite")
	}
}

func TestMarkAccessedDoesNotTouchUpdatedAt(t *testing.T) {
	c := NewCredential("svc", "user", "pw")
	updated := c.UpdatedAt
	c.MarkAccessed()
	if c.LastAccessed == nil {
		t.Fatal("last_accessed should be set")
	}
	if !c.UpdatedAt.Equal(updated) {
		t.Error("retrieval must not change updated_at")
	}
}

func TestIsOld(t *testing.T) {
	c := NewCredential("svc", "user", "pw")
	c.UpdatedAt = time.Now().UTC().Add(-100 * 24 * time.Hour)
	if !c.IsOld(90) {
		t.Error("100-day-old password should be old at a 90-day threshold")
	}
	if c.IsOld(120) {
		t.Error("100-day-old password should not be old at a 120-day threshold")
	}
}

func TestWipe(t *testing.T) {
	c := NewCredential("svc", "user", "pw")
	c.TOTPSecret = "JBSWY3DPEHPK3PXP"
	c.CustomFields = map[string]string{"pin": "1234"}
	c.UpdatePassword("pw2")

	c.Wipe()
	if c.Password != "" || c.TOTPSecret != "" {
		t.Error("secrets should be cleared")
	}
	if len(c.PasswordHistory) != 0 {
		t.Error("history should be cleared")
	}
	if len(c.CustomFields) != 0 {
		t.Error("custom fields should be cleared")
	}
}
