package security

import (
	"testing"
	"time"

	"github.com/org/passvault/internal/vault"
)

func TestEmptyVaultScoresPerfect(t *testing.T) {
	h := ScoreVault(vault.New(), 90)
	if h.Score != 100 {
		t.Errorf("empty vault should score 100, got %d", h.Score)
	}
	if h.TotalCredentials != 0 {
		t.Errorf("expected 0 credentials, got %d", h.TotalCredentials)
	}
	if len(h.Recommendations) == 0 {
		t.Error("empty vault should still get a recommendation")
	}
}

func TestWeakPasswordsLowerScore(t *testing.T) {
	v := vault.New()
	v.Add(vault.NewCredential("a.com", "u", "password"))

	h := ScoreVault(v, 90)
	if h.WeakPasswords != 1 {
		t.Errorf("expected 1 weak password, got %d", h.WeakPasswords)
	}
	if h.CommonPasswords != 1 {
		t.Errorf("expected 1 common password, got %d", h.CommonPasswords)
	}
	if h.Score >= 100 {
		t.Errorf("weak+common credential should lower the score, got %d", h.Score)
	}
}

func TestScoreMonotoneInProblems(t *testing.T) {
	v := vault.New()
	v.Add(vault.NewCredential("a.com", "u", "Tr0ub4dor&3xK9#mP"))
	before := ScoreVault(v, 90).Score

	v.Add(vault.NewCredential("b.com", "u", "password"))
	after := ScoreVault(v, 90).Score
	if after >= before {
		t.Errorf("adding a problem credential must lower the score: %d -> %d", before, after)
	}

	// Fixing it recovers the score.
	if err := v.UpdatePassword("b.com", "uQ7#vL2!wN9$xK4m"); err != nil {
		t.Fatal(err)
	}
	fixed := ScoreVault(v, 90).Score
	if fixed <= after {
		t.Errorf("fixing the credential must raise the score: %d -> %d", after, fixed)
	}
}

func TestScoreClamped(t *testing.T) {
	v := vault.New()
	for _, svc := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		v.Add(vault.NewCredential(svc+".com", "u", "password"))
	}
	h := ScoreVault(v, 90)
	if h.Score < 0 {
		t.Errorf("score must never go below 0, got %d", h.Score)
	}

	v2 := vault.New()
	c := vault.NewCredential("good.com", "u", "uQ7#vL2!wN9$xK4m")
	c.TOTPSecret = "JBSWY3DPEHPK3PXP"
	v2.Add(c)
	if h2 := ScoreVault(v2, 90); h2.Score > 100 {
		t.Errorf("score must never exceed 100, got %d", h2.Score)
	}
}

func TestReusedPasswordsCounted(t *testing.T) {
	v := vault.New()
	v.Add(vault.NewCredential("a.com", "u", "sh4red!Secret9x"))
	v.Add(vault.NewCredential("b.com", "u", "sh4red!Secret9x"))
	v.Add(vault.NewCredential("c.com", "u", "uQ7#vL2!wN9$xK4m"))

	h := ScoreVault(v, 90)
	if h.ReusedPasswords != 2 {
		t.Errorf("both members of a reuse group count, got %d", h.ReusedPasswords)
	}
}

func TestOldPasswordsCounted(t *testing.T) {
	v := vault.New()
	old := vault.NewCredential("old.com", "u", "uQ7#vL2!wN9$xK4m")
	old.UpdatedAt = time.Now().UTC().Add(-200 * 24 * time.Hour)
	v.Add(old)

	h := ScoreVault(v, 90)
	if h.OldPasswords != 1 {
		t.Errorf("expected 1 old password, got %d", h.OldPasswords)
	}
	if h.AverageAgeDays < 190 {
		t.Errorf("average age should reflect the old credential, got %f", h.AverageAgeDays)
	}
}

func TestCategories(t *testing.T) {
	cases := map[int]string{
		10:  "Critical",
		30:  "Poor",
		50:  "Fair",
		70:  "Good",
		95:  "Excellent",
		100: "Excellent",
	}
	for score, want := range cases {
		h := Health{Score: score}
		if got := h.Category(); got != want {
			t.Errorf("score %d: expected %s, got %s", score, want, got)
		}
	}
}

func TestReports(t *testing.T) {
	v := vault.New()
	v.Add(vault.NewCredential("bad.com", "u", "password"))
	good := vault.NewCredential("good.com", "u", "uQ7#vL2!wN9$xK4m")
	good.TOTPSecret = "JBSWY3DPEHPK3PXP"
	v.Add(good)

	reports := Reports(v, 90)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if !reports[0].Weak || !reports[0].Common {
		t.Error("first credential should be weak and common")
	}
	if len(reports[0].Warnings) == 0 {
		t.Error("problem credential should carry warnings")
	}
	if reports[1].Weak || !reports[1].HasTOTP {
		t.Error("second credential should be strong with TOTP")
	}

	need := NeedingAttention(v, 90)
	if len(need) != 1 || need[0] != "bad.com" {
		t.Errorf("expected only bad.com to need attention, got %v", need)
	}
}
