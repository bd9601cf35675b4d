package security

import "testing"

func TestSHA1Hex(t *testing.T) {
	hash := SHA1Hex("password")
	if len(hash) != 40 {
		t.Fatalf("SHA-1 hex digest should be 40 characters, got %d", len(hash))
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			t.Fatalf("digest should be uppercase hex, got %q", hash)
		}
	}
	// Known digest of "password".
	if hash != "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8" {
		t.Errorf("unexpected digest %s", hash)
	}
}

func TestHashPrefix(t *testing.T) {
	if p := HashPrefix("password123"); len(p) != 5 {
		t.Errorf("prefix should be 5 characters, got %d", len(p))
	}
}

func TestIsCommonPassword(t *testing.T) {
	for _, pw := range []string{"password", "Password", "123456", "QWERTY"} {
		if !IsCommonPassword(pw) {
			t.Errorf("%q should be common", pw)
		}
	}
	for _, pw := range []string{"Tr0ub4dor&3", "passwords", ""} {
		if IsCommonPassword(pw) {
			t.Errorf("%q should not be common", pw)
		}
	}
}

func TestCheckLocal(t *testing.T) {
	r := CheckLocal("password")
	if !r.Breached {
		t.Error("a corpus password should be flagged as breached")
	}
	if !r.Common {
		t.Error("a corpus password should be flagged as common")
	}
	if len(r.HashPrefix) != 5 {
		t.Errorf("result should carry the 5-character prefix, got %q", r.HashPrefix)
	}
	if r.Recommendation == "" {
		t.Error("recommendation should never be empty")
	}

	r = CheckLocal("kx9!mQ2#vL8$wN4z")
	if r.Breached || r.Common {
		t.Error("a random password should not be flagged")
	}
	if r.Recommendation != "Password appears secure." {
		t.Errorf("unexpected recommendation %q", r.Recommendation)
	}

	r = CheckLocal("Zx9!q")
	if r.Recommendation != "Password is short. Consider using a longer password." {
		t.Errorf("short password should prompt a length recommendation, got %q", r.Recommendation)
	}
}

func TestCheckBatch(t *testing.T) {
	results := CheckBatch(map[string]string{
		"bad.example":  "password",
		"good.example": "kx9!mQ2#vL8$wN4z",
	})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results["bad.example"].Common {
		t.Error("expected the common password to be flagged")
	}
	if results["good.example"].Common {
		t.Error("expected the strong password to pass")
	}
}
