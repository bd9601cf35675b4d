package security

import (
	"fmt"

	"github.com/org/passvault/internal/vault"
)

// Per-credential health adjustments. Each problem carries a fixed cost, so
// adding a problem credential can never raise the score and fixing one can
// never lower it.
const (
	healthBaseline = 100

	weakPenalty   = 8
	reusedPenalty = 6
	oldPenalty    = 4
	commonPenalty = 10

	totpBonus   = 2
	strongBonus = 1
)

// Health summarizes the security posture of a whole vault.
type Health struct {
	Score            int
	TotalCredentials int
	WeakPasswords    int
	ReusedPasswords  int
	OldPasswords     int
	CommonPasswords  int
	StrongPasswords  int
	WithTOTP         int
	AverageAgeDays   float64
	Recommendations  []string
}

// Category buckets the score into a coarse label.
func (h Health) Category() string {
	switch {
	case h.Score <= 20:
		return "Critical"
	case h.Score <= 40:
		return "Poor"
	case h.Score <= 60:
		return "Fair"
	case h.Score <= 80:
		return "Good"
	default:
		return "Excellent"
	}
}

// ScoreVault computes the health of a vault. Passwords older than
// oldThresholdDays count as old. An empty vault scores 100.
func ScoreVault(v *vault.Vault, oldThresholdDays int) Health {
	h := Health{
		Score:            healthBaseline,
		TotalCredentials: len(v.Credentials),
	}
	if h.TotalCredentials == 0 {
		h.Recommendations = []string{"Add credentials to start tracking vault health."}
		return h
	}

	reused := make(map[string]bool)
	for pw := range v.ReusedPasswords() {
		reused[pw] = true
	}

	score := healthBaseline
	var totalAge int
	for i := range v.Credentials {
		c := &v.Credentials[i]
		totalAge += c.PasswordAgeDays()

		weak := IsWeak(c.Password)
		if weak {
			h.WeakPasswords++
			score -= weakPenalty
		} else {
			h.StrongPasswords++
			score += strongBonus
		}
		if reused[c.Password] {
			h.ReusedPasswords++
			score -= reusedPenalty
		}
		if c.IsOld(oldThresholdDays) {
			h.OldPasswords++
			score -= oldPenalty
		}
		if IsCommonPassword(c.Password) {
			h.CommonPasswords++
			score -= commonPenalty
		}
		if c.TOTPSecret != "" {
			h.WithTOTP++
			score += totpBonus
		}
	}

	if score < 0 {
		score = 0
	}
	if score > healthBaseline {
		score = healthBaseline
	}
	h.Score = score
	h.AverageAgeDays = float64(totalAge) / float64(h.TotalCredentials)
	h.Recommendations = recommendations(h, oldThresholdDays)
	return h
}

func recommendations(h Health, oldThresholdDays int) []string {
	var out []string
	if h.WeakPasswords > 0 {
		out = append(out, fmt.Sprintf("Update %d weak password(s) to stronger alternatives.", h.WeakPasswords))
	}
	if h.ReusedPasswords > 0 {
		out = append(out, fmt.Sprintf("Change %d reused password(s). Each credential should have a unique password.", h.ReusedPasswords))
	}
	if h.OldPasswords > 0 {
		out = append(out, fmt.Sprintf("Update %d password(s) older than %d days.", h.OldPasswords, oldThresholdDays))
	}
	if h.CommonPasswords > 0 {
		out = append(out, fmt.Sprintf("Replace %d common password(s) immediately!", h.CommonPasswords))
	}
	if h.WithTOTP < h.TotalCredentials/2 {
		out = append(out, "Enable TOTP for more accounts to improve security.")
	}
	if len(out) == 0 {
		out = append(out, "Your vault is in excellent condition. Keep it up.")
	}
	return out
}

// Report is a per-credential security summary.
type Report struct {
	Service  string
	Level    Level
	Weak     bool
	Common   bool
	Reused   bool
	Old      bool
	AgeDays  int
	HasTOTP  bool
	Warnings []string
}

// Reports builds one Report per credential, in vault order.
func Reports(v *vault.Vault, oldThresholdDays int) []Report {
	reused := make(map[string]bool)
	for pw := range v.ReusedPasswords() {
		reused[pw] = true
	}

	out := make([]Report, 0, len(v.Credentials))
	for i := range v.Credentials {
		c := &v.Credentials[i]
		a := Analyze(c.Password)
		r := Report{
			Service: c.Service,
			Level:   a.Level,
			Weak:    a.Level.IsWeak(),
			Common:  IsCommonPassword(c.Password),
			Reused:  reused[c.Password],
			Old:     c.IsOld(oldThresholdDays),
			AgeDays: c.PasswordAgeDays(),
			HasTOTP: c.TOTPSecret != "",
		}
		if r.Common {
			r.Warnings = append(r.Warnings, "Common password - change immediately!")
		}
		if r.Weak {
			r.Warnings = append(r.Warnings, "Weak password strength")
		}
		if r.Reused {
			r.Warnings = append(r.Warnings, "Password reused across services")
		}
		if r.Old {
			r.Warnings = append(r.Warnings, fmt.Sprintf("Password is %d days old", r.AgeDays))
		}
		if !r.HasTOTP {
			r.Warnings = append(r.Warnings, "Consider enabling TOTP")
		}
		out = append(out, r)
	}
	return out
}

// NeedingAttention returns the services whose credentials are weak,
// common, reused, or old.
func NeedingAttention(v *vault.Vault, oldThresholdDays int) []string {
	var out []string
	for _, r := range Reports(v, oldThresholdDays) {
		if r.Weak || r.Common || r.Reused || r.Old {
			out = append(out, r.Service)
		}
	}
	return out
}
