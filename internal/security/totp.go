package security

import (
	"encoding/base32"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/org/passvault/internal/crypto"
)

// totpSecretBytes is the raw secret length before base32 encoding.
const totpSecretBytes = 20

// totpOpts matches the parameters of every mainstream authenticator app.
// Skew 1 accepts the previous and next 30-second step, tolerating modest
// clock drift.
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateTOTPSecret returns a fresh base32-encoded TOTP secret.
func GenerateTOTPSecret() (string, error) {
	raw, err := crypto.GenerateRandomBytes(totpSecretBytes)
	if err != nil {
		return "", fmt.Errorf("generating totp secret: %w", err)
	}
	return base32.StdEncoding.EncodeToString(raw), nil
}

// GenerateTOTPCode returns the six-digit code for the secret at time t.
func GenerateTOTPCode(secret string, t time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(normalizeTOTPSecret(secret), t, totpOpts)
	if err != nil {
		return "", fmt.Errorf("generating totp code: %w", err)
	}
	return code, nil
}

// VerifyTOTPCode reports whether the code is valid for the secret at time
// t, within the configured skew.
func VerifyTOTPCode(secret, code string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, normalizeTOTPSecret(secret), t, totpOpts)
	return err == nil && ok
}

// FormatTOTPCode inserts a space for readability: "123456" -> "123 456".
func FormatTOTPCode(code string) string {
	if len(code) == 6 {
		return code[:3] + " " + code[3:]
	}
	return code
}

// TOTPURI builds an otpauth:// provisioning URI for QR code generation.
func TOTPURI(secret, account, issuer string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.PathEscape(issuer), url.PathEscape(account),
		normalizeTOTPSecret(secret), url.QueryEscape(issuer))
}

// normalizeTOTPSecret uppercases and strips the separators users paste in
// from provisioning screens.
func normalizeTOTPSecret(secret string) string {
	s := strings.ToUpper(secret)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
