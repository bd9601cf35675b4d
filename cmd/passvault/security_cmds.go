package main

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/org/passvault/internal/crypto"
	"github.com/org/passvault/internal/security"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random password",
		RunE: func(cmd *cobra.Command, args []string) error {
			length, _ := cmd.Flags().GetInt("length")
			noUpper, _ := cmd.Flags().GetBool("no-upper")
			noLower, _ := cmd.Flags().GetBool("no-lower")
			noDigits, _ := cmd.Flags().GetBool("no-digits")
			noSymbols, _ := cmd.Flags().GetBool("no-symbols")

			password, err := crypto.GeneratePassword(length, crypto.PasswordOptions{
				Upper:   !noUpper,
				Lower:   !noLower,
				Digits:  !noDigits,
				Symbols: !noSymbols,
			})
			if err != nil {
				printError(err.Error())
				return nil
			}

			fmt.Println(password)
			a := security.Analyze(password)
			fmt.Printf("Strength: %s (%.0f bits, crack time %s)\n",
				strengthLabel(a.Level), a.Entropy, a.CrackTimeDisplay)
			return nil
		},
	}
	cmd.Flags().Int("length", 20, "Password length")
	cmd.Flags().Bool("no-upper", false, "Exclude uppercase letters")
	cmd.Flags().Bool("no-lower", false, "Exclude lowercase letters")
	cmd.Flags().Bool("no-digits", false, "Exclude digits")
	cmd.Flags().Bool("no-symbols", false, "Exclude symbols")
	return cmd
}

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Score the vault's security posture",
		RunE: func(cmd *cobra.Command, args []string) error {
			detailed, _ := cmd.Flags().GetBool("detailed")

			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			h := security.ScoreVault(sess.Vault, cfg.OldPasswordDays)

			fmt.Println("Vault health:", healthLabel(h))
			w := newTable()
			fmt.Fprintf(w, "Credentials\t%d\n", h.TotalCredentials)
			fmt.Fprintf(w, "Weak passwords\t%d\n", h.WeakPasswords)
			fmt.Fprintf(w, "Reused passwords\t%d\n", h.ReusedPasswords)
			fmt.Fprintf(w, "Old passwords\t%d\n", h.OldPasswords)
			fmt.Fprintf(w, "Common passwords\t%d\n", h.CommonPasswords)
			fmt.Fprintf(w, "With TOTP\t%d\n", h.WithTOTP)
			fmt.Fprintf(w, "Average age\t%.0f days\n", h.AverageAgeDays)
			w.Flush()

			fmt.Println()
			for _, r := range h.Recommendations {
				fmt.Println("-", r)
			}

			if detailed {
				fmt.Println()
				w := newTable()
				fmt.Fprintln(w, "SERVICE\tSTRENGTH\tAGE\tWARNINGS")
				for _, r := range security.Reports(sess.Vault, cfg.OldPasswordDays) {
					warnings := "-"
					if len(r.Warnings) > 0 {
						warnings = r.Warnings[0]
					}
					fmt.Fprintf(w, "%s\t%s\t%dd\t%s\n",
						r.Service, strengthLabel(r.Level), r.AgeDays, warnings)
				}
				w.Flush()
			}
			return nil
		},
	}
	cmd.Flags().Bool("detailed", false, "Per-credential breakdown")
	return cmd
}

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the vault operation log",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			entries := sess.Vault.AuditLog.Entries()
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries.")
				return nil
			}

			w := newTable()
			fmt.Fprintln(w, "TIME\tOPERATION\tSERVICE")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.RFC3339), e.Operation, e.Service)
			}
			w.Flush()
			return nil
		},
	}
	cmd.Flags().Int("limit", 50, "Show at most n entries, newest last")
	return cmd
}

func totpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totp <service>",
		Short: "Show the current TOTP code for a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			c, err := sess.Vault.Get(args[0])
			if err != nil {
				printError(err.Error())
				return nil
			}
			if c.TOTPSecret == "" {
				printError("no TOTP secret stored for " + args[0])
				return nil
			}

			now := time.Now()
			code, err := security.GenerateTOTPCode(c.TOTPSecret, now)
			if err != nil {
				printError(err.Error())
				return nil
			}
			remaining := 30 - now.Unix()%30
			fmt.Printf("%s (valid %ds)\n", security.FormatTOTPCode(code), remaining)

			if cfg.Clipboard {
				if err := clipboard.WriteAll(code); err == nil {
					printSuccess("Code copied to clipboard.")
				}
			}
			if err := sess.Save(); err != nil {
				printError(err.Error())
			}
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <password>",
		Short: "Analyze a password without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := args[0]

			a := security.Analyze(password)
			w := newTable()
			fmt.Fprintf(w, "Strength\t%s\n", strengthLabel(a.Level))
			fmt.Fprintf(w, "Entropy\t%.1f bits\n", a.Entropy)
			fmt.Fprintf(w, "Crack time\t%s\n", a.CrackTimeDisplay)
			w.Flush()

			for _, warn := range a.Warnings {
				printWarning("! " + warn)
			}
			for _, s := range a.Suggestions {
				fmt.Println("-", s)
			}

			b := security.CheckLocal(password)
			if b.Breached || b.Common {
				printWarning("! " + b.Recommendation)
			} else {
				fmt.Println(b.Recommendation)
			}
			fmt.Println("SHA-1 prefix:", b.HashPrefix)
			return nil
		},
	}
}
