package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/org/passvault/internal/crypto"
	"github.com/org/passvault/internal/security"
	"github.com/org/passvault/internal/store"
	"github.com/org/passvault/internal/vault"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := promptNewMasterPassword()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer crypto.Zero(pw)

			if a := security.Analyze(string(pw)); a.Level.IsWeak() {
				printWarning("Warning: the master password scores " + a.Level.String() + ".")
				for _, s := range a.Suggestions {
					printWarning("  " + s)
				}
				if !confirm("Use it anyway?") {
					return nil
				}
			}

			sess, err := store.Init(vaultPath(), pw)
			if err != nil {
				printError(err.Error())
				return nil
			}
			sess.Lock()
			printSuccess("Vault created at " + vaultPath())
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <service>",
		Short: "Add a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := args[0]
			username, _ := cmd.Flags().GetString("username")
			notes, _ := cmd.Flags().GetString("notes")
			url, _ := cmd.Flags().GetString("url")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			generate, _ := cmd.Flags().GetBool("generate")
			length, _ := cmd.Flags().GetInt("length")
			withTOTP, _ := cmd.Flags().GetBool("totp")

			if username == "" {
				username = promptLine("Username")
			}

			var password string
			if generate {
				var err error
				password, err = crypto.GeneratePassword(length, crypto.PasswordOptions{
					Upper: true, Lower: true, Digits: true, Symbols: true,
				})
				if err != nil {
					printError(err.Error())
					return nil
				}
			} else {
				pw, err := promptPassword("Password")
				if err != nil {
					printError(err.Error())
					return nil
				}
				password = string(pw)
				crypto.Zero(pw)
			}

			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			c := vault.NewCredential(service, username, password)
			c.Notes = notes
			c.URL = url
			c.Tags = tags
			if withTOTP {
				secret, err := security.GenerateTOTPSecret()
				if err != nil {
					printError(err.Error())
					return nil
				}
				c.TOTPSecret = secret
				fmt.Println("TOTP secret:", secret)
				fmt.Println("Provisioning URI:", security.TOTPURI(secret, username, "passvault"))
			}
			sess.Vault.Add(c)

			if err := sess.Save(); err != nil {
				printError(err.Error())
				return nil
			}
			if generate {
				fmt.Println("Generated password:", password)
			}
			printSuccess("Added credential for " + service)
			return nil
		},
	}
	cmd.Flags().String("username", "", "Account username")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().String("url", "", "Service URL")
	cmd.Flags().StringSlice("tags", nil, "Tags, comma separated")
	cmd.Flags().Bool("generate", false, "Generate the password")
	cmd.Flags().Int("length", 20, "Generated password length")
	cmd.Flags().Bool("totp", false, "Generate a TOTP secret for this credential")
	return cmd
}

func getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <service>",
		Short: "Retrieve a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show, _ := cmd.Flags().GetBool("show")

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
			// Persist the access stamp and audit entry.
			if err := sess.Save(); err != nil {
				printError(err.Error())
				return nil
			}

			w := newTable()
			fmt.Fprintf(w, "Service\t%s\n", c.Service)
			fmt.Fprintf(w, "Username\t%s\n", c.Username)
			if c.URL != "" {
				fmt.Fprintf(w, "URL\t%s\n", c.URL)
			}
			if c.Notes != "" {
				fmt.Fprintf(w, "Notes\t%s\n", c.Notes)
			}
			fmt.Fprintf(w, "Tags\t%s\n", joinTags(c.Tags))
			if show {
				fmt.Fprintf(w, "Password\t%s\n", c.Password)
			}
			w.Flush()

			if !show {
				if cfg.Clipboard {
					if err := clipboard.WriteAll(c.Password); err != nil {
						printError("copying to clipboard: " + err.Error())
						return nil
					}
					printSuccess("Password copied to clipboard.")
				} else {
					printWarning("Password hidden. Re-run with --show to print it.")
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("show", false, "Print the password instead of copying it")
	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			favorites, _ := cmd.Flags().GetBool("favorites")
			tag, _ := cmd.Flags().GetString("tag")
			recent, _ := cmd.Flags().GetInt("recent")

			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			var creds []*vault.Credential
			switch {
			case favorites:
				creds = sess.Vault.Favorites()
			case tag != "":
				creds = sess.Vault.ByTag(tag)
			case recent > 0:
				creds = sess.Vault.Recent(recent)
			default:
				creds = sess.Vault.Search("")
			}

			if len(creds) == 0 {
				fmt.Println("No credentials.")
				return nil
			}
			printCredentialTable(creds)
			return nil
		},
	}
	cmd.Flags().Bool("favorites", false, "Only favorites")
	cmd.Flags().String("tag", "", "Only credentials with this exact tag")
	cmd.Flags().Int("recent", 0, "Only the n most recently accessed")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search credentials by service, username, or tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			creds := sess.Vault.Search(args[0])
			if len(creds) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			printCredentialTable(creds)
			return nil
		},
	}
}

func printCredentialTable(creds []*vault.Credential) {
	w := newTable()
	fmt.Fprintln(w, "SERVICE\tUSERNAME\tTAGS\tSTRENGTH")
	for _, c := range creds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			c.Service, c.Username, joinTags(c.Tags),
			strengthLabel(security.Analyze(c.Password).Level))
	}
	w.Flush()
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <service>",
		Short: "Update a credential's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			generate, _ := cmd.Flags().GetBool("generate")
			length, _ := cmd.Flags().GetInt("length")

			var password string
			if generate {
				var err error
				password, err = crypto.GeneratePassword(length, crypto.PasswordOptions{
					Upper: true, Lower: true, Digits: true, Symbols: true,
				})
				if err != nil {
					printError(err.Error())
					return nil
				}
			} else {
				pw, err := promptPassword("New password")
				if err != nil {
					printError(err.Error())
					return nil
				}
				password = string(pw)
				crypto.Zero(pw)
			}

			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			if err := sess.Vault.UpdatePassword(args[0], password); err != nil {
				printError(err.Error())
				return nil
			}
			if err := sess.Save(); err != nil {
				printError(err.Error())
				return nil
			}
			if generate {
				fmt.Println("Generated password:", password)
			}
			printSuccess("Updated password for " + args[0])
			return nil
		},
	}
	cmd.Flags().Bool("generate", false, "Generate the new password")
	cmd.Flags().Int("length", 20, "Generated password length")
	return cmd
}

func removeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <service>",
		Short: "Remove a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if !force && !confirm("Remove credential for "+args[0]+"?") {
				return nil
			}

			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			if err := sess.Vault.Remove(args[0]); err != nil {
				printError(err.Error())
				return nil
			}
			if err := sess.Save(); err != nil {
				printError(err.Error())
				return nil
			}
			printSuccess("Removed credential for " + args[0])
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Skip confirmation")
	return cmd
}

func favoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <service>",
		Short: "Toggle a credential's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()

			for i := range sess.Vault.Credentials {
				if sess.Vault.Credentials[i].Service == args[0] {
					sess.Vault.Credentials[i].ToggleFavorite()
					if err := sess.Save(); err != nil {
						printError(err.Error())
						return nil
					}
					if sess.Vault.Credentials[i].Favorite {
						printSuccess(args[0] + " marked as favorite")
					} else {
						printSuccess(args[0] + " unmarked as favorite")
					}
					return nil
				}
			}
			printError(fmt.Sprintf("%s: %s", vault.ErrCredentialNotFound, args[0]))
			return nil
		},
	}
}

func tagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tag", Short: "Manage credential tags"}

	mutate := func(service, tag string, apply func(*vault.Credential, string) bool, verb string) error {
		sess, err := unlockSession()
		if err != nil {
			printError(err.Error())
			return nil
		}
		defer sess.Lock()

		found := false
		for i := range sess.Vault.Credentials {
			if sess.Vault.Credentials[i].Service == service {
				found = true
				if !apply(&sess.Vault.Credentials[i], tag) {
					printWarning("Nothing to do.")
					return nil
				}
				break
			}
		}
		if !found {
			printError(fmt.Sprintf("%s: %s", vault.ErrCredentialNotFound, service))
			return nil
		}
		if err := sess.Save(); err != nil {
			printError(err.Error())
			return nil
		}
		printSuccess(fmt.Sprintf("Tag %q %s %s", tag, verb, service))
		return nil
	}

	addTag := &cobra.Command{
		Use:   "add <service> <tag>",
		Short: "Add a tag to a credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(args[0], args[1], (*vault.Credential).AddTag, "added to")
		},
	}
	removeTag := &cobra.Command{
		Use:   "remove <service> <tag>",
		Short: "Remove a tag from a credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(args[0], args[1], (*vault.Credential).RemoveTag, "removed from")
		},
	}
	listTags := &cobra.Command{
		Use:   "list",
		Short: "List all tags in the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := unlockSession()
			if err != nil {
				printError(err.Error())
				return nil
			}
			defer sess.Lock()
			fmt.Println(strings.Join(sess.Vault.AllTags(), "\n"))
			return nil
		},
	}

	cmd.AddCommand(addTag, removeTag, listTags)
	return cmd
}
