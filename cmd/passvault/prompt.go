package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swappable so prompts can be scripted in tests.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(label string) ([]byte, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	pw, err := readPassword()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return pw, nil
}

// promptNewMasterPassword asks twice and insists the entries match.
func promptNewMasterPassword() ([]byte, error) {
	pw, err := promptPassword("Master password")
	if err != nil {
		return nil, err
	}
	confirm, err := promptPassword("Confirm master password")
	if err != nil {
		return nil, err
	}
	if string(pw) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	for i := range confirm {
		confirm[i] = 0
	}
	return pw, nil
}

// promptLine reads one line of input with echo.
func promptLine(label string) string {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

// confirm asks a yes/no question, defaulting to no.
func confirm(question string) bool {
	answer := strings.ToLower(promptLine(question + " [y/N]"))
	return answer == "y" || answer == "yes"
}
