package main

import (
	"fmt"

	"github.com/pquerna/otp"

	"github.com/spectralops/kdbx/internal/logging"
)

const otpFieldKey = "otp"

// runShowOTP prints an entry's configured otp field. Generating the live
// TOTP code is external-collaborator territory (the caller's own TOTP
// client), so this only parses and displays the otpauth:// URL's issuer,
// account and secret for inspection.
func runShowOTP(logger logging.Logger, path, entryTitle, password, keyfile string) error {
	db, err := openDatabase(logger, path, passwordFor(password), keyfile)
	if err != nil {
		return err
	}

	for _, e := range db.IterAllEntries() {
		if e.Title() != entryTitle {
			continue
		}
		uri := e.GetContent(otpFieldKey)
		if uri == "" {
			return fmt.Errorf("entry %q has no otp field", entryTitle)
		}
		key, err := otp.NewKeyFromURL(uri)
		if err != nil {
			fmt.Println(uri)
			return nil
		}
		fmt.Printf("issuer=%s account=%s secret=%s\n", key.Issuer(), key.AccountName(), key.Secret())
		return nil
	}
	return fmt.Errorf("no entry titled %q", entryTitle)
}
