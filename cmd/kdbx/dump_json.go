package main

import (
	"encoding/json"
	"fmt"

	"github.com/spectralops/kdbx/internal/logging"
)

func runDumpJSON(logger logging.Logger, path, password, keyfile string) error {
	db, err := openDatabase(logger, path, passwordFor(password), keyfile)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(db, "", "\t")
	if err != nil {
		return fmt.Errorf("could not marshal database as json: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
