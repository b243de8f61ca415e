package main

import (
	"fmt"
	"os"

	"github.com/spectralops/kdbx/internal/logging"
	"github.com/spectralops/kdbx/kdbx"
)

func runRewrite(logger logging.Logger, path, out, password, keyfile string) error {
	db, err := openDatabase(logger, path, passwordFor(password), keyfile)
	if err != nil {
		return err
	}
	return saveDatabase(logger, db, out, passwordFor(password), keyfile)
}

func saveDatabase(logger logging.Logger, db *kdbx.Database, out, password, keyfile string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", out, err)
	}
	defer f.Close()

	key := kdbx.NewDatabaseKey()
	if password != "" {
		key = key.WithPassword(password)
	}
	if keyfile != "" {
		data, rerr := os.ReadFile(keyfile)
		if rerr != nil {
			return fmt.Errorf("could not read keyfile %s: %w", keyfile, rerr)
		}
		if key, err = key.WithKeyfile(data); err != nil {
			return fmt.Errorf("could not parse keyfile %s: %w", keyfile, err)
		}
	}

	logger.WithField("path", out).Debug("writing database")
	if err := kdbx.NewEncoder(f).Encode(db, key); err != nil {
		return fmt.Errorf("could not encode %s: %w", out, err)
	}
	return nil
}
