package main

import (
	"fmt"
	"os"

	"github.com/spectralops/kdbx/internal/logging"
	"github.com/spectralops/kdbx/kdbx"
)

func openDatabase(logger logging.Logger, path, password, keyfile string) (*kdbx.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	key := kdbx.NewDatabaseKey()
	if password != "" {
		key = key.WithPassword(password)
	}
	if keyfile != "" {
		data, rerr := os.ReadFile(keyfile)
		if rerr != nil {
			return nil, fmt.Errorf("could not read keyfile %s: %w", keyfile, rerr)
		}
		if key, err = key.WithKeyfile(data); err != nil {
			return nil, fmt.Errorf("could not parse keyfile %s: %w", keyfile, err)
		}
	}

	logger.WithField("path", path).Debug("opening database")
	db, err := kdbx.NewDecoder(f).Decode(key)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	return db, nil
}
