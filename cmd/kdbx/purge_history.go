package main

import (
	"github.com/spectralops/kdbx/internal/logging"
	"github.com/spectralops/kdbx/kdbx"
)

func runPurgeHistory(logger logging.Logger, path, out, password, keyfile string) error {
	db, err := openDatabase(logger, path, passwordFor(password), keyfile)
	if err != nil {
		return err
	}

	purgeGroupHistory(&db.Root)
	return saveDatabase(logger, db, out, passwordFor(password), keyfile)
}

func purgeGroupHistory(g *kdbx.Group) {
	for _, e := range g.Entries() {
		e.History = nil
	}
	for _, sub := range g.Groups() {
		purgeGroupHistory(sub)
	}
}
