package main

import (
	"fmt"

	"github.com/spectralops/kdbx/internal/logging"
)

func runDumpXML(logger logging.Logger, path, password, keyfile string) error {
	db, err := openDatabase(logger, path, passwordFor(password), keyfile)
	if err != nil {
		return err
	}

	xmlBytes, err := db.EncodeXML()
	if err != nil {
		return err
	}
	fmt.Println(string(xmlBytes))
	return nil
}
