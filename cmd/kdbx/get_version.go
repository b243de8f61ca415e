package main

import (
	"fmt"
	"os"

	"github.com/spectralops/kdbx/internal/logging"
	"github.com/spectralops/kdbx/kdbx"
)

func runGetVersion(logger logging.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	gen, err := kdbx.PeekGeneration(f)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	fmt.Println(gen.String())
	return nil
}
