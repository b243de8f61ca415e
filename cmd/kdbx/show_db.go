package main

import (
	"fmt"
	"strings"

	"github.com/spectralops/kdbx/internal/logging"
	"github.com/spectralops/kdbx/kdbx"
)

func runShowDB(logger logging.Logger, path, password, keyfile string) error {
	db, err := openDatabase(logger, path, passwordFor(password), keyfile)
	if err != nil {
		return err
	}

	printGroup(&db.Root, 0)
	return nil
}

func printGroup(g *kdbx.Group, depth int) {
	fmt.Printf("%s%s/\n", strings.Repeat("  ", depth), g.Name)
	for _, c := range g.Children {
		if c.IsGroup {
			printGroup(c.Group, depth+1)
			continue
		}
		title := c.Entry.Title()
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s%s [%s]\n", strings.Repeat("  ", depth+1), title, c.Entry.UserName())
	}
}
