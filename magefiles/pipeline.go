package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Conventional data layout for pipeline targets. The CLI itself takes
// explicit paths; these targets wire it to the directories Init creates.
const (
	xmlDir    = "data/xml"
	indexFile = "data/index.txt"
	ndjsonOut = "data/trials.ndjson"
)

// Index writes data/index.txt listing every XML file under data/xml,
// sorted, one path per line.
func Index() error {
	var paths []string
	err := filepath.WalkDir(xmlDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".xml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(paths)

	content := strings.Join(paths, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(indexFile, []byte(content), 0o644); err != nil {
		return err
	}
	fmt.Printf("Indexed %d XML files into %s\n", len(paths), indexFile)
	return nil
}

// Extract runs the built CLI over the conventional data layout:
// data/index.txt in, data/trials.ndjson out.
func Extract() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "extract",
		"--index-file", indexFile,
		"--output", ndjsonOut)
}

// Load rebuilds the catalog from the conventional extract output.
func Load() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "load",
		"--input", ndjsonOut)
}

// Pipeline runs index, extract, and load in order.
func Pipeline() {
	mg.SerialDeps(Index, Extract, Load)
}
