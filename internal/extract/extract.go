// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract streams registry XML documents into NDJSON trial records.
// It reads a newline-delimited path index, parses each document, applies the
// field-mapping contract, and writes one JSON object per document in index
// order. Documents that cannot be read or parsed are skipped, not fatal.
// Implements: docs/ARCHITECTURE § Extraction (E1-E7).
package extract

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/trialstream/internal/fieldmap"
	"github.com/pdiddy/trialstream/internal/xmldoc"
	"github.com/pdiddy/trialstream/pkg/types"
)

// progressInterval is how many emitted records separate progress lines.
// Declared as a var so tests can lower it.
var progressInterval = 1000

// RunSummary holds counts from an extraction run.
type RunSummary struct {
	// Emitted is the number of records written to the output.
	Emitted int

	// Skipped is the number of index lines dropped because the document
	// was missing, unreadable, or malformed.
	Skipped int
}

// Total returns the number of index lines processed.
func (s RunSummary) Total() int {
	return s.Emitted + s.Skipped
}

// Run executes one extraction pass: every path in cfg.IndexFile is parsed
// and emitted to cfg.OutputFile as one NDJSON line, in index order. Records
// are written unbuffered, one Encode call per document. Skips are reported
// to w and counted; they never fail the run. Errors are returned only for
// fatal conditions: an unreadable index, an unwritable output, or a contract
// that does not bind to the record type.
func Run(cfg types.ExtractConfig, fm *fieldmap.Map, w io.Writer) (RunSummary, error) {
	var summary RunSummary

	if err := validateBinding(fm); err != nil {
		return summary, err
	}

	idx, err := os.Open(cfg.IndexFile)
	if err != nil {
		return summary, fmt.Errorf("opening index %s: %w", cfg.IndexFile, err)
	}
	defer idx.Close()

	out, err := os.Create(cfg.OutputFile)
	if err != nil {
		return summary, fmt.Errorf("creating output %s: %w", cfg.OutputFile, err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	scanner := bufio.NewScanner(idx)
	for cfg.MaxRecords < 0 || summary.Emitted < cfg.MaxRecords {
		if !scanner.Scan() {
			break
		}

		path := strings.TrimSpace(scanner.Text())
		if path == "" {
			continue
		}

		doc, err := xmldoc.ParseFile(path)
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", path, err)
			summary.Skipped++
			continue
		}

		rec := buildRecord(doc, path, fm)
		if err := enc.Encode(rec); err != nil {
			return summary, fmt.Errorf("writing record for %s: %w", path, err)
		}
		summary.Emitted++

		if summary.Emitted%progressInterval == 0 {
			fmt.Fprintf(w, "parsed %d records\n", summary.Emitted)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading index %s: %w", cfg.IndexFile, err)
	}

	if err := out.Close(); err != nil {
		return summary, fmt.Errorf("closing output %s: %w", cfg.OutputFile, err)
	}

	fmt.Fprintf(w, "\nemitted: %d, skipped: %d, output: %s\n",
		summary.Emitted, summary.Skipped, cfg.OutputFile)
	return summary, nil
}
