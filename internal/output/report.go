package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/logt-kuleuven/saspector/internal/regions"
	"github.com/logt-kuleuven/saspector/internal/stats"
)

// SummaryDir is the subdirectory holding the summary tables.
const SummaryDir = "summary"

// ErrDirectoryExists is returned when an output subdirectory is already present.
var ErrDirectoryExists = errors.New("output directory already exists")

// Report is everything written for one genome.
type Report struct {
	Prefix    string
	Regions   regions.Extracted
	Reference stats.ReferenceSummary
	Unmapped  []stats.RegionSummary
}

// Paths lists the files produced by WriteReport under an output root.
type Paths struct {
	ReferenceSummary string
	UnmappedSummary  string
	MappedFASTA      string
	UnmappedFASTA    string
	ConflictFASTA    string
}

// PathsFor returns the output file locations for prefix under root.
func PathsFor(root, prefix string) Paths {
	summary := filepath.Join(root, SummaryDir)
	return Paths{
		ReferenceSummary: filepath.Join(summary, prefix+"_referencesummary.tsv"),
		UnmappedSummary:  filepath.Join(summary, prefix+"_unmapsummary.tsv"),
		MappedFASTA:      filepath.Join(root, prefix+"_mappedregions.fasta"),
		UnmappedFASTA:    filepath.Join(root, prefix+"_unmappedregions.fasta"),
		ConflictFASTA:    filepath.Join(root, prefix+"_conflictregions.fasta"),
	}
}

// MakeFreshDir creates dir, failing with ErrDirectoryExists if it is present.
func MakeFreshDir(dir string) error {
	if err := os.Mkdir(dir, 0755); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", dir, ErrDirectoryExists)
		}
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

// WriteReport writes the two summary tables under root/summary and the
// three region FASTA files under root. The summary directory must not exist.
func WriteReport(root string, rep Report) (Paths, error) {
	paths := PathsFor(root, rep.Prefix)

	if err := MakeFreshDir(filepath.Join(root, SummaryDir)); err != nil {
		return paths, err
	}

	if err := writeFile(paths.ReferenceSummary, func(f *os.File) error {
		tw := NewTabWriter(f, ReferenceColumns)
		if err := tw.WriteHeader(); err != nil {
			return err
		}
		if err := tw.WriteReference(rep.Reference); err != nil {
			return err
		}
		return tw.Flush()
	}); err != nil {
		return paths, fmt.Errorf("write reference summary: %w", err)
	}

	if err := writeFile(paths.UnmappedSummary, func(f *os.File) error {
		tw := NewTabWriter(f, UnmappedColumns())
		if err := tw.WriteHeader(); err != nil {
			return err
		}
		for _, s := range rep.Unmapped {
			if err := tw.WriteRegion(s); err != nil {
				return err
			}
		}
		return tw.Flush()
	}); err != nil {
		return paths, fmt.Errorf("write unmapped summary: %w", err)
	}

	fastas := []struct {
		path    string
		regions []regions.Region
	}{
		{paths.MappedFASTA, rep.Regions.Mapped},
		{paths.UnmappedFASTA, rep.Regions.Unmapped},
		{paths.ConflictFASTA, rep.Regions.Conflict},
	}
	for _, fa := range fastas {
		if err := writeFile(fa.path, func(f *os.File) error {
			fw := NewFASTAWriter(f)
			if err := fw.WriteAll(fa.regions); err != nil {
				return err
			}
			return fw.Flush()
		}); err != nil {
			return paths, fmt.Errorf("write %s: %w", filepath.Base(fa.path), err)
		}
	}

	return paths, nil
}

// writeFile creates path, hands it to fn and always closes it.
func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
