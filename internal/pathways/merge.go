// Package pathways appends the courses of a Path Finder export to a course catalog CSV,
// skipping every course id the catalog already holds.
package pathways

import (
	"context"
	"fmt"

	"pathways-sync/internal/catalog"
	"pathways-sync/internal/domain"
	"pathways-sync/internal/export"
	"pathways-sync/internal/mappers"
	"pathways-sync/internal/providers"
	"pathways-sync/internal/sync"
)

// Result summarizes one merge.
type Result struct {
	Source  string
	Known   int // ids in the catalog before the run
	Seen    int // entries in the export
	Skipped int // entries whose id was already known or repeated
	Added   []domain.CourseRecord
}

type Options struct {
	// DryRun computes the result without touching the catalog.
	DryRun bool
}

// Merge loads the ids already in the catalog at outputPath, reads the export from src and
// appends one row per course id not seen before, in export order.
// Nothing is written unless every step before the append succeeds.
func Merge(ctx context.Context, src providers.PathwaySource, outputPath string, opts Options) (Result, error) {
	res := Result{Source: src.Name()}

	known, err := catalog.LoadKeys(outputPath)
	if err != nil {
		return res, err
	}
	res.Known = known.Len()

	doc, err := src.Pathways(ctx)
	if err != nil {
		return res, err
	}

	added, seen, err := NewCourses(doc, known)
	res.Seen = seen
	if err != nil {
		return res, fmt.Errorf("pathways: %s: %w", src.Name(), err)
	}
	res.Added = added
	res.Skipped = seen - len(added)

	if opts.DryRun {
		return res, nil
	}
	if err := export.AppendCourseCSV(outputPath, added); err != nil {
		return res, err
	}
	return res, nil
}

// NewCourses flattens doc into catalog rows for ids not in known, adding each emitted id to
// known so repeats within the export are dropped too. It also returns how many entries it read.
func NewCourses(doc domain.PathwayDocument, known *sync.KeySet) ([]domain.CourseRecord, int, error) {
	var (
		out  []domain.CourseRecord
		seen int
	)

	for gi, group := range doc.Data {
		for _, named := range group.Courses {
			for ei, raw := range named.Courses {
				seen++

				id, err := domain.Require("course_id", raw.CourseID)
				if err != nil {
					return nil, seen, entryErr(gi, named.Name, ei, err)
				}
				if known.Has(id) {
					continue
				}

				rec, err := mappers.PathwayCourseToRecord(id, raw)
				if err != nil {
					return nil, seen, entryErr(gi, named.Name, ei, err)
				}
				known.Add(id)
				out = append(out, rec)
			}
		}
	}
	return out, seen, nil
}

func entryErr(group int, name string, entry int, err error) error {
	return fmt.Errorf("data[%d].courses[%q][%d]: %w", group, name, entry, err)
}
