package main

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pathways-sync/internal/catalog"
	"pathways-sync/internal/domain"
)

func newLookupCmd(a *app) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "lookup <course>...",
		Short: "Print the course id and career of catalog courses",
		Long: `Looks courses up in the catalog by code ("CSE115", "cse 115") or by course id
and prints code,course_id,career,career_name for each one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}
			a.logger.Debug("loaded catalog", "path", catalogPath, "courses", c.Len())

			w := csv.NewWriter(a.out)
			var missing []string
			for _, q := range args {
				rec, ok := c.Find(q)
				if !ok {
					missing = append(missing, q)
					continue
				}
				career := domain.Career(rec.Career)
				if err := w.Write([]string{rec.CourseCode, rec.CourseID, string(career), career.Name()}); err != nil {
					return err
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}

			if len(missing) > 0 {
				return fmt.Errorf("lookup: not in %s: %s", catalogPath, strings.Join(missing, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "data/courses.csv", "catalog csv to search")
	return cmd
}
