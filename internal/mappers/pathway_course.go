package mappers

import (
	"pathways-sync/internal/domain"
)

// PathwayCourseToRecord maps a Path Finder entry into a catalog row.
// Every pathway course is undergraduate.
func PathwayCourseToRecord(id string, raw domain.RawCourse) (domain.CourseRecord, error) {
	subject, err := domain.Require("subject", raw.Subject)
	if err != nil {
		return domain.CourseRecord{}, err
	}
	catalogNumber, err := domain.Require("catalog_number", raw.CatalogNumber)
	if err != nil {
		return domain.CourseRecord{}, err
	}

	return domain.CourseRecord{
		CourseID:   id,
		Career:     string(domain.Undergraduate),
		CourseCode: domain.CourseCode(subject, catalogNumber),
	}, nil
}
