package domain

// CourseRecord is one row of the course catalog CSV.
// Column order is the struct field order: course_id, career, course_code.
type CourseRecord struct {
	CourseID   string `csv:"course_id"`
	Career     string `csv:"career"`
	CourseCode string `csv:"course_code"`
}

// CourseCode joins a subject abbreviation and a catalog number ("CSE" + "115" -> "CSE115").
func CourseCode(subject, catalogNumber string) string {
	return subject + catalogNumber
}

// Row returns the record as CSV fields.
func (c CourseRecord) Row() []string {
	return []string{c.CourseID, c.Career, c.CourseCode}
}
