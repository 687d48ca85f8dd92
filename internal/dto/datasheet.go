package dto

// ExportDataSheetQuery holds the raw export parameters. Columns and
// SubmissionIDs accept repeated keys as well as comma separated values.
type ExportDataSheetQuery struct {
	Type          string   `form:"type"`
	Format        string   `form:"format"`
	Month         *int     `form:"month"`
	Year          *int     `form:"year"`
	Columns       []string `form:"columns"`
	SubmissionIDs []string `form:"submissionIds"`
}
