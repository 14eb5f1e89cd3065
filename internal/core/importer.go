package core

// importer.go turns a parsed sheet into creatable inputs and row errors.
//
// Rows are independent: a bad row is reported and skipped, the rest carry
// on. Nothing here touches a Store; Service.Import inserts the valid
// inputs in one BulkCreate call.

import (
	"strings"
)

// ImportRequest is one uploaded file plus its import options.
type ImportRequest struct {
	FileName string
	Data     []byte
	Tags     []string // Added to every imported row
	DryRun   bool     // Validate only, insert nothing
}

// RowError describes one rejected row.
type RowError struct {
	Row   int    `json:"row"`
	Data  Row    `json:"data"`
	Error string `json:"error"`
}

// ImportResult summarizes an import.
type ImportResult struct {
	Success    bool       `json:"success"`
	Imported   int        `json:"imported"`
	Failed     int        `json:"failed"`
	Businesses []Business `json:"businesses"`
	Errors     []RowError `json:"errors"`
	DryRun     bool       `json:"dryRun,omitempty"`
}

// Partial reports whether some rows were rejected.
func (r *ImportResult) Partial() bool {
	return r.Failed > 0
}

// ImportPlan is the outcome of mapping and validating every row.
type ImportPlan struct {
	Valid  []BusinessInput
	Errors []RowError
}

// PlanImport maps, tags and validates every data row of sheet, in order.
func PlanImport(sheet *Sheet, batchTags []string) ImportPlan {
	plan := ImportPlan{Errors: []RowError{}}
	batchTags = MergeTags(batchTags)

	for _, row := range sheet.Rows {
		in := MapRow(row.Cells)
		in.Tags = MergeTags(batchTags, in.Tags)
		in = in.Normalize()

		if missing := in.MissingRequired(); len(missing) > 0 {
			plan.Errors = append(plan.Errors, RowError{
				Row:   row.Line,
				Data:  row.Cells,
				Error: "Missing required fields: " + strings.Join(missing, ", "),
			})
			continue
		}

		if err := in.Validate(); err != nil {
			plan.Errors = append(plan.Errors, RowError{
				Row:   row.Line,
				Data:  row.Cells,
				Error: err.Error(),
			})
			continue
		}

		plan.Valid = append(plan.Valid, in)
	}
	return plan
}
