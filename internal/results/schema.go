package results

// Column is one column of a results sheet.
type Column struct {
	Name  string
	Width float64
}

// Columns is the results sheet schema, in order starting at column A. The
// first five are written by the pipeline; the rest are left empty for
// manual review.
var Columns = []Column{
	{Name: "Question", Width: 50},
	{Name: "Response", Width: 80},
	{Name: "Timestamp", Width: 20},
	{Name: "Status", Width: 15},
	{Name: "AI Review", Width: 15},
	{Name: "Rating", Width: 15},
	{Name: "If bad response, why?", Width: 25},
	{Name: "Additional Notes", Width: 25},
	{Name: "Fix?", Width: 15},
	{Name: "Ground Truth Version", Width: 25},
	{Name: "Ground Truth Written By", Width: 25},
	{Name: "Date", Width: 15},
}

// Indexes (1-based) of the columns written by the pipeline.
const (
	colQuestion  = 1
	colResponse  = 2
	colTimestamp = 3
	colStatus    = 4
	colScore     = 5
)

const headerRow = 1

// headerFillColor is the grey background of the header row.
const headerFillColor = "CCCCCC"
