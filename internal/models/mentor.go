package models

// MentorSpec identifies one mentor endpoint under evaluation.
type MentorSpec struct {
	// ID is the mentor's display identifier (e.g. a US state name). It is
	// unique within a run and is used to name the output artifact.
	ID string `json:"id"`

	// Endpoint is the URL of the mentor's chat page.
	Endpoint string `json:"endpoint"`
}
