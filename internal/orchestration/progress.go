package orchestration

import "github.com/spboyer/mentorqa/internal/models"

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventRunStart         EventType = "run_start"
	EventRunComplete      EventType = "run_complete"
	EventMentorStart      EventType = "mentor_start"
	EventMentorComplete   EventType = "mentor_complete"
	EventQuestionStart    EventType = "question_start"
	EventQuestionComplete EventType = "question_complete"
	EventWaiting          EventType = "waiting"
)

// ProgressEvent represents a progress update. Mentor and question numbers
// are 1-based.
type ProgressEvent struct {
	EventType      EventType
	MentorID       string
	MentorNum      int
	TotalMentors   int
	Question       string
	QuestionNum    int
	TotalQuestions int
	Status         models.Status
	DurationMs     int64
	Details        map[string]any
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

func rowDetails(row models.OutputRow) map[string]any {
	return map[string]any{
		"score":    row.Score.String(),
		"response": row.Response,
	}
}
