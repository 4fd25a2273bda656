package orchestration

import (
	"github.com/rs/zerolog/log"
	"github.com/spboyer/mentorqa/internal/config"
	"github.com/spboyer/mentorqa/internal/models"
	"github.com/spboyer/mentorqa/internal/workbook"
)

// ConfigSource supplies the mentors and the question battery for a run.
type ConfigSource interface {
	Mentors() ([]models.MentorSpec, error)
	Questions() ([]string, error)
}

// WorkbookSource reads mentors and questions from spreadsheet files.
type WorkbookSource struct {
	ConfigPath     string
	QuestionsPath  string
	MentorLayout   workbook.Layout
	QuestionLayout workbook.Layout
}

// NewWorkbookSource returns a source for the files and layouts in cfg.
func NewWorkbookSource(cfg *config.RunConfig) *WorkbookSource {
	return &WorkbookSource{
		ConfigPath:     cfg.ConfigPath(),
		QuestionsPath:  cfg.QuestionsPath(),
		MentorLayout:   cfg.MentorLayout(),
		QuestionLayout: cfg.QuestionLayout(),
	}
}

func (s *WorkbookSource) Mentors() ([]models.MentorSpec, error) {
	mentors, stats, err := workbook.LoadMentors(s.ConfigPath, s.MentorLayout)
	if err != nil {
		return nil, err
	}
	log.Info().Int("mentors", stats.Included).Int("skipped_rows", stats.Skipped).Str("sheet", s.MentorLayout.Sheet).Msg("loaded mentors")
	return mentors, nil
}

func (s *WorkbookSource) Questions() ([]string, error) {
	path := s.QuestionsPath
	if path == "" {
		path = s.ConfigPath
	}
	questions, stats, err := workbook.LoadQuestions(path, s.QuestionLayout)
	if err != nil {
		return nil, err
	}
	log.Info().Int("questions", stats.Included).Int("skipped_rows", stats.Skipped).Str("file", path).Msg("loaded questions")
	return questions, nil
}
