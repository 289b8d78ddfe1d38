package services

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/hr-training/quiz-service/internal/models"
)

// demoQuestions is the starter set the admin panel offers on an empty bank.
var demoQuestions = []CreateQuestionRequest{
	{
		Category:     models.CategoryAssessment,
		Text:         "What does HTML stand for?",
		Options:      []string{"HyperText Markup Language", "HighText Machine Language", "Hyperlinking Textual Mark Language", "Home Tool Markup Language"},
		CorrectIndex: 0,
	},
	{
		Category:     models.CategoryAssessment,
		Text:         "Which CSS property is used to change the text color?",
		Options:      []string{"font-color", "text-color", "color", "text-style"},
		CorrectIndex: 2,
	},
	{
		Category:     models.CategoryOps,
		Text:         "Which command lists files in Unix/Linux?",
		Options:      []string{"ps", "ls", "cd", "pwd"},
		CorrectIndex: 1,
	},
	{
		Category:     models.CategoryOps,
		Text:         "What does API stand for?",
		Options:      []string{"Application Programming Interface", "Advanced Programming Interface", "Automated Programming Interface", "Application Process Integration"},
		CorrectIndex: 0,
	},
	{
		Category:     models.CategoryHR,
		Text:         "What is the most important skill in teamwork?",
		Options:      []string{"Competition", "Communication", "Individual performance", "Silence"},
		CorrectIndex: 1,
	},
	{
		Category:     models.CategoryHR,
		Text:         "What is the primary goal of performance reviews?",
		Options:      []string{"To criticize employees", "To provide feedback and development", "To reduce salaries", "To create stress"},
		CorrectIndex: 1,
	},
}

func (s *questionService) SeedDemoData(ctx context.Context) ([]*models.Question, error) {
	questions := make([]*models.Question, 0, len(demoQuestions))
	for _, req := range demoQuestions {
		questions = append(questions, &models.Question{
			Category:     req.Category,
			Text:         req.Text,
			Options:      datatypes.NewJSONSlice(req.Options),
			CorrectIndex: req.CorrectIndex,
		})
	}

	if err := s.repo.CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("failed to seed demo questions: %w", err)
	}

	s.invalidatePool(ctx)
	s.logger.Info("demo questions seeded", "count", len(questions))
	return questions, nil
}
