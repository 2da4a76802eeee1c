package app

import "quizgenius/internal/domain"

// sampleCreatedAt is fixed so the sample set compares equal across calls.
const sampleCreatedAt int64 = 1735689600000

// SampleQuizzes returns a fresh copy of the built-in quizzes shown when the library is empty.
func SampleQuizzes() []domain.Quiz {
	return []domain.Quiz{
		{
			ID:                "sample-1",
			Title:             "The Rise of Artificial Intelligence",
			Description:       "Test your knowledge on the history and concepts of AI.",
			SourceTextPreview: "Artificial intelligence (AI) is intelligence demonstrated by machines, as opposed to natural intelligence displayed by animals including humans...",
			CreatedAt:         sampleCreatedAt,
			Difficulty:        domain.DifficultyMedium,
			Tags:              []string{"Tech", "AI", "Computer Science"},
			Questions: []domain.Question{
				{
					ID:           "q1",
					Text:         "Who is often considered the father of Artificial Intelligence?",
					Options:      []string{"Alan Turing", "Elon Musk", "Bill Gates", "Steve Jobs"},
					CorrectIndex: 0,
					Explanation:  "Alan Turing's work on the Turing Machine and the Turing Test laid the theoretical foundations for AI.",
				},
				{
					ID:           "q2",
					Text:         "What does 'LLM' stand for in modern AI?",
					Options:      []string{"Large Learning Mechanism", "Large Language Model", "Long Latency Machine", "Linear Logic Module"},
					CorrectIndex: 1,
					Explanation:  "LLMs like Gemini are trained on vast amounts of text data to understand and generate human language.",
				},
				{
					ID:           "q3",
					Text:         "Which type of learning involves an agent learning from rewards and punishments?",
					Options:      []string{"Supervised Learning", "Unsupervised Learning", "Reinforcement Learning", "Deep Learning"},
					CorrectIndex: 2,
					Explanation:  "Reinforcement learning is based on interacting with an environment and receiving feedback in the form of rewards or penalties.",
				},
			},
		},
	}
}
