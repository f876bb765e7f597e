package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/study-tracker-api/internal/constants"
)

// AIService generates habit suggestions with OpenAI
type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestHabitNames asks the model for short daily habits that serve goal
func (s *AIService) SuggestHabitNames(ctx context.Context, goal string) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You help a study group plan daily habits.

Goal:
%s

Suggest up to %d short daily habits that help reach the goal.
Return a JSON array of strings, for example:
["Read 20 pages", "Review flashcards"]

Rules:
- Each habit must be doable once per day
- Keep each habit under 30 characters
- Return [] if the goal gives nothing to work with
- Return only the JSON array, no explanation`, goal, constants.MaxSuggestedHabits)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseHabitNames(resp.Choices[0].Message.Content)
}

// parseHabitNames decodes the model's JSON array, tolerating a markdown fence
func parseHabitNames(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var names []string
	if err := json.Unmarshal([]byte(content), &names); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return names, nil
}
