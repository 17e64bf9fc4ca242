package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint with
// fixed sampling parameters.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

func NewOpenAIGenerator(apiKey, baseURL, model string, temperature float64, maxTokens int64) *OpenAIGenerator {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(g.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Tutor formats the tutoring prompts and forwards them to the generation
// backend. In-flight calls are capped by a semaphore; the default cap of 1
// serializes requests against a backend that is not known to handle
// concurrent generation.
type Tutor struct {
	gen     Generator
	sem     chan struct{}
	timeout time.Duration
}

func NewTutor(gen Generator, maxConcurrent int, timeout time.Duration) *Tutor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Tutor{gen: gen, sem: make(chan struct{}, maxConcurrent), timeout: timeout}
}

// AnswerQuestion answers a free-form HTML question as a patient tutor.
func (t *Tutor) AnswerQuestion(ctx context.Context, query string) (string, error) {
	prompt := "You are a friendly and patient HTML tutor for beginners. " +
		"Explain HTML concepts clearly, provide examples, and answer questions simply. " +
		"If the user asks for code, give well-commented sample HTML. " +
		"If asked about errors, explain fixes step-by-step.\n\n" +
		fmt.Sprintf("Question: %s\n\nAnswer:", query)
	return t.generate(ctx, prompt)
}

// GenerateQuiz asks the model for a 5-question multiple-choice quiz. The
// JSON shape is requested via the prompt only; the output is not validated.
func (t *Tutor) GenerateQuiz(ctx context.Context, topic string) (string, error) {
	prompt := "You are an HTML tutor. Generate a 5-question multiple-choice quiz for beginners " +
		"on the following topic. Each question should have 4 options (A, B, C, D) and indicate the correct answer. " +
		"Format your output as JSON with 'questions', each containing 'question', 'options', and 'answer'.\n\n" +
		fmt.Sprintf("Topic: %s\n\nQuiz:", topic)
	return t.generate(ctx, prompt)
}

// ReviewCode reviews an HTML snippet for errors and improvements.
func (t *Tutor) ReviewCode(ctx context.Context, code string) (string, error) {
	prompt := "You are an expert HTML teacher. Review the following HTML code for errors and improvements. " +
		"Explain any mistakes and suggest corrections in simple terms.\n\n" +
		fmt.Sprintf("Code:\n%s\n\nReview:", code)
	return t.generate(ctx, prompt)
}

func (t *Tutor) generate(ctx context.Context, prompt string) (string, error) {
	select {
	case t.sem <- struct{}{}:
		defer func() { <-t.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	text, err := t.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
