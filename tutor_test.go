package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	return s.reply, s.err
}

func (s *stubGenerator) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

func TestTutorPromptsEmbedInputVerbatim(t *testing.T) {
	gen := &stubGenerator{reply: "answer"}
	tutor := NewTutor(gen, 1, time.Second)
	ctx := context.Background()

	_, err := tutor.AnswerQuestion(ctx, "What is a <div> tag?")
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt(), "Question: What is a <div> tag?")
	assert.Contains(t, gen.lastPrompt(), "HTML tutor for beginners")

	_, err = tutor.GenerateQuiz(ctx, "forms & inputs")
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt(), "Topic: forms & inputs")
	assert.Contains(t, gen.lastPrompt(), "5-question multiple-choice quiz")

	_, err = tutor.ReviewCode(ctx, "<p>hello</P>")
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt(), "Code:\n<p>hello</P>")
	assert.Contains(t, gen.lastPrompt(), "Review:")
}

func TestTutorTrimsOutput(t *testing.T) {
	gen := &stubGenerator{reply: "\n  the answer \t\n"}
	tutor := NewTutor(gen, 1, time.Second)

	got, err := tutor.AnswerQuestion(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)
}

func TestTutorPropagatesBackendError(t *testing.T) {
	backendErr := errors.New("model exploded")
	tutor := NewTutor(&stubGenerator{err: backendErr}, 1, time.Second)

	_, err := tutor.AnswerQuestion(context.Background(), "q")
	assert.ErrorIs(t, err, backendErr)
}

type blockingGenerator struct {
	inflight int64
	maxSeen  int64
	release  chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	cur := atomic.AddInt64(&g.inflight, 1)
	for {
		seen := atomic.LoadInt64(&g.maxSeen)
		if cur <= seen || atomic.CompareAndSwapInt64(&g.maxSeen, seen, cur) {
			break
		}
	}
	defer atomic.AddInt64(&g.inflight, -1)

	select {
	case <-g.release:
		return "done", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestTutorCapsConcurrentGenerations(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	tutor := NewTutor(gen, 2, time.Second)

	const calls = 8
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tutor.AnswerQuestion(context.Background(), "q")
		}()
	}

	// let the goroutines pile up on the semaphore
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&gen.maxSeen), int64(2))
}

func TestTutorGenerateRespectsCancelledContext(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	tutor := NewTutor(gen, 1, time.Minute)

	// occupy the single semaphore slot
	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = tutor.AnswerQuestion(context.Background(), "blocker")
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tutor.AnswerQuestion(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)

	close(gen.release)
}
