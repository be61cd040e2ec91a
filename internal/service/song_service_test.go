package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/lyricarchitect/internal/client"
	"github.com/makeasinger/lyricarchitect/internal/config"
)

// fakeGenerator returns queued replies in order and records every request
type fakeGenerator struct {
	mu       sync.Mutex
	replies  []fakeReply
	requests []client.GenerationRequest
	block    bool
}

type fakeReply struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, req client.GenerationRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	var r fakeReply
	if len(f.replies) > 0 {
		r = f.replies[0]
		f.replies = f.replies[1:]
	}
	block := f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.text, r.err
}

func (f *fakeGenerator) Name() string       { return "fake" }
func (f *fakeGenerator) Model() string      { return "fake-model" }
func (f *fakeGenerator) IsConfigured() bool { return true }

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newService(gen client.Generator, retries int) *SongService {
	return NewSongService(gen, &config.GenerationConfig{Timeout: 5, MaxRetries: retries}, nil)
}

func TestGenerateSongContent_EndToEnd(t *testing.T) {
	idea := "an upbeat 80s synth-pop song about winning a championship"
	gen := &fakeGenerator{replies: []fakeReply{{text: `{"lyrics":"[Verse 1]\nWe ran","styleDescription":"Glossy 80s synth-pop"}`}}}

	res, err := newService(gen, 0).GenerateSongContent(context.Background(), idea)
	require.NoError(t, err)

	require.Equal(t, 1, gen.calls())
	req := gen.requests[0]
	assert.Contains(t, req.Prompt(), idea)
	assert.Equal(t, "fake-model", req.Model())
	assert.Equal(t, client.ResponseFormatJSON, req.ResponseFormat())
	assert.Equal(t, client.Temperature, req.Temperature())

	assert.Equal(t, "[Verse 1]\nWe ran", res.Lyrics)
	assert.Equal(t, "Glossy 80s synth-pop", res.StyleDescription)
}

func TestGenerateSongContent_BlankInputNeverCallsClient(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newService(gen, 1)

	for _, in := range []string{"", "   ", "\n\t "} {
		_, err := svc.GenerateSongContent(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, KindEmptyInput, KindOf(err))
		assert.Equal(t, EmptyInputMessage, UserMessage(err))
	}
	assert.Equal(t, 0, gen.calls())
}

func TestGenerateSongContent_TransportFailure(t *testing.T) {
	cause := errors.New("connection reset")
	gen := &fakeGenerator{replies: []fakeReply{{err: cause}}}

	_, err := newService(gen, 0).GenerateSongContent(context.Background(), "a sea shanty")
	require.Error(t, err)
	assert.Equal(t, KindTransportFailure, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateSongContent_FailuresShareUserMessage(t *testing.T) {
	transport := &fakeGenerator{replies: []fakeReply{{err: &client.StatusError{Provider: "fake", StatusCode: 500}}}}
	malformed := &fakeGenerator{replies: []fakeReply{{text: "not json"}}}
	missing := &fakeGenerator{replies: []fakeReply{{text: `{"lyrics":"A"}`}}}

	var messages []string
	for _, gen := range []*fakeGenerator{transport, malformed, missing} {
		_, err := newService(gen, 0).GenerateSongContent(context.Background(), "a waltz")
		require.Error(t, err)
		messages = append(messages, UserMessage(err))
	}

	for _, m := range messages {
		assert.Equal(t, FailureMessage, m)
	}
}

func TestGenerateSongContent_MalformedAndMissingKinds(t *testing.T) {
	gen := &fakeGenerator{replies: []fakeReply{{text: "not json"}}}
	_, err := newService(gen, 0).GenerateSongContent(context.Background(), "a waltz")
	assert.Equal(t, KindMalformedResponse, KindOf(err))

	gen = &fakeGenerator{replies: []fakeReply{{text: `{"lyrics":"A"}`}}}
	_, err = newService(gen, 0).GenerateSongContent(context.Background(), "a waltz")
	assert.Equal(t, KindMissingField, KindOf(err))
}

func TestGenerateSongContent_RetriesTransientOnce(t *testing.T) {
	gen := &fakeGenerator{replies: []fakeReply{
		{err: &client.StatusError{Provider: "fake", StatusCode: 503}},
		{text: `{"lyrics":"A","styleDescription":"B"}`},
	}}

	res, err := newService(gen, 1).GenerateSongContent(context.Background(), "a lullaby")
	require.NoError(t, err)
	assert.Equal(t, "A", res.Lyrics)
	assert.Equal(t, 2, gen.calls())
}

func TestGenerateSongContent_NoSecondRetry(t *testing.T) {
	gen := &fakeGenerator{replies: []fakeReply{
		{err: &client.StatusError{Provider: "fake", StatusCode: 503}},
		{err: &client.StatusError{Provider: "fake", StatusCode: 503}},
		{text: `{"lyrics":"A","styleDescription":"B"}`},
	}}

	_, err := newService(gen, 5).GenerateSongContent(context.Background(), "a lullaby")
	require.Error(t, err)
	assert.Equal(t, KindTransportFailure, KindOf(err))
	assert.Equal(t, 2, gen.calls())
}

func TestGenerateSongContent_NoRetryOnPermanentError(t *testing.T) {
	gen := &fakeGenerator{replies: []fakeReply{
		{err: &client.StatusError{Provider: "fake", StatusCode: 400}},
		{text: `{"lyrics":"A","styleDescription":"B"}`},
	}}

	_, err := newService(gen, 1).GenerateSongContent(context.Background(), "a lullaby")
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls())
}

func TestGenerateSongContent_NoRetryByDefault(t *testing.T) {
	gen := &fakeGenerator{replies: []fakeReply{
		{err: &client.StatusError{Provider: "fake", StatusCode: 503}},
		{text: `{"lyrics":"A","styleDescription":"B"}`},
	}}

	_, err := newService(gen, 0).GenerateSongContent(context.Background(), "a lullaby")
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls())
}

func TestGenerateSongContent_Timeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	svc := newService(gen, 0)
	svc.timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := svc.GenerateSongContent(context.Background(), "a dirge")
	require.Error(t, err)
	assert.Equal(t, KindTransportFailure, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGenerate_UsesGivenAttemptID(t *testing.T) {
	gen := &fakeGenerator{replies: []fakeReply{{text: "```json\n{\"lyrics\":\"A\",\"styleDescription\":\"B\"}\n```"}}}

	res, err := newService(gen, 0).Generate(context.Background(), "attempt-1", "a polka")
	require.NoError(t, err)
	assert.Equal(t, "B", res.StyleDescription)
	assert.True(t, strings.Contains(gen.requests[0].Prompt(), `"a polka"`))
}

func TestNewSongService_ClampsConfig(t *testing.T) {
	svc := NewSongService(&fakeGenerator{}, &config.GenerationConfig{Timeout: 0, MaxRetries: 3}, nil)
	assert.Equal(t, 120*time.Second, svc.timeout)
	assert.Equal(t, 1, svc.maxRetries)
}
