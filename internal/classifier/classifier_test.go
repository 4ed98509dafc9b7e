package classifier

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
	"github.com/gustavo-prezzoti/lead-qualifier/pkg/openai"
)

type mockOpenAIClient struct {
	mock.Mock
}

func (m *mockOpenAIClient) ChatCompletion(ctx context.Context, req openai.ChatRequest) (*openai.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatResponse), args.Error(1)
}

func (m *mockOpenAIClient) Transcribe(ctx context.Context, req openai.TranscriptionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// stubTranscriber returns a fixed transcript, or a miss when ok is false.
type stubTranscriber struct {
	text  string
	ok    bool
	calls int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioURL string) (string, bool) {
	s.calls++
	return s.text, s.ok
}

func pinResponse(ai *mockOpenAIClient, content string) {
	ai.On("ChatCompletion", mock.Anything, mock.AnythingOfType("openai.ChatRequest")).
		Return(&openai.ChatResponse{Content: content}, nil)
}

func lastRequest(ai *mockOpenAIClient) openai.ChatRequest {
	calls := ai.Calls
	return calls[len(calls)-1].Arguments.Get(1).(openai.ChatRequest)
}

func TestDecide_NoMessages(t *testing.T) {
	ai := &mockOpenAIClient{}
	c := New(ai, &stubTranscriber{})

	_, changed := c.Decide(context.Background(), model.Lead{ID: "l1", Status: model.StatusNew}, nil)

	assert.False(t, changed)
	ai.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
}

func TestDecide_StatusChange(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "MEETING_SCHEDULED")
	c := New(ai, &stubTranscriber{})

	lead := model.Lead{ID: "l1", Name: "Maria", Status: model.StatusNew}
	msgs := []model.Message{
		{Content: "Quero agendar uma visita", FromMe: false, Timestamp: 100},
	}

	status, changed := c.Decide(context.Background(), lead, msgs)

	require.True(t, changed)
	assert.Equal(t, model.StatusMeetingScheduled, status)

	req := lastRequest(ai)
	assert.Contains(t, req.Text, "[LEAD]: Quero agendar uma visita")
	assert.Contains(t, req.Text, "Status atual: NEW")
	assert.Contains(t, req.Text, "Notas: Nenhuma")
}

func TestDecide_KeepCurrentSentinel(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "KEEP_CURRENT")
	c := New(ai, &stubTranscriber{})

	_, changed := c.Decide(context.Background(),
		model.Lead{ID: "l1", Status: model.StatusContacted},
		[]model.Message{{Content: "ok", Timestamp: 1}},
	)

	assert.False(t, changed)
}

func TestDecide_SameStatusResponse(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "CONTACTED")
	c := New(ai, &stubTranscriber{})

	_, changed := c.Decide(context.Background(),
		model.Lead{ID: "l1", Status: model.StatusContacted},
		[]model.Message{{Content: "ok", Timestamp: 1}},
	)

	assert.False(t, changed)
}

func TestDecide_UnknownToken(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "MAYBE_LATER")
	c := New(ai, &stubTranscriber{})

	_, changed := c.Decide(context.Background(),
		model.Lead{ID: "l1", Status: model.StatusNew},
		[]model.Message{{Content: "hmm", Timestamp: 1}},
	)

	assert.False(t, changed)
}

func TestDecide_ModelFailure(t *testing.T) {
	ai := &mockOpenAIClient{}
	ai.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	c := New(ai, &stubTranscriber{})

	_, changed := c.Decide(context.Background(),
		model.Lead{ID: "l1", Status: model.StatusNew},
		[]model.Message{{Content: "oi", Timestamp: 1}},
	)

	assert.False(t, changed)
}

func TestDecide_ResponseNormalization(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "  qualified\n")
	c := New(ai, &stubTranscriber{})

	status, changed := c.Decide(context.Background(),
		model.Lead{ID: "l1", Status: model.StatusNew},
		[]model.Message{{Content: "tenho interesse", Timestamp: 1}},
	)

	require.True(t, changed)
	assert.Equal(t, model.StatusQualified, status)
}

func TestDecide_ImageCap(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "KEEP_CURRENT")
	c := New(ai, &stubTranscriber{})

	var msgs []model.Message
	for i := 0; i < 5; i++ {
		msgs = append(msgs, model.Message{
			MessageType: "imageMessage",
			MediaURL:    "https://cdn.example.com/img" + string(rune('a'+i)) + ".jpg",
			Timestamp:   int64(i),
		})
	}

	c.Decide(context.Background(), model.Lead{ID: "l1", Status: model.StatusNew}, msgs)

	req := lastRequest(ai)
	assert.Len(t, req.ImageURLs, 3)
	assert.Equal(t, "https://cdn.example.com/imga.jpg", req.ImageURLs[0])
	// Every image message with empty content is rendered as the image marker.
	assert.Equal(t, 5, strings.Count(req.Text, "[Imagem enviada]"))
}

func TestDecide_AudioTranscribed(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "KEEP_CURRENT")
	tr := &stubTranscriber{text: "quero marcar amanhã", ok: true}
	c := New(ai, tr)

	msgs := []model.Message{
		{MessageType: "ptt", MediaURL: "https://cdn.example.com/v.ogg", Timestamp: 1},
	}
	c.Decide(context.Background(), model.Lead{ID: "l1", Status: model.StatusNew}, msgs)

	req := lastRequest(ai)
	assert.Contains(t, req.Text, "[ÁUDIO TRANSCRITO]: quero marcar amanhã")
	assert.Equal(t, 1, tr.calls)
}

func TestDecide_AudioNotTranscribed(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "KEEP_CURRENT")
	c := New(ai, &stubTranscriber{ok: false})

	msgs := []model.Message{
		{MessageType: "ptt", MediaURL: "https://cdn.example.com/v.ogg", Timestamp: 1},
	}
	_, changed := c.Decide(context.Background(), model.Lead{ID: "l1", Status: model.StatusNew}, msgs)

	// Degraded text still reaches the model; this is not an error path.
	assert.False(t, changed)
	req := lastRequest(ai)
	assert.Contains(t, req.Text, "[Áudio não transcrito]")
}

func TestDecide_RenderOrderAndMarkers(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "KEEP_CURRENT")
	c := New(ai, &stubTranscriber{})

	msgs := []model.Message{
		{Content: "segunda resposta", FromMe: false, Timestamp: 300},
		{Content: "Olá, tudo bem?", FromMe: true, Timestamp: 100},
		{Content: "", FromMe: false, Timestamp: 200},
	}
	c.Decide(context.Background(), model.Lead{ID: "l1", Status: model.StatusNew}, msgs)

	req := lastRequest(ai)
	want := "[EMPRESA]: Olá, tudo bem?\n[LEAD]: [mensagem vazia]\n[LEAD]: segunda resposta"
	assert.Contains(t, req.Text, want)
}

func TestDecide_Idempotent(t *testing.T) {
	ai := &mockOpenAIClient{}
	pinResponse(ai, "WON")
	c := New(ai, &stubTranscriber{})

	lead := model.Lead{ID: "l1", Status: model.StatusQualified}
	msgs := []model.Message{{Content: "fechado, pode emitir o contrato", Timestamp: 1}}

	s1, ok1 := c.Decide(context.Background(), lead, msgs)
	s2, ok2 := c.Decide(context.Background(), lead, msgs)

	assert.Equal(t, s1, s2)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, model.StatusWon, s1)
}
