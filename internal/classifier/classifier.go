// Package classifier derives a suggested funnel status for a lead from its
// conversation history.
//
// Decide is a stateless transition function over the six funnel statuses: all
// state lives in the Lead passed in, and identical inputs (with a pinned model
// response) produce identical decisions. Any transport or model failure
// degrades to "no change"; the classifier never guesses and never propagates
// an error past its boundary.
package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/transcribe"
	"github.com/gustavo-prezzoti/lead-qualifier/pkg/openai"
)

// KeepCurrentToken is the sentinel the model returns to explicitly decline a
// status change.
const KeepCurrentToken = "KEEP_CURRENT"

// maxImages caps how many image attachments are forwarded for vision
// analysis.
const maxImages = 3

// Fixed content markers substituted during pre-processing and rendering.
// Portuguese, matching the conversation language the model analyzes.
const (
	audioTranscribedPrefix = "[ÁUDIO TRANSCRITO]: "
	audioNotTranscribed    = "[Áudio não transcrito]"
	imageSent              = "[Imagem enviada]"
	emptyMessage           = "[mensagem vazia]"
)

const systemPrompt = `Você é um especialista em qualificação de leads de vendas.
Analise a conversa abaixo e determine o status mais apropriado para o lead.

STATUS POSSÍVEIS:
- NEW: Lead que acabou de entrar, sem interação significativa
- CONTACTED: Lead que foi contactado e respondeu
- QUALIFIED: Lead que demonstrou interesse real no produto/serviço
- MEETING_SCHEDULED: Lead que agendou ou mencionou uma reunião/visita
- WON: Lead convertido (fechou negócio, comprou, assinou)
- LOST: Lead perdido (desistiu, não tem interesse, bloqueou)

REGRAS:
1. Se o lead demonstrou interesse claro, use QUALIFIED
2. Se mencionou agendamento de reunião/visita/consulta, use MEETING_SCHEDULED
3. Se claramente fechou negócio ou confirmou compra, use WON
4. Se desistiu, disse que não quer, ou pediu para não contactar mais, use LOST
5. Se apenas respondeu mas sem demonstrar interesse específico, use CONTACTED
6. Se não há informação suficiente, mantenha o status atual

Se houver imagens na conversa, analise-as para entender o contexto (podem ser prints de comprovantes, produtos de interesse, etc).

Responda APENAS com o nome do status em uma única palavra (NEW, CONTACTED, QUALIFIED, MEETING_SCHEDULED, WON ou LOST).
Se o status atual está correto, responda com: KEEP_CURRENT`

const userPromptTemplate = `
LEAD ATUAL:
- Nome: %s
- Status atual: %s
- Notas: %s

CONVERSA:
%s

Qual deve ser o status deste lead?`

// Classifier calls the language model to decide status transitions.
type Classifier struct {
	ai          openai.Client
	transcriber transcribe.Transcriber
	model       string
	temperature float64
	maxTokens   int64
}

// Option configures the classifier.
type Option func(*Classifier)

// WithModel overrides the chat model used for decisions.
func WithModel(m string) Option {
	return func(c *Classifier) {
		c.model = m
	}
}

// New creates a Classifier.
func New(ai openai.Client, tr transcribe.Transcriber, opts ...Option) *Classifier {
	c := &Classifier{
		ai:          ai,
		transcriber: tr,
		temperature: 0.1,
		maxTokens:   20,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Decide returns the target status for the lead, or ("", false) for no
// change. A lead with zero messages never invokes the model.
func (c *Classifier) Decide(ctx context.Context, lead model.Lead, messages []model.Message) (model.LeadStatus, bool) {
	log := zap.L().With(zap.String("lead_id", lead.ID))

	if len(messages) == 0 {
		log.Debug("classifier: no messages, keeping current status")
		return "", false
	}

	rendered, imageURLs := c.preprocess(ctx, messages)
	if len(imageURLs) > maxImages {
		imageURLs = imageURLs[:maxImages]
	}

	userPrompt := fmt.Sprintf(userPromptTemplate,
		lead.Name,
		lead.Status,
		notesOrDefault(lead.Notes),
		rendered,
	)

	resp, err := c.ai.ChatCompletion(ctx, openai.ChatRequest{
		Model:       c.model,
		System:      systemPrompt,
		Text:        userPrompt,
		ImageURLs:   imageURLs,
		Temperature: &c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		log.Error("classifier: model call failed", zap.Error(err))
		return "", false
	}

	token := strings.ToUpper(strings.TrimSpace(resp.Content))

	if token == KeepCurrentToken {
		log.Debug("classifier: model kept current status")
		return "", false
	}

	status, err := model.ParseLeadStatus(token)
	if err != nil {
		log.Warn("classifier: model returned unknown token", zap.String("token", token))
		return "", false
	}

	if status == lead.Status {
		return "", false
	}

	log.Info("classifier: status change suggested",
		zap.String("from", string(lead.Status)),
		zap.String("to", string(status)),
	)
	return status, true
}

// preprocess fuses the message history into one conversation transcript,
// transcribing audio and collecting image URLs along the way. Messages are
// handled in timestamp order.
func (c *Classifier) preprocess(ctx context.Context, messages []model.Message) (string, []string) {
	ordered := make([]model.Message, len(messages))
	copy(ordered, messages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	var imageURLs []string
	lines := make([]string, 0, len(ordered))

	for _, msg := range ordered {
		content := msg.Content

		switch {
		case msg.IsAudio() && msg.MediaURL != "":
			if text, ok := c.transcriber.Transcribe(ctx, msg.MediaURL); ok {
				content = audioTranscribedPrefix + text
			} else {
				content = audioNotTranscribed
			}
		case msg.IsImage() && msg.MediaURL != "":
			imageURLs = append(imageURLs, msg.MediaURL)
			if content == "" {
				content = imageSent
			}
		}

		// Empty content becomes a marker at render time only.
		if content == "" {
			content = emptyMessage
		}

		sender := "LEAD"
		if msg.FromMe {
			sender = "EMPRESA"
		}
		lines = append(lines, fmt.Sprintf("[%s]: %s", sender, content))
	}

	return strings.Join(lines, "\n"), imageURLs
}

func notesOrDefault(notes string) string {
	if notes == "" {
		return "Nenhuma"
	}
	return notes
}
