// Package transcribe turns remote audio assets into text transcripts.
package transcribe

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/pkg/openai"
)

const (
	defaultDownloadTimeout = 60 * time.Second
	defaultLanguage        = "pt"
)

// Transcriber converts a remote audio asset into a transcript. The second
// return is false on any network, decode, or service failure; the caller
// substitutes a placeholder instead of handling an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, bool)
}

// Option configures the transcriber.
type Option func(*WhisperTranscriber)

// WithHTTPClient overrides the download http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *WhisperTranscriber) {
		t.http = hc
	}
}

// WithLanguage overrides the target transcription language.
func WithLanguage(lang string) Option {
	return func(t *WhisperTranscriber) {
		t.language = lang
	}
}

// WhisperTranscriber downloads audio over HTTP and submits it to the Whisper
// speech-to-text endpoint.
type WhisperTranscriber struct {
	ai       openai.Client
	http     *http.Client
	language string
}

// New creates a Whisper-backed transcriber.
func New(ai openai.Client, opts ...Option) *WhisperTranscriber {
	t := &WhisperTranscriber{
		ai:       ai,
		http:     &http.Client{Timeout: defaultDownloadTimeout},
		language: defaultLanguage,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioURL string) (string, bool) {
	if audioURL == "" {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		zap.L().Error("transcribe: create download request", zap.Error(err))
		return "", false
	}

	resp, err := t.http.Do(req)
	if err != nil {
		zap.L().Error("transcribe: download audio", zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Error("transcribe: audio download returned non-2xx",
			zap.Int("status_code", resp.StatusCode),
		)
		return "", false
	}

	// Whisper infers the container from the filename, so stage the payload in
	// a temp file with an extension derived from the URL. The file is removed
	// on every path, including transcription failure.
	tmp, err := os.CreateTemp("", "lead-audio-*"+audioExtension(audioURL))
	if err != nil {
		zap.L().Error("transcribe: create temp file", zap.Error(err))
		return "", false
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		zap.L().Error("transcribe: write temp file", zap.Error(err))
		return "", false
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		zap.L().Error("transcribe: rewind temp file", zap.Error(err))
		return "", false
	}

	text, err := t.ai.Transcribe(ctx, openai.TranscriptionRequest{
		File:     tmp,
		Language: t.language,
	})
	if err != nil {
		zap.L().Error("transcribe: whisper call failed", zap.Error(err))
		return "", false
	}

	text = strings.TrimSpace(text)
	zap.L().Info("transcribe: audio transcribed", zap.Int("chars", len(text)))
	return text, true
}

// audioExtension infers the container format from the URL's trailing token.
// Defaults to ogg, the format the messaging provider uses for voice notes.
func audioExtension(audioURL string) string {
	lower := strings.ToLower(audioURL)
	switch {
	case strings.Contains(lower, "mp3"):
		return ".mp3"
	case strings.Contains(lower, "wav"):
		return ".wav"
	case strings.Contains(lower, "m4a"):
		return ".m4a"
	case strings.Contains(lower, "webm"):
		return ".webm"
	default:
		return ".ogg"
	}
}
