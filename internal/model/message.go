package model

import "strings"

// Message is a single entry in a lead's conversation history, ordered by
// Timestamp (epoch seconds). FromMe distinguishes company-authored messages
// from lead-authored ones.
type Message struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	FromMe      bool   `json:"fromMe"`
	Timestamp   int64  `json:"timestamp"`
	MessageType string `json:"messageType,omitempty"`
	MediaType   string `json:"mediaType,omitempty"`
	MediaURL    string `json:"mediaUrl,omitempty"`
}

// Media token sets for payload classification. Matching is case-insensitive
// substring matching, mirroring the loose type strings the messaging provider
// emits ("ptt", "audio/ogg; codecs=opus", "imageMessage", ...).
var (
	audioMessageTokens = []string{"audio", "ptt"}
	audioMediaTokens   = []string{"audio", "ogg", "mp3"}
	imageMessageTokens = []string{"image", "sticker"}
	imageMediaTokens   = []string{"image", "png", "jpg", "jpeg"}
)

func containsAny(s string, tokens []string) bool {
	if s == "" {
		return false
	}
	s = strings.ToLower(s)
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// IsAudio reports whether the message carries an audio payload.
func (m Message) IsAudio() bool {
	return containsAny(m.MessageType, audioMessageTokens) ||
		containsAny(m.MediaType, audioMediaTokens)
}

// IsImage reports whether the message carries an image payload.
func (m Message) IsImage() bool {
	return containsAny(m.MessageType, imageMessageTokens) ||
		containsAny(m.MediaType, imageMediaTokens)
}
