package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAITranscriber sends clips to the Whisper transcription API.
type OpenAITranscriber struct {
	apiKey string
	client openai.Client
}

// NewOpenAITranscriber creates a Whisper API client.
func NewOpenAITranscriber(apiKey string) *OpenAITranscriber {
	return &OpenAITranscriber{
		apiKey: apiKey,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Transcribe transcribes an MP3 clip. lang is an ISO 639-1 code; empty lets
// Whisper detect the language.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, clip []byte, lang string) (string, error) {
	if t.apiKey == "" {
		return "", NewError(KindServiceNotAllowed, errors.New("API key required: set OPENAI_API_KEY or use --openai-api-key"))
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(clip), "speech.mp3", "audio/mpeg"),
		Model: openai.AudioModelWhisper1,
	}
	if lang != "" {
		params.Language = openai.String(lang)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription via Whisper API: %w", err)
	}

	return resp.Text, nil
}
