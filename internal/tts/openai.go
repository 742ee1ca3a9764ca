package tts

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"kay/internal/audio"
)

// OpenAI voices text with the OpenAI speech endpoint and plays the mp3 it
// returns.
type OpenAI struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

// NewOpenAI builds a speech client. httpClient may be nil.
func NewOpenAI(apiKey string, httpClient *http.Client, model, voice string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.SpeechModel(model),
		voice:  openai.SpeechVoice(voice),
	}
}

func (o *OpenAI) Announce(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          o.model,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("create speech: %w", err)
	}

	return audio.PlayMP3(ctx, resp)
}
