package stt

import (
	"context"
	"fmt"
	"net/http"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"kay/pkg/audioconv"
)

// OpenAI sends the recording to the OpenAI transcription endpoint.
type OpenAI struct {
	client   openai.Client
	model    string
	language string
}

// NewOpenAI builds a cloud transcriber. httpClient may be nil.
func NewOpenAI(apiKey string, httpClient *http.Client, model, language string) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAI{
		client:   openai.NewClient(opts...),
		model:    model,
		language: language,
	}
}

func (o *OpenAI) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	path, err := audioconv.TempWAV(pcm16k)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(f, "command.wav", "audio/wav"),
		Model: o.model,
	}
	if o.language != "" && o.language != "auto" {
		params.Language = openai.String(o.language)
	}

	res, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	return res.Text, nil
}
