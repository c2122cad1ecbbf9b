package transcriber

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Inline request payloads above this size are rejected by the Gemini API.
const maxInlineAudioBytes = 20 << 20

const transcribePrompt = `Transcribe this recording verbatim%s and identify who is speaking.

Return ONLY a JSON object of the form:
{"segments": [{"start": <seconds>, "end": <seconds>, "speaker": "SPEAKER_00", "text": "..."}]}

Rules:
- start and end are seconds from the beginning of the audio, with two decimals
- speakers are labelled SPEAKER_00, SPEAKER_01, ... in order of first appearance
- one segment per utterance, at most 30 seconds long
- keep hesitations and repetitions, do not translate`

type geminiTranscriber struct {
	apiKeys  []string
	model    string
	language string
	tempDir  string
	logger   logger.Logger

	mu         sync.Mutex
	currentKey int
}

// NewGemini creates a Transcriber that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model, language, tempDir string, log logger.Logger) (Transcriber, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiTranscriber{
		apiKeys:  apiKeys,
		model:    model,
		language: language,
		tempDir:  tempDir,
		logger:   log,
	}, nil
}

func (g *geminiTranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]models.RawSegment, error) {
	wav, err := g.encode(samples, sampleRate)
	if err != nil {
		return nil, err
	}
	if len(wav) > maxInlineAudioBytes {
		return nil, fmt.Errorf("audio is %d bytes, inline limit is %d", len(wav), maxInlineAudioBytes)
	}

	text, err := g.callGemini(ctx, wav)
	if err != nil {
		return nil, err
	}
	return parseSegments([]byte(text), sampleRate)
}

func (g *geminiTranscriber) encode(samples []float32, sampleRate int) ([]byte, error) {
	if g.tempDir != "" {
		if err := os.MkdirAll(g.tempDir, 0o755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	f, err := os.CreateTemp(g.tempDir, "gemini-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := audio.EncodeWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// callGemini sends the audio and returns the raw JSON answer.
// Rotates API keys on 429 / quota errors.
func (g *geminiTranscriber) callGemini(ctx context.Context, wav []byte) (string, error) {
	language := ""
	if g.language != "" {
		language = " in language " + g.language
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(fmt.Sprintf(transcribePrompt, language)),
			genai.NewPartFromBytes(wav, "audio/wav"),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	var lastErr error
	for range len(g.apiKeys) {
		key, idx := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				text.WriteString(part.Text)
			}
			return text.String(), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (g *geminiTranscriber) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

// rotateKey moves past idx unless another caller already did.
func (g *geminiTranscriber) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}
