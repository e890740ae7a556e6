package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/stock-allocator/internal/application/dto"
	"github.com/jhoicas/stock-allocator/internal/application/ports"
	"github.com/jhoicas/stock-allocator/internal/domain"
)

// Verificar en tiempo de compilación que GeminiService implementa InsightService.
var _ ports.InsightService = (*GeminiService)(nil)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"

	maxRecommendations = 3

	// systemPrompt define el rol del modelo y el formato de salida.
	// Con responseMimeType=application/json Gemini devuelve JSON puro, sin bloques de markdown.
	systemPrompt = `You are a retail logistics analyst. Given one line per warehouse with its country and total stock,
return ONLY a JSON object (no extra text) with this exact structure:
{
  "recommendations": [
    {"focus": "geographic_distribution", "advice": "<one concrete recommendation>"},
    {"focus": "stock_levels", "advice": "<one concrete recommendation>"},
    {"focus": "bottlenecks", "advice": "<one concrete recommendation>"}
  ]
}

Rules:
- Exactly 3 recommendations, one per focus, in that order.
- advice: at most 300 characters, actionable, referencing warehouse ids or countries when useful.`
)

// GeminiService adaptador que implementa InsightService llamando a la API REST de Google Gemini.
// Usa únicamente la librería estándar de Go (net/http) para no añadir dependencias externas.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option ajusta el adaptador (tests, proxies).
type Option func(*GeminiService)

// WithBaseURL cambia el endpoint de la API.
func WithBaseURL(url string) Option {
	return func(s *GeminiService) { s.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient reemplaza el cliente HTTP.
func WithHTTPClient(c *http.Client) Option {
	return func(s *GeminiService) { s.httpClient = c }
}

// NewGeminiService construye el adaptador. Si model está vacío se usa DefaultModel.
// Si apiKey está vacío, las llamadas devuelven domain.ErrNoAPIKey.
func NewGeminiService(apiKey, model string, opts ...Option) *GeminiService {
	if model == "" {
		model = DefaultModel
	}
	s := &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// llmInsightPayload es el JSON que esperamos recibir del modelo.
type llmInsightPayload struct {
	Recommendations []struct {
		Focus  string `json:"focus"`
		Advice string `json:"advice"`
	} `json:"recommendations"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// SuggestOptimizations envía el resumen de almacenes a Gemini y devuelve hasta 3 recomendaciones
// de optimización de entregas (distribución geográfica, niveles de stock, cuellos de botella).
func (s *GeminiService) SuggestOptimizations(ctx context.Context, warehouseSummary string) (*dto.InsightDTO, error) {
	if s.apiKey == "" {
		return nil, domain.ErrNoAPIKey
	}

	userText := "Based on the following warehouse data, provide 3 specific recommendations for optimizing delivery:\n" +
		warehouseSummary

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userText}},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.4,
			MaxOutputTokens:  1024,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}

	rawJSON := strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text)

	var insight llmInsightPayload
	if err := json.Unmarshal([]byte(rawJSON), &insight); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, rawJSON)
	}

	out := &dto.InsightDTO{Model: s.model, Recommendations: make([]dto.InsightRecommendationDTO, 0, maxRecommendations)}
	for _, r := range insight.Recommendations {
		advice := strings.TrimSpace(r.Advice)
		if advice == "" {
			continue
		}
		out.Recommendations = append(out.Recommendations, dto.InsightRecommendationDTO{
			Focus:  strings.TrimSpace(r.Focus),
			Advice: advice,
		})
		if len(out.Recommendations) == maxRecommendations {
			break
		}
	}
	if len(out.Recommendations) == 0 {
		return nil, fmt.Errorf("AI: el modelo no devolvió recomendaciones")
	}
	return out, nil
}
