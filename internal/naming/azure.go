// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"text/template"

	"github.com/aromeo/smart-renamer/internal/httputil"
	"github.com/aromeo/smart-renamer/pkg/types"
)

// systemPrompt fixes the naming contract. The model answers with the bare
// name: no extension, no path, no commentary.
const systemPrompt = `You name PDF documents from their text content.

Reply with exactly one line: a short, descriptive, filesystem-safe filename
summarizing the document. Rules:
- start with the document's date as YYYY-MM-DD; use 0000-00-00 if the text
  carries no date
- after the date, a few words identifying the document (sender, subject,
  document kind)
- no file extension, no slashes or backslashes, no quotes, no explanation

Example: 2024-03-17 Acme Corp invoice 4711`

// userPromptTmpl wraps the excerpt sent with each request.
var userPromptTmpl = template.Must(template.New("user").Parse(`Name this document.

Document text:
{{.Excerpt}}
`))

// AzureBackend implements Suggester against an Azure OpenAI chat-completions
// deployment. One synchronous request per document; 429 and transient 5xx
// responses are retried with backoff by the shared HTTP helper.
type AzureBackend struct {
	Settings types.Settings
	Client   *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the response body this client reads.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// requestURL builds the deployment-scoped chat-completions URL.
func (b *AzureBackend) requestURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		b.Settings.Endpoint,
		url.PathEscape(b.Settings.Deployment),
		url.QueryEscape(b.Settings.APIVersion))
}

// SuggestName sends the excerpt with the naming prompt and parses the reply
// into a Suggestion.
func (b *AzureBackend) SuggestName(ctx context.Context, excerpt string) (types.Suggestion, error) {
	var user bytes.Buffer
	if err := userPromptTmpl.Execute(&user, struct{ Excerpt string }{Excerpt: excerpt}); err != nil {
		return types.Suggestion{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := chatRequest{
		Model: b.Settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user.String()},
		},
		Temperature: 0.2,
		MaxTokens:   60,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.Suggestion{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.requestURL(), bytes.NewReader(bodyBytes))
	if err != nil {
		return types.Suggestion{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.Settings.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(client, req, 0)
	if err != nil {
		return types.Suggestion{}, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return types.Suggestion{}, fmt.Errorf("%w: endpoint returned %d: %s", ErrRequest, resp.StatusCode, body)
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return types.Suggestion{}, fmt.Errorf("%w: decoding response: %v", ErrParse, err)
	}

	if len(cResp.Choices) == 0 {
		return types.Suggestion{}, fmt.Errorf("%w: response carries no choices", ErrParse)
	}

	s, err := parseSuggestion(cResp.Choices[0].Message.Content)
	if err != nil {
		return types.Suggestion{}, fmt.Errorf("%w: %q", ErrParse, cResp.Choices[0].Message.Content)
	}
	return s, nil
}
