package llm

import (
	"context"
	"strings"
)

type browseTool struct {
	Type string `json:"type"`
}

type browsePayload struct {
	Model string       `json:"model"`
	Input string       `json:"input"`
	Tools []browseTool `json:"tools"`
}

type browseResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (r *browseResponse) text() string {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText
	}
	var sb strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}

// Browse asks the browse model to answer prompt using its web search tool.
func (c *Client) Browse(ctx context.Context, prompt string) (string, error) {
	payload := browsePayload{
		Model: c.cfg.BrowseModel,
		Input: prompt,
		Tools: []browseTool{{Type: "web_search_preview"}},
	}

	var resp browseResponse
	if err := c.post(ctx, "/responses", payload, &resp); err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
