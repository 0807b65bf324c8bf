package llm

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Image is a generated picture. Either URL points at a temporary download
// or Data already holds the bytes.
type Image struct {
	URL           string
	Data          []byte
	RevisedPrompt string
}

type imagePayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
	N      int    `json:"n"`
}

type imageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// GenerateImage requests one image for prompt from the image model.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	payload := imagePayload{
		Model:  c.cfg.ImageModel,
		Prompt: prompt,
		Size:   c.cfg.ImageSize,
		N:      1,
	}

	var resp imageResponse
	if err := c.post(ctx, "/images/generations", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyResponse
	}

	d := resp.Data[0]
	img := &Image{URL: d.URL, RevisedPrompt: d.RevisedPrompt}
	if d.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("llm: invalid image payload: %w", err)
		}
		img.Data = data
	}
	if img.URL == "" && len(img.Data) == 0 {
		return nil, ErrEmptyResponse
	}
	return img, nil
}
