package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

var ErrMalformedResponse = errors.New("malformed analysis response")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service error (%d) from %s: %s", e.Status, e.URL, e.Body)
}

// Guidance is the tutoring text returned for a submitted drawing.
type Guidance struct {
	Content string
}

type Recommendation struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type Recommendations struct {
	ProcessedText  string           `json:"processed_text"`
	ExtractedTopic string           `json:"extracted_topic"`
	Items          []Recommendation `json:"recommendations"`
}

// Pointer fields tell an absent key from an empty value.
type guidanceResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error string `json:"error"`
}

type recommendResponse struct {
	ProcessedText  string            `json:"processed_text"`
	ExtractedTopic string            `json:"extracted_topic"`
	Items          *[]Recommendation `json:"recommendations"`
	Error          string            `json:"error"`
}

func malformed(reason, serviceErr string) error {
	if serviceErr != "" {
		return fmt.Errorf("%w: %s (service said %q)", ErrMalformedResponse, reason, serviceErr)
	}
	return fmt.Errorf("%w: %s", ErrMalformedResponse, reason)
}

// Client uploads captures to the guidance and recommendation endpoints.
type Client struct {
	guidanceURL  string
	recommendURL string
	httpClient   *http.Client
}

func NewClient(guidanceURL, recommendURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Client{
		guidanceURL:  guidanceURL,
		recommendURL: recommendURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Guidance(ctx context.Context, a *Artifact) (*Guidance, error) {
	body, err := c.upload(ctx, c.guidanceURL, a)
	if err != nil {
		return nil, err
	}
	var resp guidanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 {
		return nil, malformed("no choices", resp.Error)
	}
	content := resp.Choices[0].Message.Content
	if content == nil {
		return nil, malformed("no message content", resp.Error)
	}
	return &Guidance{Content: *content}, nil
}

func (c *Client) Recommend(ctx context.Context, a *Artifact) (*Recommendations, error) {
	body, err := c.upload(ctx, c.recommendURL, a)
	if err != nil {
		return nil, err
	}
	var resp recommendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Items == nil {
		return nil, malformed("no recommendations", resp.Error)
	}
	return &Recommendations{
		ProcessedText:  resp.ProcessedText,
		ExtractedTopic: resp.ExtractedTopic,
		Items:          *resp.Items,
	}, nil
}

// upload posts the artifact as the single "file" field of a multipart form.
func (c *Client) upload(ctx context.Context, url string, a *Artifact) ([]byte, error) {
	if a == nil || len(a.PNG) == 0 {
		return nil, errors.New("nothing to upload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, a.Name))
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(a.PNG); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(body)
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return nil, &StatusError{URL: url, Status: resp.StatusCode, Body: excerpt}
	}
	return body, nil
}
