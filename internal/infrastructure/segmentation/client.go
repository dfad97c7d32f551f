package segmentation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/port"
)

// DefaultModelURL адрес модели segformer_b3_clothes
const DefaultModelURL = "https://router.huggingface.co/hf-inference/models/sayeed99/segformer_b3_clothes"

// Client HTTP-клиент удалённой модели сегментации
type Client struct {
	url   string
	token string
	http  *http.Client
	log   zerolog.Logger
}

// NewClient создаёт клиент с таймаутом запроса
func NewClient(url, token string, timeout time.Duration, log zerolog.Logger) *Client {
	if url == "" {
		url = DefaultModelURL
	}
	return &Client{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: timeout},
		log:   log.With().Str("component", "segmentation_client").Logger(),
	}
}

// Segment отправляет изображение и возвращает маски по меткам
func (c *Client) Segment(ctx context.Context, imageData []byte) ([]port.LabelSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", contentType(imageData))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "segmentation request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read segmentation response")
	}
	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(body)).
		Msg("segmentation response")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("segmentation api returned %d: %s", resp.StatusCode, apiError(body))
	}

	var segments []port.LabelSegment
	if err := json.Unmarshal(body, &segments); err != nil {
		return nil, errors.Wrap(err, "decode segmentation response")
	}
	if len(segments) == 0 {
		return nil, errors.New("segmentation api returned no segments")
	}
	return segments, nil
}

// contentType определяет тип изображения, по умолчанию image/jpeg.
func contentType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

// apiError достаёт поле error из ответа, иначе возвращает тело как есть.
func apiError(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

var _ port.Segmenter = (*Client)(nil)
