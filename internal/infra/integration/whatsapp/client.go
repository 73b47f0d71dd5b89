package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("whatsapp not configured")

// Client talks to the WhatsApp Cloud API (graph.facebook.com).
type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(accessToken, phoneID, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger.Named("whatsapp"),
	}
}

func (c *Client) Configured() bool {
	return c.accessToken != "" && c.phoneID != ""
}

// SendText delivers a plain text message and returns the platform message id.
func (c *Client) SendText(ctx context.Context, input SendTextInput) (string, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                normalizeNumber(input.PhoneNumber),
		"type":              "text",
		"text": map[string]interface{}{
			"preview_url": input.PreviewURL,
			"body":        input.Body,
		},
	}
	return c.send(ctx, payload, input.PhoneNumber)
}

// SendTemplate delivers an approved template message.
func (c *Client) SendTemplate(ctx context.Context, input SendTemplateInput) (string, error) {
	lang := input.Language
	if lang == "" {
		lang = "en"
	}
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                normalizeNumber(input.PhoneNumber),
		"type":              "template",
		"template": map[string]interface{}{
			"name":     input.TemplateName,
			"language": map[string]string{"code": lang},
			"components": []map[string]interface{}{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}
	return c.send(ctx, payload, input.PhoneNumber)
}

func (c *Client) send(ctx context.Context, payload map[string]interface{}, to string) (string, error) {
	if !c.Configured() {
		c.logger.Warn("⚠️ access token or phone id missing")
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("❌ send failed", zap.String("to", to), zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if result.Error != nil {
			return "", fmt.Errorf("whatsapp api error %d: %s (code %d)", resp.StatusCode, result.Error.Message, result.Error.Code)
		}
		return "", fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}
	if result.Error != nil {
		return "", fmt.Errorf("whatsapp: %s", result.Error.Message)
	}

	var id string
	if len(result.Messages) > 0 {
		id = result.Messages[0].ID
	}
	c.logger.Info("✅ message sent", zap.String("to", to), zap.String("message_id", id))
	return id, nil
}

// normalizeNumber strips the formatting the Cloud API rejects.
func normalizeNumber(phone string) string {
	return strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "").Replace(phone)
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
