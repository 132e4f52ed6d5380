package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WhatsAppConfig holds WhatsApp Cloud API settings.
type WhatsAppConfig struct {
	APIURL        string
	APIVersion    string
	PhoneNumberID string
	Token         string
	Language      string
}

type WhatsAppCloudSender struct {
	cfg        WhatsAppConfig
	httpClient *http.Client
}

func NewWhatsAppSender(cfg WhatsAppConfig) (*WhatsAppCloudSender, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("WHATSAPP_API_TOKEN not set")
	}
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("WHATSAPP_PHONE_NUMBER_ID not set")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://graph.facebook.com"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v18.0"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &WhatsAppCloudSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Template         struct {
		Name     string `json:"name"`
		Language struct {
			Code string `json:"code"`
		} `json:"language"`
		Components []templateComponent `json:"components,omitempty"`
	} `json:"template"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// NormalizePhone strips formatting and the leading plus from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (w *WhatsAppCloudSender) SendTemplate(ctx context.Context, to, template string, params []string) (SendResult, error) {
	apiURL := fmt.Sprintf("%s/%s/%s/messages",
		strings.TrimRight(w.cfg.APIURL, "/"), w.cfg.APIVersion, w.cfg.PhoneNumberID)

	msg := templateMessage{MessagingProduct: "whatsapp", To: NormalizePhone(to), Type: "template"}
	msg.Template.Name = template
	msg.Template.Language.Code = w.cfg.Language
	if len(params) > 0 {
		component := templateComponent{Type: "body"}
		for _, p := range params {
			component.Parameters = append(component.Parameters, templateParameter{Type: "text", Text: p})
		}
		msg.Template.Components = []templateComponent{component}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return SendResult{}, fmt.Errorf("whatsapp error %s: %s", resp.Status, string(respBody))
	}

	var parsed sendResponse
	messageID := fmt.Sprintf("whatsapp-%d", time.Now().UnixNano())
	if err := json.Unmarshal(respBody, &parsed); err == nil && len(parsed.Messages) > 0 {
		messageID = parsed.Messages[0].ID
	}

	return SendResult{MessageID: messageID, SentAt: time.Now()}, nil
}
