package sms

import (
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

const mobizonURL = "https://api.mobizon.kz/service/message/sendsmsmessage"

// MobizonGateway delivers codes through the Mobizon SMS API.
type MobizonGateway struct {
	apiKey string
	sender string
	client *resty.Client
}

type mobizonResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"message"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewMobizonGateway(apiKey, sender string) *MobizonGateway {
	return &MobizonGateway{
		apiKey: apiKey,
		sender: sender,
		client: resty.New(),
	}
}

func (g *MobizonGateway) SendOTP(phone, code string) error {
	form := map[string]string{
		"apiKey":    g.apiKey,
		"recipient": phone,
		"text":      fmt.Sprintf("Siteworks verification code: %s", code),
	}
	if g.sender != "" {
		form["from"] = g.sender
	}

	var result mobizonResponse
	resp, err := g.client.R().
		SetFormData(form).
		SetResult(&result).
		Post(mobizonURL)
	if err != nil {
		return fmt.Errorf("send SMS request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mobizon http status %d", resp.StatusCode())
	}
	if result.Code != 0 {
		return fmt.Errorf("mobizon returned error code %d: %s", result.Code, result.Msg)
	}

	log.Printf("[sms][mobizon] sent to=%s messageID=%s", phone, result.Data.MessageID)
	return nil
}
