// Package sms holds the outbound text-message gateway. The auth flow only
// depends on the Gateway interface; which provider backs it is a config
// decision made once at startup.
package sms

import "log"

type Gateway interface {
	SendOTP(phone, code string) error
}

// ConsoleGateway logs codes instead of sending them. Development only.
type ConsoleGateway struct{}

func NewConsoleGateway() *ConsoleGateway { return &ConsoleGateway{} }

func (g *ConsoleGateway) SendOTP(phone, code string) error {
	log.Printf("[sms][console] to=%s code=%s", phone, code)
	return nil
}
