// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"

	"github.com/bvk/dcabot/telegram"
)

// AddTelegramCommand registers a bot command with the telegram client. It is
// a no-op when the server runs without a telegram configuration.
func (s *Server) AddTelegramCommand(ctx context.Context, name, purpose string, handler telegram.CmdFunc) error {
	if s.telegramClient != nil {
		return s.telegramClient.AddCommand(ctx, name, purpose, handler)
	}
	return nil // Ignored
}
