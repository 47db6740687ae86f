package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/envelope"
)

type ContactService struct {
	api    Requester
	logger *slog.Logger
}

func NewContactService(api Requester, logger *slog.Logger) *ContactService {
	return &ContactService{api: api, logger: loggerOrDefault(logger)}
}

func (s *ContactService) Submit(ctx context.Context, m esim.ContactMessage) Result[struct{}] {
	if strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return fail[struct{}]("Email and message are required")
	}
	raw, err := s.api.Post(ctx, "/public-contact", m)
	if err != nil {
		s.logger.Warn("contact: submit failed", "error", err)
		return fail[struct{}](failureMessage(err, "Unable to send your message"))
	}
	success, msg := envelope.Outcome(raw)
	if !success {
		return fail[struct{}](orDefault(msg, "Unable to send your message"))
	}
	return ok(&struct{}{}, orDefault(msg, "Message sent"))
}
