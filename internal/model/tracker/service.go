// Package tracker is the boundary the presentation layer talks to: every UI
// event maps to one command handled synchronously, start to finish, before
// the next one is read.
package tracker

import (
	"time"

	"siplog/internal/model/export"
	"siplog/internal/model/session"
)

type messageSender interface {
	SendMessage(text string) error
}

type CommandHandler interface {
	HandleCommand(text string) (string, error)
}

type Service struct {
	sender  messageSender
	handler CommandHandler
}

func NewService(
	sender messageSender,
	sessionSvc *session.Service,
	exporter *export.Exporter,
	storage trackerStorage,
	cache ReportCache,
	saver fileSaver,
	cfg config,
) *Service {
	return &Service{
		sender:  sender,
		handler: newHandler(sessionSvc, exporter, storage, cache, saver, cfg),
	}
}

func (s *Service) HandleIncomingCommand(text string) error {
	start := time.Now()
	err := s.handle(text)
	elapsed := time.Since(start)

	observeResponse(elapsed, err != nil)
	return err
}

func (s *Service) handle(text string) error {
	resp, err := s.handler.HandleCommand(text)
	if err != nil {
		_ = s.sender.SendMessage("Sorry, something wrong happened...\n" + resp)
		return err
	}
	return s.sender.SendMessage(resp)
}
