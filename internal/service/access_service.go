package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/access"
	"alcyxob/fitclub/internal/domain"
)

type QRCode struct {
	Payload access.Payload `json:"payload"`
	Content string         `json:"content"`
}

type AccessService interface {
	Payload(ctx context.Context, user *domain.User) (*QRCode, error)
	PNG(ctx context.Context, user *domain.User, size int) ([]byte, error)
	Scan(ctx context.Context, raw string) access.ScanResult
	ScanImage(ctx context.Context, r io.Reader) access.ScanResult
}

type accessService struct {
	scanner *access.Scanner
	log     zerolog.Logger
	clock   Clock
}

func NewAccessService(scanner *access.Scanner, log zerolog.Logger, clock Clock) AccessService {
	return &accessService{
		scanner: scanner,
		log:     log.With().Str("component", "access").Logger(),
		clock:   clock,
	}
}

func (s *accessService) Payload(_ context.Context, user *domain.User) (*QRCode, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	p := access.NewPayload(user, s.clock.now())
	content, err := p.JSON()
	if err != nil {
		return nil, err
	}
	return &QRCode{Payload: p, Content: content}, nil
}

func (s *accessService) PNG(_ context.Context, user *domain.User, size int) ([]byte, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	return access.EncodePNG(access.NewPayload(user, s.clock.now()), size)
}

func (s *accessService) Scan(_ context.Context, raw string) access.ScanResult {
	res := s.scanner.Scan(raw)
	s.log.Info().Bool("allowed", res.Allowed).Str("result", res.Message).Msg("entry scanned")
	return res
}

// ScanImage decodes a QR image first; an unreadable image counts as an
// unreadable code.
func (s *accessService) ScanImage(ctx context.Context, r io.Reader) access.ScanResult {
	text, err := access.DecodeImage(r)
	if err != nil {
		s.log.Debug().Err(err).Msg("qr image could not be decoded")
		return access.ScanResult{Message: access.MsgUnreadable}
	}
	return s.Scan(ctx, text)
}
