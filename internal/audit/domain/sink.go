package domain

import "context"

//go:generate mockgen -source=sink.go -destination=../mocks/mock_sink.go -package=mocks

// Sink receives a copy of every persisted entry.
type Sink interface {
	Write(ctx context.Context, entry AuditLog) error
}
