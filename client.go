package gladia

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client creates live sessions and fetches their results. It is safe for
// concurrent use.
type Client struct {
	options ClientOptions
}

// NewClient creates a new client.
func NewClient(options ClientOptions) *Client {
	options.applyDefaults()
	return &Client{options: options}
}

// CreateSession validates config, performs the handshake and opens the
// session socket. It returns an Active session, or a nil session and an error
// with ErrorStatusInvalidConfig or ErrorStatusSessionCreation.
//
// ctx bounds the handshake only; it does not end the session once returned.
func (c *Client) CreateSession(ctx context.Context, config SessionConfig) (*Session, error) {
	ctx, span := tracer.Start(ctx, "create live session")
	defer span.End()

	if c.options.APIKey == "" {
		err := NewError(ErrorStatusInvalidConfig, "api key is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}

	config = config.clone()
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid session config")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("session.encoding", string(config.Encoding)),
		attribute.Int("session.sample_rate", config.SampleRate),
		attribute.String("session.region", string(c.options.Region)),
	)

	s := newSession(c, config)
	if err := s.connect(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session creation failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("session.id", s.ID()))
	s.logger.Debug().Str("url", s.URL()).Msg("live session created")
	return s, nil
}
