package gladia

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL           = "https://api.gladia.io"
	DefaultRegion            = RegionUSWest
	DefaultHandshakeTimeout  = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultKeepAliveInterval = 20 * time.Second
	DefaultEventBufferSize   = 256
	DefaultStreamChunkSize   = 3200

	DefaultEncoding                      = EncodingWavPCM
	DefaultBitDepth                      = 16
	DefaultSampleRate                    = 16000
	DefaultChannels                      = 1
	DefaultModel                         = "solaria-1"
	DefaultEndpointing                   = 0.05
	DefaultMaxDurationWithoutEndpointing = 5
)

type ClientOptions struct {
	APIKey  string
	BaseURL string
	Region  Region

	// HandshakeTimeout bounds CreateSession from the POST until the socket is open.
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration

	// KeepAliveInterval is the period of websocket pings on a connected
	// session. Zero means DefaultKeepAliveInterval; a negative value disables
	// pings.
	KeepAliveInterval time.Duration

	// EventBufferSize is the number of decoded events held between the socket
	// reader and handler delivery. A full buffer stalls the reader.
	EventBufferSize int

	// CloseOnStopAck closes a stopping session as soon as the stop_recording
	// acknowledgment arrives, instead of waiting for end_session. Results the
	// server sends after the acknowledgment are then lost.
	CloseOnStopAck bool

	HTTPClient *http.Client
	Dialer     Dialer
	Logger     *zerolog.Logger

	// Defaults for every session created by this client.
	OnStateChange func(oldState, newState State)
	OnError       func(err *Error)
}

func (o *ClientOptions) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Region == "" {
		o.Region = DefaultRegion
	}
	if o.HandshakeTimeout == 0 {
		o.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	if o.KeepAliveInterval == 0 {
		o.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = DefaultEventBufferSize
	}
	if o.HTTPClient == nil {
		o.HTTPClient = newHTTPClient()
	}
	if o.Dialer == nil {
		o.Dialer = NewWebSocketDialer(o.HandshakeTimeout)
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
}

type SendStreamOptions struct {
	ChunkSize    int
	PaceInterval time.Duration
	Finish       bool // calls Stop() after the stream is fully sent
	JSON         bool // sends audio_chunk JSON frames instead of binary frames
}
