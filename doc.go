// Package gladia provides a Go client for the Gladia v2 live speech-to-text API.
//
// A live session is negotiated over HTTP and then streams audio and events
// over a WebSocket. The client supports:
//
//   - Real-time partial and final transcripts
//   - Real-time translation, named entity recognition and sentiment analysis
//   - Post-processing results (summarization, chapterization, final transcript)
//   - Speech boundary, acknowledgment and lifecycle events
//   - Fetching and deleting stored session results
//
// # Quick Start
//
// Create a client, open a session and register handlers:
//
//	client := gladia.NewClient(gladia.ClientOptions{APIKey: "your-api-key"})
//
//	session, err := client.CreateSession(ctx, gladia.SessionConfig{
//	    Encoding:   gladia.EncodingWavPCM,
//	    BitDepth:   16,
//	    SampleRate: 16000,
//	    Channels:   1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	session.OnFinalTranscript(func(ev *gladia.TranscriptEvent) error {
//	    fmt.Println(ev.Utterance.Text)
//	    return nil
//	})
//
//	// Send audio data
//	session.SendAudio(audioBytes)
//
//	// Stop when done and wait for the remaining results
//	session.Stop()
//	session.Wait(ctx)
//
// # Session Lifecycle
//
// A session moves through Created, Connecting, Handshaking and Active inside
// CreateSession, which only ever returns an Active session. Stop moves it to
// Stopping; it becomes Closed when the server sends end_session or closes the
// socket. A transport failure moves it to Faulted from any state, and the
// error callback is called once with ErrorStatusTransportFault. Audio is only
// accepted while Active; other states fail with ErrorStatusInvalidState.
//
// Calling Stop more than once is a no-op.
//
// # Event Delivery
//
// Handlers run on a single goroutine per session, in the order frames were
// received. A handler that returns an error or panics is reported through the
// error callback and the next event is still delivered. Events without a
// handler are dropped, except error events which go to the error callback.
// Frames that cannot be decoded are dropped and reported with
// ErrorStatusMalformedEvent; unknown event types are delivered as
// *UnknownEvent to a KindUnknown handler.
//
// # Error Handling
//
// All errors implement the standard error interface and can be type-asserted
// to *gladia.Error for detailed information:
//
//	if err != nil {
//	    var gladiaErr *gladia.Error
//	    if errors.As(err, &gladiaErr) {
//	        fmt.Printf("Status: %s, Code: %v\n", gladiaErr.Status, gladiaErr.Code)
//	    }
//	}
//
// REST failures carry an *APIError cause with the server's request id and
// validation errors.
package gladia
