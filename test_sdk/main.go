// Command test_sdk runs a live smoke check against the Gladia API: every
// audio file given on the command line is streamed in its own session,
// concurrently, and the live final transcripts are compared with the stored
// result.
//
// Usage:
//
//	GLADIA_API_KEY=... go run ./test_sdk [-json] [-cleanup] file1.wav [file2.wav ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	gladia "github.com/moxierobots/gladia-live-go"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	useJSON := flag.Bool("json", false, "Send audio as base64 audio_chunk messages")
	cleanup := flag.Bool("cleanup", false, "Delete stored results after the check")
	flag.Parse()

	audioFiles := flag.Args()
	if len(audioFiles) == 0 {
		log.Fatal("Usage: go run ./test_sdk [-json] [-cleanup] <audio_file1> [audio_file2] ...")
	}

	_ = godotenv.Load()

	opts, err := gladia.LoadEnvOptions()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	opts.Logger = &logger
	client := gladia.NewClient(opts)

	var wg sync.WaitGroup
	failures := make(chan string, len(audioFiles))
	for _, path := range audioFiles {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := transcribeFile(client, path, *useJSON, *cleanup); err != nil {
				logger.Error().Err(err).Str("file", path).Msg("smoke check failed")
				failures <- path
			}
		}(path)
	}
	wg.Wait()
	close(failures)

	failed := 0
	for path := range failures {
		fmt.Printf("FAIL %s\n", path)
		failed++
	}
	fmt.Printf("%d/%d files passed\n", len(audioFiles)-failed, len(audioFiles))
	if failed > 0 {
		os.Exit(1)
	}
}

func transcribeFile(client *gladia.Client, path string, useJSON, cleanup bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	session, err := client.CreateSession(ctx, gladia.SessionConfig{
		CustomMetadata: map[string]any{"file": path},
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	var (
		mu         sync.Mutex
		liveText   []string
		acked      int64
		sessionErr *gladia.Error
	)
	session.OnFinalTranscript(func(e *gladia.TranscriptEvent) error {
		mu.Lock()
		liveText = append(liveText, strings.TrimSpace(e.Utterance.Text))
		mu.Unlock()
		return nil
	})
	session.Handle(gladia.KindAudioChunkAcknowledged, func(e gladia.Event) error {
		ack := e.(*gladia.AudioChunkAckEvent)
		if len(ack.ByteRange) == 2 {
			mu.Lock()
			acked = ack.ByteRange[1]
			mu.Unlock()
		}
		return nil
	})
	session.OnError(func(err *gladia.Error) {
		mu.Lock()
		sessionErr = err
		mu.Unlock()
	})

	if err := session.SendStream(file, gladia.SendStreamOptions{
		PaceInterval: 5 * time.Millisecond,
		Finish:       true,
		JSON:         useJSON,
	}); err != nil {
		session.Close()
		return fmt.Errorf("failed to stream audio: %w", err)
	}

	if err := session.Wait(ctx); err != nil {
		return err
	}

	mu.Lock()
	live := strings.Join(liveText, " ")
	lastErr := sessionErr
	ackedBytes := acked
	mu.Unlock()
	if lastErr != nil {
		return lastErr
	}
	fmt.Printf("[%s] %d bytes acknowledged, live transcript: %s\n", path, ackedBytes, live)

	result, err := waitForResult(ctx, client, session.ID())
	if err != nil {
		return err
	}
	if result.Status == gladia.ResultStatusError {
		return fmt.Errorf("stored result failed with status %s", result.Status)
	}
	if result.Result != nil && result.Result.Transcription != nil {
		stored := strings.TrimSpace(result.Result.Transcription.FullTranscript)
		if stored != live {
			log.Printf("[%s] stored transcript differs from live transcript:\n  stored: %s", path, stored)
		}
	}

	if cleanup {
		if err := client.DeleteResult(ctx, session.ID()); err != nil {
			return fmt.Errorf("failed to delete result: %w", err)
		}
	}
	return nil
}

func waitForResult(ctx context.Context, client *gladia.Client, id string) (*gladia.Result, error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		result, err := client.GetResult(ctx, id)
		if err != nil {
			return nil, err
		}
		if result.IsFinished() {
			return result, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
