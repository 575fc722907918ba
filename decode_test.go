package gladia

import (
	"strings"
	"testing"
)

func TestDecodeEventKinds(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		kind  EventKind
	}{
		{
			name:  "partial transcript",
			frame: `{"session_id":"s","created_at":"t","type":"transcript","data":{"id":"u1","is_final":false,"utterance":{"text":"hel","start":0,"end":0.4,"language":"en","channel":0,"confidence":0.5}}}`,
			kind:  KindPartialTranscript,
		},
		{
			name:  "final transcript",
			frame: `{"session_id":"s","created_at":"t","type":"transcript","data":{"id":"u1","is_final":true,"utterance":{"text":"hello","start":0,"end":0.5,"language":"en","channel":0,"confidence":0.9}}}`,
			kind:  KindFinalTranscript,
		},
		{
			name:  "translation",
			frame: `{"session_id":"s","created_at":"t","type":"translation","data":{"utterance_id":"u1","utterance":{"text":"hello"},"original_language":"en","target_language":"fr","translated_utterance":{"text":"bonjour"}}}`,
			kind:  KindTranslation,
		},
		{
			name:  "sentiment analysis",
			frame: `{"session_id":"s","created_at":"t","type":"sentiment_analysis","data":{"utterance_id":"u1","utterance":{"text":"great"},"results":[{"sentiment":"positive","emotion":"joy","text":"great","start":0,"end":1,"channel":0}]}}`,
			kind:  KindSentimentAnalysis,
		},
		{
			name:  "named entity recognition",
			frame: `{"session_id":"s","created_at":"t","type":"named_entity_recognition","data":{"utterance_id":"u1","utterance":{"text":"Paris"},"results":[{"entity_type":"LOCATION","text":"Paris","start":0,"end":0.5}]}}`,
			kind:  KindNamedEntityRecognition,
		},
		{
			name:  "post transcript",
			frame: `{"session_id":"s","created_at":"t","type":"post_transcript","data":{"full_transcript":"hello world","languages":["en"],"utterances":[]}}`,
			kind:  KindPostTranscript,
		},
		{
			name:  "post final transcript",
			frame: `{"session_id":"s","created_at":"t","type":"post_final_transcript","data":{"metadata":{"audio_duration":3,"number_of_distinct_channels":1,"billing_time":3,"transcription_time":1},"transcription":{"full_transcript":"hello world"}}}`,
			kind:  KindPostFinalTranscript,
		},
		{
			name:  "chapterization",
			frame: `{"session_id":"s","created_at":"t","type":"post_chapterization","data":{"results":[{"headline":"Intro","gist":"g","start":0,"end":3,"text":"hello","abstractive_summary":"a","extractive_summary":"e","summary":"s"}]}}`,
			kind:  KindChapterization,
		},
		{
			name:  "summarization",
			frame: `{"session_id":"s","created_at":"t","type":"post_summarization","data":{"results":"A greeting."}}`,
			kind:  KindSummarization,
		},
		{
			name:  "speech start",
			frame: `{"session_id":"s","created_at":"t","type":"speech_start","data":{"time":1.25,"channel":0}}`,
			kind:  KindSpeechStarted,
		},
		{
			name:  "speech end",
			frame: `{"session_id":"s","created_at":"t","type":"speech_end","data":{"time":2.5,"channel":1}}`,
			kind:  KindSpeechEnded,
		},
		{
			name:  "audio chunk ack",
			frame: `{"session_id":"s","created_at":"t","type":"audio_chunk","acknowledged":true,"data":{"byte_range":[0,3200],"time_range":[0,0.1]}}`,
			kind:  KindAudioChunkAcknowledged,
		},
		{
			name:  "stop recording ack",
			frame: `{"session_id":"s","created_at":"t","type":"stop_recording","acknowledged":true,"data":{"recording_duration":12.5,"recording_left_to_process":1.5}}`,
			kind:  KindStopRecordingAcknowledged,
		},
		{
			name:  "start session",
			frame: `{"session_id":"s","created_at":"t","type":"start_session"}`,
			kind:  KindStartSession,
		},
		{
			name:  "end session",
			frame: `{"session_id":"s","created_at":"t","type":"end_session"}`,
			kind:  KindEndSession,
		},
		{
			name:  "start recording",
			frame: `{"session_id":"s","created_at":"t","type":"start_recording"}`,
			kind:  KindStartRecording,
		},
		{
			name:  "end recording",
			frame: `{"session_id":"s","created_at":"t","type":"end_recording"}`,
			kind:  KindEndRecording,
		},
		{
			name:  "error",
			frame: `{"session_id":"s","created_at":"t","type":"error","error":{"status_code":500,"message":"internal"}}`,
			kind:  KindError,
		},
		{
			name:  "unknown type",
			frame: `{"session_id":"s","created_at":"t","type":"speaker_change","data":{"speaker":1}}`,
			kind:  KindUnknown,
		},
		{
			name:  "translation error without data",
			frame: `{"session_id":"s","created_at":"t","type":"translation","error":{"message":"unsupported language"}}`,
			kind:  KindTranslation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.frame))
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}
			if ev.Kind() != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, ev.Kind())
			}
			if ev.Meta().SessionID != "s" || ev.Meta().CreatedAt != "t" {
				t.Errorf("unexpected header: %+v", ev.Meta())
			}
		})
	}
}

func TestDecodeTranscriptFields(t *testing.T) {
	frame := `{"session_id":"s","created_at":"t","type":"transcript","data":{"id":"00-1","is_final":true,` +
		`"utterance":{"text":" Hello world","start":0.2,"end":1.1,"language":"en","channel":1,"confidence":0.93,"speaker":2,` +
		`"words":[{"word":" Hello","start":0.2,"end":0.6,"confidence":0.95},{"word":" world","start":0.6,"end":1.1,"confidence":0.91}]}}}`

	ev, err := DecodeEvent([]byte(frame))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	tr, ok := ev.(*TranscriptEvent)
	if !ok {
		t.Fatalf("expected *TranscriptEvent, got %T", ev)
	}
	if tr.UtteranceID != "00-1" || !tr.IsFinal {
		t.Errorf("unexpected transcript: %+v", tr)
	}
	u := tr.Utterance
	if u.Text != " Hello world" || u.Channel != 1 || u.Language != "en" {
		t.Errorf("unexpected utterance: %+v", u)
	}
	if u.Speaker == nil || *u.Speaker != 2 {
		t.Errorf("expected speaker 2, got %v", u.Speaker)
	}
	if len(u.Words) != 2 || u.Words[1].Word != " world" || u.Words[1].End != 1.1 {
		t.Errorf("unexpected words: %+v", u.Words)
	}
}

func TestDecodeAcknowledgments(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"session_id":"s","created_at":"t","type":"audio_chunk","acknowledged":true,"data":{"byte_range":[3200,6400],"time_range":[0.1,0.2]}}`))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	ack := ev.(*AudioChunkAckEvent)
	if !ack.Acknowledged || len(ack.ByteRange) != 2 || ack.ByteRange[1] != 6400 || ack.TimeRange[0] != 0.1 {
		t.Errorf("unexpected audio ack: %+v", ack)
	}

	ev, err = DecodeEvent([]byte(`{"session_id":"s","created_at":"t","type":"stop_recording","acknowledged":false,"error":{"message":"already stopped"}}`))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	stop := ev.(*StopRecordingAckEvent)
	if stop.Acknowledged || stop.Error == nil || stop.Error.Message != "already stopped" {
		t.Errorf("unexpected stop ack: %+v", stop)
	}
}

func TestDecodePostProcessing(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"session_id":"s","created_at":"t","type":"post_summarization","data":{"results":"Short summary."}}`))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if got := ev.(*SummarizationEvent).Summary; got != "Short summary." {
		t.Errorf("expected summary, got %q", got)
	}

	ev, err = DecodeEvent([]byte(`{"session_id":"s","created_at":"t","type":"post_final_transcript","data":{"metadata":{"audio_duration":3.5},"transcription":{"full_transcript":"hi","languages":["en"]}}}`))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	final := ev.(*PostFinalTranscriptEvent)
	if final.Metadata.AudioDuration != 3.5 || final.Transcription == nil || final.Transcription.FullTranscript != "hi" {
		t.Errorf("unexpected final transcript: %+v", final)
	}
}

func TestDecodeUnknownKeepsRaw(t *testing.T) {
	frame := `{"session_id":"s","created_at":"t","type":"future_event","data":{"x":1}}`
	ev, err := DecodeEvent([]byte(frame))
	if err != nil {
		t.Fatalf("unknown types must not fail, got %v", err)
	}
	u, ok := ev.(*UnknownEvent)
	if !ok {
		t.Fatalf("expected *UnknownEvent, got %T", ev)
	}
	if u.Type != "future_event" || string(u.Raw) != frame {
		t.Errorf("unexpected unknown event: type=%q raw=%s", u.Type, u.Raw)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{"invalid json", `{"type":`, "invalid event json"},
		{"missing type", `{"session_id":"s","data":{}}`, "type"},
		{"transcript without data", `{"type":"transcript"}`, "data is required"},
		{"transcript without is_final", `{"type":"transcript","data":{"id":"u","utterance":{"text":"x"}}}`, "is_final"},
		{"transcript without utterance", `{"type":"transcript","data":{"id":"u","is_final":true}}`, "utterance"},
		{"transcript with wrong types", `{"type":"transcript","data":{"id":"u","is_final":"yes","utterance":{}}}`, "invalid data"},
		{"translation without translated utterance", `{"type":"translation","data":{"utterance":{"text":"x"},"target_language":"fr"}}`, "translated_utterance"},
		{"speech event without time", `{"type":"speech_start","data":{"channel":0}}`, "time"},
		{"audio ack without acknowledged", `{"type":"audio_chunk","data":{"byte_range":[0,1]}}`, "acknowledged is required"},
		{"error without error object", `{"type":"error"}`, "error object is required"},
		{"post final transcript without metadata", `{"type":"post_final_transcript","data":{"transcription":{"full_transcript":"x"}}}`, "metadata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.frame))
			if ev != nil {
				t.Errorf("expected no event, got %T", ev)
			}
			if !IsErrorStatus(err, ErrorStatusMalformedEvent) {
				t.Fatalf("expected MalformedEvent error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}
