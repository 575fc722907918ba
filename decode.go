package gladia

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// envelope is the part of every server message needed to pick a variant.
type envelope struct {
	SessionID    string          `json:"session_id"`
	CreatedAt    string          `json:"created_at"`
	Type         string          `json:"type" validate:"required"`
	Acknowledged *bool           `json:"acknowledged"`
	Error        *ServerError    `json:"error"`
	Data         json.RawMessage `json:"data"`
}

func (e envelope) header() Header {
	return Header{SessionID: e.SessionID, CreatedAt: e.CreatedAt, Type: e.Type}
}

type transcriptData struct {
	ID        string     `json:"id"`
	IsFinal   *bool      `json:"is_final" validate:"required"`
	Utterance *Utterance `json:"utterance" validate:"required"`
}

type translationData struct {
	UtteranceID         string     `json:"utterance_id"`
	Utterance           *Utterance `json:"utterance" validate:"required"`
	OriginalLanguage    string     `json:"original_language"`
	TargetLanguage      string     `json:"target_language" validate:"required"`
	TranslatedUtterance *Utterance `json:"translated_utterance" validate:"required"`
}

type namedEntityRecognitionData struct {
	UtteranceID string        `json:"utterance_id"`
	Utterance   *Utterance    `json:"utterance" validate:"required"`
	Results     []NamedEntity `json:"results"`
}

type sentimentAnalysisData struct {
	UtteranceID string      `json:"utterance_id"`
	Utterance   *Utterance  `json:"utterance" validate:"required"`
	Results     []Sentiment `json:"results"`
}

type postTranscriptData struct {
	FullTranscript *string     `json:"full_transcript" validate:"required"`
	Languages      []string    `json:"languages"`
	Utterances     []Utterance `json:"utterances"`
	Subtitles      []Subtitle  `json:"subtitles"`
}

type postFinalTranscriptData struct {
	Metadata      *Metadata      `json:"metadata" validate:"required"`
	Transcription *Transcription `json:"transcription"`
	Translation   *GenericResult `json:"translation"`
}

type chapterizationData struct {
	Results []Chapter `json:"results"`
}

type summarizationData struct {
	Results *string `json:"results" validate:"required"`
}

type speechData struct {
	Time    *float64 `json:"time" validate:"required"`
	Channel int      `json:"channel"`
}

type audioChunkAckData struct {
	ByteRange []int64   `json:"byte_range"`
	TimeRange []float64 `json:"time_range"`
}

type stopRecordingAckData struct {
	RecordingDuration      float64 `json:"recording_duration"`
	RecordingLeftToProcess float64 `json:"recording_left_to_process"`
}

// DecodeEvent decodes one server frame. An unrecognised type yields an
// *UnknownEvent. Invalid JSON, a missing type or a missing required field
// yield an *Error with ErrorStatusMalformedEvent.
func DecodeEvent(frame []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, NewErrorWithCause(ErrorStatusMalformedEvent, "invalid event json", err)
	}
	if err := validate.Struct(env); err != nil {
		return nil, malformed(env.Type, err)
	}

	h := env.header()
	switch env.Type {
	case messageTypeTranscript:
		var d transcriptData
		if err := decodeData(env, &d, true); err != nil {
			return nil, err
		}
		return &TranscriptEvent{Header: h, UtteranceID: d.ID, IsFinal: *d.IsFinal, Utterance: *d.Utterance}, nil

	case messageTypeTranslation:
		var d translationData
		if err := decodeData(env, &d, env.Error == nil); err != nil {
			return nil, err
		}
		ev := &TranslationEvent{Header: h, Error: env.Error}
		if d.Utterance != nil {
			ev.UtteranceID = d.UtteranceID
			ev.Utterance = *d.Utterance
			ev.OriginalLanguage = d.OriginalLanguage
			ev.TargetLanguage = d.TargetLanguage
			ev.TranslatedUtterance = *d.TranslatedUtterance
		}
		return ev, nil

	case messageTypeNamedEntityRecognition:
		var d namedEntityRecognitionData
		if err := decodeData(env, &d, env.Error == nil); err != nil {
			return nil, err
		}
		ev := &NamedEntityRecognitionEvent{Header: h, UtteranceID: d.UtteranceID, Entities: d.Results, Error: env.Error}
		if d.Utterance != nil {
			ev.Utterance = *d.Utterance
		}
		return ev, nil

	case messageTypeSentimentAnalysis:
		var d sentimentAnalysisData
		if err := decodeData(env, &d, env.Error == nil); err != nil {
			return nil, err
		}
		ev := &SentimentAnalysisEvent{Header: h, UtteranceID: d.UtteranceID, Results: d.Results, Error: env.Error}
		if d.Utterance != nil {
			ev.Utterance = *d.Utterance
		}
		return ev, nil

	case messageTypePostTranscript:
		var d postTranscriptData
		if err := decodeData(env, &d, env.Error == nil); err != nil {
			return nil, err
		}
		ev := &PostTranscriptEvent{Header: h, Languages: d.Languages, Utterances: d.Utterances, Subtitles: d.Subtitles, Error: env.Error}
		if d.FullTranscript != nil {
			ev.FullTranscript = *d.FullTranscript
		}
		return ev, nil

	case messageTypePostFinalTranscript:
		var d postFinalTranscriptData
		if err := decodeData(env, &d, env.Error == nil); err != nil {
			return nil, err
		}
		ev := &PostFinalTranscriptEvent{Header: h, Transcription: d.Transcription, Translation: d.Translation, Error: env.Error}
		if d.Metadata != nil {
			ev.Metadata = *d.Metadata
		}
		return ev, nil

	case messageTypeChapterization:
		var d chapterizationData
		if err := decodeData(env, &d, false); err != nil {
			return nil, err
		}
		return &ChapterizationEvent{Header: h, Chapters: d.Results, Error: env.Error}, nil

	case messageTypeSummarization:
		var d summarizationData
		if err := decodeData(env, &d, env.Error == nil); err != nil {
			return nil, err
		}
		ev := &SummarizationEvent{Header: h, Error: env.Error}
		if d.Results != nil {
			ev.Summary = *d.Results
		}
		return ev, nil

	case messageTypeSpeechStart, messageTypeSpeechEnd:
		var d speechData
		if err := decodeData(env, &d, true); err != nil {
			return nil, err
		}
		return &SpeechEvent{Header: h, Time: *d.Time, Channel: d.Channel}, nil

	case messageTypeAudioChunk:
		if env.Acknowledged == nil {
			return nil, NewError(ErrorStatusMalformedEvent, "audio_chunk: acknowledged is required")
		}
		var d audioChunkAckData
		if err := decodeData(env, &d, false); err != nil {
			return nil, err
		}
		return &AudioChunkAckEvent{
			Header:       h,
			Acknowledged: *env.Acknowledged,
			ByteRange:    d.ByteRange,
			TimeRange:    d.TimeRange,
			Error:        env.Error,
		}, nil

	case messageTypeStopRecording:
		if env.Acknowledged == nil {
			return nil, NewError(ErrorStatusMalformedEvent, "stop_recording: acknowledged is required")
		}
		var d stopRecordingAckData
		if err := decodeData(env, &d, false); err != nil {
			return nil, err
		}
		return &StopRecordingAckEvent{
			Header:                 h,
			Acknowledged:           *env.Acknowledged,
			RecordingDuration:      d.RecordingDuration,
			RecordingLeftToProcess: d.RecordingLeftToProcess,
			Error:                  env.Error,
		}, nil

	case messageTypeStartSession, messageTypeEndSession, messageTypeStartRecording, messageTypeEndRecording:
		return &LifecycleEvent{Header: h}, nil

	case messageTypeError:
		if env.Error == nil {
			return nil, NewError(ErrorStatusMalformedEvent, "error: error object is required")
		}
		return &ErrorEvent{Header: h, Error: *env.Error}, nil

	default:
		raw := make(json.RawMessage, len(frame))
		copy(raw, frame)
		return &UnknownEvent{Header: h, Raw: raw}, nil
	}
}

// decodeData unmarshals env.Data into dst and validates it. When required is
// false an absent data object is accepted and dst is left zero.
func decodeData(env envelope, dst any, required bool) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		if required {
			return NewError(ErrorStatusMalformedEvent, env.Type+": data is required")
		}
		return nil
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return NewErrorWithCause(ErrorStatusMalformedEvent, env.Type+": invalid data", err)
	}
	if err := validate.Struct(dst); err != nil {
		return malformed(env.Type, err)
	}
	return nil
}

func malformed(eventType string, err error) *Error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewErrorWithCause(ErrorStatusMalformedEvent, "invalid event", err)
	}
	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = fe.Field()
	}
	if eventType == "" {
		eventType = "event"
	}
	return NewErrorWithCause(ErrorStatusMalformedEvent,
		fmt.Sprintf("%s: missing or invalid %s", eventType, strings.Join(fields, ", ")), err)
}
