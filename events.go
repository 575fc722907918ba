package gladia

import "encoding/json"

// EventKind classifies a decoded server message. Handlers are registered per kind.
type EventKind string

const (
	KindPartialTranscript         EventKind = "partial_transcript"
	KindFinalTranscript           EventKind = "final_transcript"
	KindTranslation               EventKind = "translation"
	KindSentimentAnalysis         EventKind = "sentiment_analysis"
	KindNamedEntityRecognition    EventKind = "named_entity_recognition"
	KindPostTranscript            EventKind = "post_transcript"
	KindPostFinalTranscript       EventKind = "post_final_transcript"
	KindChapterization            EventKind = "chapterization"
	KindSummarization             EventKind = "summarization"
	KindSpeechStarted             EventKind = "speech_started"
	KindSpeechEnded               EventKind = "speech_ended"
	KindAudioChunkAcknowledged    EventKind = "audio_chunk_acknowledged"
	KindStopRecordingAcknowledged EventKind = "stop_recording_acknowledged"
	KindStartSession              EventKind = "start_session"
	KindEndSession                EventKind = "end_session"
	KindStartRecording            EventKind = "start_recording"
	KindEndRecording              EventKind = "end_recording"
	KindError                     EventKind = "error"
	KindUnknown                   EventKind = "unknown"
)

// Wire values of the "type" discriminator.
const (
	messageTypeTranscript             = "transcript"
	messageTypeTranslation            = "translation"
	messageTypeSentimentAnalysis      = "sentiment_analysis"
	messageTypeNamedEntityRecognition = "named_entity_recognition"
	messageTypePostTranscript         = "post_transcript"
	messageTypePostFinalTranscript    = "post_final_transcript"
	messageTypeChapterization         = "post_chapterization"
	messageTypeSummarization          = "post_summarization"
	messageTypeSpeechStart            = "speech_start"
	messageTypeSpeechEnd              = "speech_end"
	messageTypeAudioChunk             = "audio_chunk"
	messageTypeStopRecording          = "stop_recording"
	messageTypeStartSession           = "start_session"
	messageTypeEndSession             = "end_session"
	messageTypeStartRecording         = "start_recording"
	messageTypeEndRecording           = "end_recording"
	messageTypeError                  = "error"
)

// Event is one decoded server message. The concrete type is one of the
// *XxxEvent types in this file; switch on Kind or on the type.
type Event interface {
	Kind() EventKind
	Meta() Header
}

// Header holds the fields common to every server message.
type Header struct {
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
	Type      string `json:"type"`
}

func (h Header) Meta() Header { return h }

// TranscriptEvent is a partial or final transcript of one utterance.
type TranscriptEvent struct {
	Header
	UtteranceID string
	IsFinal     bool
	Utterance   Utterance
}

func (e *TranscriptEvent) Kind() EventKind {
	if e.IsFinal {
		return KindFinalTranscript
	}
	return KindPartialTranscript
}

type TranslationEvent struct {
	Header
	UtteranceID         string
	Utterance           Utterance
	OriginalLanguage    string
	TargetLanguage      string
	TranslatedUtterance Utterance
	Error               *ServerError
}

func (e *TranslationEvent) Kind() EventKind { return KindTranslation }

type NamedEntity struct {
	EntityType string  `json:"entity_type"`
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}

type NamedEntityRecognitionEvent struct {
	Header
	UtteranceID string
	Utterance   Utterance
	Entities    []NamedEntity
	Error       *ServerError
}

func (e *NamedEntityRecognitionEvent) Kind() EventKind { return KindNamedEntityRecognition }

type Sentiment struct {
	Sentiment string  `json:"sentiment"`
	Emotion   string  `json:"emotion"`
	Text      string  `json:"text"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Channel   float64 `json:"channel"`
}

type SentimentAnalysisEvent struct {
	Header
	UtteranceID string
	Utterance   Utterance
	Results     []Sentiment
	Error       *ServerError
}

func (e *SentimentAnalysisEvent) Kind() EventKind { return KindSentimentAnalysis }

// PostTranscriptEvent carries the full transcript once the recording ended,
// before post-processing.
type PostTranscriptEvent struct {
	Header
	FullTranscript string
	Languages      []string
	Utterances     []Utterance
	Subtitles      []Subtitle
	Error          *ServerError
}

func (e *PostTranscriptEvent) Kind() EventKind { return KindPostTranscript }

// PostFinalTranscriptEvent carries the complete session result, including
// post-processing output.
type PostFinalTranscriptEvent struct {
	Header
	Metadata      Metadata
	Transcription *Transcription
	Translation   *GenericResult
	Error         *ServerError
}

func (e *PostFinalTranscriptEvent) Kind() EventKind { return KindPostFinalTranscript }

type Chapter struct {
	Headline           string   `json:"headline"`
	Gist               string   `json:"gist"`
	Keywords           []string `json:"keywords,omitempty"`
	Start              float64  `json:"start"`
	End                float64  `json:"end"`
	Text               string   `json:"text"`
	AbstractiveSummary string   `json:"abstractive_summary"`
	ExtractiveSummary  string   `json:"extractive_summary"`
	Summary            string   `json:"summary"`
}

type ChapterizationEvent struct {
	Header
	Chapters []Chapter
	Error    *ServerError
}

func (e *ChapterizationEvent) Kind() EventKind { return KindChapterization }

type SummarizationEvent struct {
	Header
	Summary string
	Error   *ServerError
}

func (e *SummarizationEvent) Kind() EventKind { return KindSummarization }

// SpeechEvent marks the start or end of speech on a channel.
type SpeechEvent struct {
	Header
	Time    float64
	Channel int
}

func (e *SpeechEvent) Kind() EventKind {
	if e.Type == messageTypeSpeechEnd {
		return KindSpeechEnded
	}
	return KindSpeechStarted
}

// AudioChunkAckEvent acknowledges received audio. ByteRange and TimeRange
// identify the acknowledged span.
type AudioChunkAckEvent struct {
	Header
	Acknowledged bool
	ByteRange    []int64
	TimeRange    []float64
	Error        *ServerError
}

func (e *AudioChunkAckEvent) Kind() EventKind { return KindAudioChunkAcknowledged }

type StopRecordingAckEvent struct {
	Header
	Acknowledged           bool
	RecordingDuration      float64
	RecordingLeftToProcess float64
	Error                  *ServerError
}

func (e *StopRecordingAckEvent) Kind() EventKind { return KindStopRecordingAcknowledged }

// LifecycleEvent is one of start_session, end_session, start_recording and
// end_recording.
type LifecycleEvent struct {
	Header
}

func (e *LifecycleEvent) Kind() EventKind {
	switch e.Type {
	case messageTypeStartSession:
		return KindStartSession
	case messageTypeEndSession:
		return KindEndSession
	case messageTypeStartRecording:
		return KindStartRecording
	default:
		return KindEndRecording
	}
}

// ErrorEvent is an error reported by the server inside the stream.
type ErrorEvent struct {
	Header
	Error ServerError
}

func (e *ErrorEvent) Kind() EventKind { return KindError }

// UnknownEvent is a message whose type this client does not know. Raw holds
// the original frame.
type UnknownEvent struct {
	Header
	Raw json.RawMessage
}

func (e *UnknownEvent) Kind() EventKind { return KindUnknown }
