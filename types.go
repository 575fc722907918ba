package gladia

import "encoding/json"

type Region string

const (
	RegionUSWest Region = "us-west"
	RegionEUWest Region = "eu-west"
)

// Word is a single recognised word with timing in seconds.
type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Utterance is a speech segment with its words.
type Utterance struct {
	Language   string  `json:"language"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	Channel    int     `json:"channel"`
	Words      []Word  `json:"words,omitempty"`
	Text       string  `json:"text"`
	Speaker    *int    `json:"speaker,omitempty"`
}

type Subtitle struct {
	Format    string `json:"format"`
	Subtitles string `json:"subtitles"`
}

type Metadata struct {
	AudioDuration            float64 `json:"audio_duration"`
	NumberOfDistinctChannels int     `json:"number_of_distinct_channels"`
	BillingTime              float64 `json:"billing_time"`
	TranscriptionTime        float64 `json:"transcription_time"`
}

// ServerError is the error object embedded in events and results.
type ServerError struct {
	StatusCode int    `json:"status_code,omitempty"`
	Exception  string `json:"exception,omitempty"`
	Message    string `json:"message,omitempty"`
}

// GenericResult is the shape shared by most post-processing results.
type GenericResult struct {
	Success  bool            `json:"success"`
	IsEmpty  bool            `json:"is_empty"`
	ExecTime float64         `json:"exec_time"`
	Error    *ServerError    `json:"error,omitempty"`
	Results  json.RawMessage `json:"results,omitempty"`
}

// Transcription is the full transcript assembled after the recording ended.
type Transcription struct {
	FullTranscript         string         `json:"full_transcript"`
	Languages              []string       `json:"languages,omitempty"`
	Subtitles              []Subtitle     `json:"subtitles,omitempty"`
	Utterances             []Utterance    `json:"utterances,omitempty"`
	Summarization          *GenericResult `json:"summarization,omitempty"`
	NamedEntityRecognition *GenericResult `json:"named_entity_recognition,omitempty"`
	SentimentAnalysis      *GenericResult `json:"sentiment_analysis,omitempty"`
	Chapters               *GenericResult `json:"chapters,omitempty"`
}

type ResultStatus string

const (
	ResultStatusQueued     ResultStatus = "queued"
	ResultStatusProcessing ResultStatus = "processing"
	ResultStatusDone       ResultStatus = "done"
	ResultStatusError      ResultStatus = "error"
)

type ResultFile struct {
	ID               string  `json:"id"`
	Filename         string  `json:"filename"`
	Source           string  `json:"source,omitempty"`
	AudioDuration    float64 `json:"audio_duration,omitempty"`
	NumberOfChannels int     `json:"number_of_channels"`
}

type ResultData struct {
	Metadata      Metadata        `json:"metadata"`
	Messages      []string        `json:"messages,omitempty"`
	Transcription *Transcription  `json:"transcription,omitempty"`
	Translation   *GenericResult  `json:"translation,omitempty"`
	Summarization *GenericResult  `json:"summarization,omitempty"`
	Chapters      *GenericResult  `json:"chapters,omitempty"`
}

// Result is the stored outcome of a session, shared with the pre-recorded
// job API.
type Result struct {
	ID            string          `json:"id"`
	RequestID     string          `json:"request_id"`
	Version       int             `json:"version"`
	Status        ResultStatus    `json:"status"`
	CreatedAt     string          `json:"created_at"`
	CompletedAt   string          `json:"completed_at,omitempty"`
	Kind          string          `json:"kind"`
	CustomMeta    json.RawMessage `json:"custom_metadata,omitempty"`
	ErrorCode     *int            `json:"error_code,omitempty"`
	File          *ResultFile     `json:"file,omitempty"`
	RequestParams json.RawMessage `json:"request_params,omitempty"`
	Result        *ResultData     `json:"result,omitempty"`
}

// IsFinished reports whether the result will not change anymore.
func (r *Result) IsFinished() bool {
	return r.Status == ResultStatusDone || r.Status == ResultStatusError
}

// sessionInit is the handshake response.
type sessionInit struct {
	ID  string `json:"id" validate:"required"`
	URL string `json:"url" validate:"required,url"`
}

type stopRecordingMessage struct {
	Type string `json:"type"`
}

type audioChunkMessage struct {
	Type string         `json:"type"`
	Data audioChunkData `json:"data"`
}

type audioChunkData struct {
	Chunk string `json:"chunk"`
}
