package gladia

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Encoding string

const (
	EncodingWavPCM  Encoding = "wav/pcm"
	EncodingWavALaw Encoding = "wav/alaw"
	EncodingWavULaw Encoding = "wav/ulaw"
)

// IsCompanded reports whether the encoding is a fixed 8-bit companded format.
func (e Encoding) IsCompanded() bool {
	return e == EncodingWavALaw || e == EncodingWavULaw
}

type TranslationModel string

const (
	TranslationModelBase     TranslationModel = "base"
	TranslationModelEnhanced TranslationModel = "enhanced"
)

type SummarizationType string

const (
	SummarizationTypeGeneral      SummarizationType = "general"
	SummarizationTypeBulletPoints SummarizationType = "bullet_points"
	SummarizationTypeConcise      SummarizationType = "concise"
)

type LanguageConfig struct {
	Languages     []string `json:"languages,omitempty"`
	CodeSwitching bool     `json:"code_switching,omitempty"`
}

type PreProcessing struct {
	AudioEnhancer   bool    `json:"audio_enhancer,omitempty"`
	SpeechThreshold float64 `json:"speech_threshold,omitempty" validate:"gte=0,lte=1"`
}

type VocabularyEntry struct {
	Value          string   `json:"value" validate:"required"`
	Intensity      float64  `json:"intensity,omitempty" validate:"gte=0,lte=1"`
	Pronunciations []string `json:"pronunciations,omitempty"`
	Language       string   `json:"language,omitempty"`
}

type CustomVocabularyConfig struct {
	Vocabulary       []VocabularyEntry `json:"vocabulary,omitempty" validate:"dive"`
	DefaultIntensity float64           `json:"default_intensity,omitempty" validate:"gte=0,lte=1"`
}

type CustomSpellingConfig struct {
	SpellingDictionary map[string][]string `json:"spelling_dictionary,omitempty"`
}

type TranslationConfig struct {
	Model                   TranslationModel `json:"model,omitempty" validate:"omitempty,oneof=base enhanced"`
	TargetLanguages         []string         `json:"target_languages,omitempty"`
	MatchOriginalUtterances *bool            `json:"match_original_utterances,omitempty"`
	Lipsync                 *bool            `json:"lipsync,omitempty"`
	ContextAdaptation       *bool            `json:"context_adaptation,omitempty"`
	Context                 string           `json:"context,omitempty"`
	Informal                *bool            `json:"informal,omitempty"`
}

type RealtimeProcessing struct {
	CustomVocabulary       bool                    `json:"custom_vocabulary,omitempty"`
	CustomVocabularyConfig *CustomVocabularyConfig `json:"custom_vocabulary_config,omitempty"`
	CustomSpelling         bool                    `json:"custom_spelling,omitempty"`
	CustomSpellingConfig   *CustomSpellingConfig   `json:"custom_spelling_config,omitempty"`
	Translation            bool                    `json:"translation,omitempty"`
	TranslationConfig      *TranslationConfig      `json:"translation_config,omitempty"`
	NamedEntityRecognition bool                    `json:"named_entity_recognition,omitempty"`
	SentimentAnalysis      bool                    `json:"sentiment_analysis,omitempty"`
}

type SummarizationConfig struct {
	Type SummarizationType `json:"type,omitempty" validate:"omitempty,oneof=general bullet_points concise"`
}

type PostProcessing struct {
	Summarization       bool                 `json:"summarization,omitempty"`
	SummarizationConfig *SummarizationConfig `json:"summarization_config,omitempty"`
	Chapterization      bool                 `json:"chapterization,omitempty"`
}

// MessagesConfig selects which events the server pushes over the socket.
// A nil field leaves the server default in place.
type MessagesConfig struct {
	ReceivePartialTranscripts       *bool `json:"receive_partial_transcripts,omitempty"`
	ReceiveFinalTranscripts         *bool `json:"receive_final_transcripts,omitempty"`
	ReceiveSpeechEvents             *bool `json:"receive_speech_events,omitempty"`
	ReceivePreProcessingEvents      *bool `json:"receive_pre_processing_events,omitempty"`
	ReceiveRealtimeProcessingEvents *bool `json:"receive_realtime_processing_events,omitempty"`
	ReceivePostProcessingEvents     *bool `json:"receive_post_processing_events,omitempty"`
	ReceiveAcknowledgments          *bool `json:"receive_acknowledgments,omitempty"`
	ReceiveErrors                   *bool `json:"receive_errors,omitempty"`
	ReceiveLifecycleEvents          *bool `json:"receive_lifecycle_events,omitempty"`
}

// CallbackConfig configures the webhook the server calls in parallel to the socket.
type CallbackConfig struct {
	URL                             string `json:"url,omitempty" validate:"omitempty,url"`
	ReceivePartialTranscripts       *bool  `json:"receive_partial_transcripts,omitempty"`
	ReceiveFinalTranscripts         *bool  `json:"receive_final_transcripts,omitempty"`
	ReceiveSpeechEvents             *bool  `json:"receive_speech_events,omitempty"`
	ReceivePreProcessingEvents      *bool  `json:"receive_pre_processing_events,omitempty"`
	ReceiveRealtimeProcessingEvents *bool  `json:"receive_realtime_processing_events,omitempty"`
	ReceivePostProcessingEvents     *bool  `json:"receive_post_processing_events,omitempty"`
	ReceiveAcknowledgments          *bool  `json:"receive_acknowledgments,omitempty"`
	ReceiveErrors                   *bool  `json:"receive_errors,omitempty"`
	ReceiveLifecycleEvents          *bool  `json:"receive_lifecycle_events,omitempty"`
}

// SessionConfig is the body of the live session handshake.
type SessionConfig struct {
	Encoding                          Encoding            `json:"encoding,omitempty" validate:"omitempty,oneof=wav/pcm wav/alaw wav/ulaw"`
	BitDepth                          int                 `json:"bit_depth,omitempty" validate:"omitempty,oneof=8 16 24 32"`
	SampleRate                        int                 `json:"sample_rate,omitempty" validate:"omitempty,oneof=8000 16000 32000 44100 48000"`
	Channels                          int                 `json:"channels,omitempty" validate:"gte=0,lte=8"`
	Model                             string              `json:"model,omitempty"`
	Endpointing                       *float64            `json:"endpointing,omitempty" validate:"omitempty,gte=0,lte=10"`
	MaximumDurationWithoutEndpointing *int                `json:"maximum_duration_without_endpointing,omitempty" validate:"omitempty,gte=0"`
	CustomMetadata                    map[string]any      `json:"custom_metadata,omitempty"`
	LanguageConfig                    *LanguageConfig     `json:"language_config,omitempty"`
	PreProcessing                     *PreProcessing      `json:"pre_processing,omitempty"`
	RealtimeProcessing                *RealtimeProcessing `json:"realtime_processing,omitempty"`
	PostProcessing                    *PostProcessing     `json:"post_processing,omitempty"`
	MessagesConfig                    *MessagesConfig     `json:"messages_config,omitempty"`
	Callback                          bool                `json:"callback,omitempty"`
	CallbackConfig                    *CallbackConfig     `json:"callback_config,omitempty"`
}

func (c *SessionConfig) applyDefaults() {
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.BitDepth == 0 {
		if c.Encoding.IsCompanded() {
			c.BitDepth = 8
		} else {
			c.BitDepth = DefaultBitDepth
		}
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	// nil means unset; an explicit zero is sent as is.
	if c.Endpointing == nil {
		c.Endpointing = Float64(DefaultEndpointing)
	}
	if c.MaximumDurationWithoutEndpointing == nil {
		c.MaximumDurationWithoutEndpointing = Int(DefaultMaxDurationWithoutEndpointing)
	}
}

// Validate checks the configuration without touching the network. The
// returned error has ErrorStatusInvalidConfig.
func (c SessionConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewErrorWithCause(ErrorStatusInvalidConfig, "invalid session config", err)
	}
	messages := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = describeFieldError(fe)
	}
	return NewErrorWithCause(ErrorStatusInvalidConfig, strings.Join(messages, "; "), err)
}

// clone returns a deep enough copy for the session to own its configuration.
func (c SessionConfig) clone() SessionConfig {
	out := c
	if c.Endpointing != nil {
		out.Endpointing = Float64(*c.Endpointing)
	}
	if c.MaximumDurationWithoutEndpointing != nil {
		out.MaximumDurationWithoutEndpointing = Int(*c.MaximumDurationWithoutEndpointing)
	}
	if c.CustomMetadata != nil {
		out.CustomMetadata = make(map[string]any, len(c.CustomMetadata))
		for k, v := range c.CustomMetadata {
			out.CustomMetadata[k] = v
		}
	}
	if c.LanguageConfig != nil {
		lc := *c.LanguageConfig
		lc.Languages = append([]string(nil), c.LanguageConfig.Languages...)
		out.LanguageConfig = &lc
	}
	if c.PreProcessing != nil {
		pp := *c.PreProcessing
		out.PreProcessing = &pp
	}
	if c.RealtimeProcessing != nil {
		rp := *c.RealtimeProcessing
		if rp.TranslationConfig != nil {
			tc := *rp.TranslationConfig
			tc.TargetLanguages = append([]string(nil), tc.TargetLanguages...)
			rp.TranslationConfig = &tc
		}
		out.RealtimeProcessing = &rp
	}
	if c.PostProcessing != nil {
		pp := *c.PostProcessing
		out.PostProcessing = &pp
	}
	if c.MessagesConfig != nil {
		mc := *c.MessagesConfig
		out.MessagesConfig = &mc
	}
	if c.CallbackConfig != nil {
		cc := *c.CallbackConfig
		out.CallbackConfig = &cc
	}
	return out
}

// Bool returns a pointer to v, for the optional flags of MessagesConfig and friends.
func Bool(v bool) *bool {
	return &v
}

func Float64(v float64) *float64 {
	return &v
}

func Int(v int) *int {
	return &v
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateSessionConfig, SessionConfig{})
	return v
}

func validateSessionConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(SessionConfig)

	if cfg.Encoding.IsCompanded() && cfg.BitDepth != 8 {
		sl.ReportError(cfg.BitDepth, "bit_depth", "BitDepth", "encoding_bit_depth", string(cfg.Encoding))
	}
	if rp := cfg.RealtimeProcessing; rp != nil && rp.Translation {
		if rp.TranslationConfig == nil || len(rp.TranslationConfig.TargetLanguages) == 0 {
			sl.ReportError(rp.TranslationConfig, "translation_config", "TranslationConfig", "target_languages", "")
		}
	}
	if cfg.Callback && (cfg.CallbackConfig == nil || cfg.CallbackConfig.URL == "") {
		sl.ReportError(cfg.CallbackConfig, "callback_config", "CallbackConfig", "callback_url", "")
	}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "encoding_bit_depth":
		return fmt.Sprintf("%s: encoding %s requires a bit depth of 8, got %v", field, fe.Param(), fe.Value())
	case "target_languages":
		return fmt.Sprintf("%s: translation requires at least one target language", field)
	case "callback_url":
		return fmt.Sprintf("%s: callback requires a url", field)
	case "required":
		return fmt.Sprintf("%s: is required", field)
	default:
		return fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param())
	}
}
