package speech

// Keys holds the API credentials of the supported backends.
type Keys struct {
	OpenAI   string
	Deepgram string
}

// Select picks the best configured backend: Deepgram streaming, then
// Whisper, otherwise Unavailable.
func Select(keys Keys, opts ...Option) Recognizer {
	switch {
	case keys.Deepgram != "":
		return NewDeepgram(keys.Deepgram, opts...)
	case keys.OpenAI != "":
		return NewWhisper(NewOpenAITranscriber(keys.OpenAI), opts...)
	default:
		return Unavailable{}
	}
}
