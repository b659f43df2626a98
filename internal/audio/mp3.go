package audio

import (
	"errors"
	"fmt"
	"io"

	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
)

// EncodeMP3 encodes mono S16LE PCM to MP3 and writes the frames to w.
func EncodeMP3(w io.Writer, pcm []byte, sampleRate int) error {
	if sampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}

	mono := BytesToInt16(pcm)
	if len(mono) == 0 {
		return errors.New("no samples to encode")
	}

	// WORKAROUND: shine-mp3 Write() has a bug for mono (always increments by samples_per_pass * 2)
	// Convert mono to stereo by duplicating samples (L=R)
	stereo := make([]int16, len(mono)*2)
	for i, sample := range mono {
		stereo[i*2] = sample
		stereo[i*2+1] = sample
	}

	encoder := mp3encoder.NewEncoder(sampleRate, 2)
	if err := encoder.Write(w, stereo); err != nil {
		return fmt.Errorf("failed to encode audio to MP3: %w", err)
	}

	return nil
}
