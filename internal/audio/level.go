package audio

import "math"

// RMS returns the root-mean-square amplitude of samples normalized to 0..1.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64

	for _, s := range samples {
		f := float64(s) / math.MaxInt16
		sum += f * f
	}

	return math.Sqrt(sum / float64(len(samples)))
}

// IsSilent reports whether a PCM packet stays below the RMS threshold.
func IsSilent(pcm DataPacket, threshold float64) bool {
	return RMS(BytesToInt16(pcm)) < threshold
}
