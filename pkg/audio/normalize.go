package audio

import "math"

// Normalize rescales 16-bit little-endian PCM so that its loudest sample
// reaches full scale. A single gain is applied to the whole buffer.
//
// The input is never modified. Silence (or a buffer shorter than one sample)
// is returned as-is; otherwise a new buffer is returned. A trailing odd byte
// is copied through unchanged.
func Normalize(pcm []byte) []byte {
	peak := Peak(pcm)
	if peak == 0 {
		return pcm
	}

	scale := float64(math.MaxInt16) / float64(peak)
	samples := LEToPCMInt16(pcm)
	for i, s := range samples {
		samples[i] = RoundClamp16(float64(s) * scale)
	}

	out := PCMInt16ToLE(samples)
	if len(pcm)%2 == 1 {
		out = append(out, pcm[len(pcm)-1])
	}
	return out
}

// Peak returns the largest absolute sample magnitude in pcm.
func Peak(pcm []byte) int {
	peak := 0
	for _, s := range LEToPCMInt16(pcm) {
		a := int(s)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}
