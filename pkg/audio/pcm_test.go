package audio_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

func TestPCMConversions(t *testing.T) {
	samples := []int16{0, 1, -1, math.MaxInt16, math.MinInt16, 256}
	b := audio.PCMInt16ToLE(samples)

	assert.Len(t, b, len(samples)*2)
	assert.Equal(t, []byte{0x01, 0x00}, b[2:4])
	assert.Equal(t, []byte{0xff, 0xff}, b[4:6])
	assert.Equal(t, samples, audio.LEToPCMInt16(b))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, int16(math.MaxInt16), audio.Clamp16(40000))
	assert.Equal(t, int16(math.MinInt16), audio.Clamp16(-40000))
	assert.Equal(t, int16(12), audio.Clamp16(12))

	assert.Equal(t, int16(-1), audio.RoundClamp16(-0.5))
	assert.Equal(t, int16(1), audio.RoundClamp16(0.5))
	assert.Equal(t, int16(math.MaxInt16), audio.RoundClamp16(32767.6))
}

func TestChannelConversions(t *testing.T) {
	assert.Equal(t, []int16{150, -1}, audio.StereoToMono([]int16{100, 200, -1, -2}))
	assert.Equal(t, []int16{7, 7, -3, -3}, audio.MonoToStereo([]int16{7, -3}))
}

func TestFormat(t *testing.T) {
	f := audio.NewFormat(2)
	assert.Equal(t, 4, f.BlockAlign())
	assert.Equal(t, 192000, f.ByteRate())
	assert.Equal(t, time.Second, f.Duration(192000))
	assert.Equal(t, 20*time.Millisecond, audio.Mono48k.SamplesDuration(audio.FrameSize))
	assert.Equal(t, time.Duration(0), audio.Format{}.Duration(100))
}
