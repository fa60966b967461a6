package clip_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/mixer"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
	"github.com/Raikerian/go-discord-clipper/pkg/test"
)

type staticSource map[capture.SourceID][]capture.Chunk

func (s staticSource) AllSnapshots(time.Duration) map[capture.SourceID][]capture.Chunk {
	return s
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func twoSpeakers() staticSource {
	return staticSource{
		"alice": {{Timestamp: t0, Seq: 1, Samples: []int16{1000, -2000}}},
		"bob":   {{Timestamp: t0.Add(20 * time.Millisecond), Seq: 2, Samples: []int16{500}}},
	}
}

type fixture struct {
	assembler *clip.Assembler
	lastClips *clip.LastClips
	tempDir   string

	mu     sync.Mutex
	states []clip.State
}

func newFixture(t *testing.T, mutate func(*clip.Settings), enc *clip.ExternalEncoder) *fixture {
	t.Helper()
	f := &fixture{tempDir: t.TempDir()}

	settings := clip.Settings{
		DefaultDuration: 30 * time.Second,
		MaxDuration:     120 * time.Second,
		Mode:            mixer.Concatenate,
		Format:          audio.Mono48k,
		TempDir:         f.tempDir,
	}
	if mutate != nil {
		mutate(&settings)
	}

	lc, err := clip.NewLastClips(4)
	require.NoError(t, err)
	f.lastClips = lc

	f.assembler = clip.NewAssembler(clip.AssemblerParams{
		Logger:    zaptest.NewLogger(t),
		Settings:  settings,
		LastClips: lc,
		Encoder:   enc,
		Observer: func(_ clip.Request, _, to clip.State) {
			f.mu.Lock()
			f.states = append(f.states, to)
			f.mu.Unlock()
		},
	})
	return f
}

func (f *fixture) assertTempDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func clipRequest() clip.Request {
	return clip.Request{
		Kind:        clip.KindClip,
		Duration:    30 * time.Second,
		GuildID:     "1",
		RequesterID: "42",
		Origin:      clip.OriginCommand,
	}
}

func TestAssemble_Success(t *testing.T) {
	f := newFixture(t, nil, nil)

	var delivered []byte
	var artifact clip.Artifact
	dst := test.NewMockDeliverer(t)
	dst.EXPECT().Target().Return(clip.TargetDM).Maybe()
	dst.EXPECT().Deliver(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, req clip.Request, a clip.Artifact) {
			artifact = a
			b, err := io.ReadAll(a.Reader)
			require.NoError(t, err)
			delivered = b
		}).
		Return(nil).Once()

	out, err := f.assembler.Assemble(context.Background(), clipRequest(), twoSpeakers(), dst)
	require.NoError(t, err)
	assert.False(t, out.Empty)
	assert.Equal(t, 2, out.Sources)
	assert.Equal(t, "✅ Clip sent to your DMs!", out.Message)

	wantPCM := audio.Normalize(audio.PCMInt16ToLE([]int16{1000, -2000, 500}))
	wantWAV, err := audio.EncodeWAV(audio.Mono48k, wantPCM)
	require.NoError(t, err)
	assert.Equal(t, wantWAV, delivered)
	assert.Equal(t, clip.ArtifactName, artifact.Filename)
	assert.Equal(t, int64(len(wantWAV)), artifact.Size)
	assert.Equal(t, int64(len(wantWAV)), out.Size)

	f.assertTempDirEmpty(t)

	last, ok := f.lastClips.Get("42")
	require.True(t, ok)
	assert.Equal(t, wantPCM, last.PCM)

	assert.Equal(t, []clip.State{
		clip.StateCollecting,
		clip.StateMixing,
		clip.StateNormalizing,
		clip.StateSerializing,
		clip.StateDelivering,
		clip.StateIdle,
	}, f.states)
}

func TestAssemble_Empty(t *testing.T) {
	tests := map[string]struct {
		src  clip.SnapshotSource
		req  clip.Request
		want string
	}{
		"no sources": {
			src:  staticSource{},
			req:  clipRequest(),
			want: "No audio captured in the last 30 seconds.",
		},
		"sources without samples": {
			src:  staticSource{"alice": {{Timestamp: t0, Seq: 1}}},
			req:  clip.Request{Kind: clip.KindClip, Duration: 10 * time.Second, RequesterID: "42"},
			want: "No audio captured in the last 10 seconds.",
		},
		"empty recording": {
			src:  staticSource{},
			req:  clip.Request{Kind: clip.KindStopRecording, Duration: 120 * time.Second, RequesterID: "42"},
			want: "No audio was captured during the recording.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil, nil)
			dst := test.NewMockDeliverer(t)

			out, err := f.assembler.Assemble(context.Background(), tt.req, tt.src, dst)
			require.NoError(t, err)
			assert.True(t, out.Empty)
			assert.Equal(t, tt.want, out.Message)
			dst.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
			f.assertTempDirEmpty(t)

			_, ok := f.lastClips.Get("42")
			assert.False(t, ok)
		})
	}
}

func TestAssemble_DefaultDuration(t *testing.T) {
	f := newFixture(t, nil, nil)
	req := clipRequest()
	req.Duration = 0

	out, err := f.assembler.Assemble(context.Background(), req, staticSource{}, test.NewMockDeliverer(t))
	require.NoError(t, err)
	assert.Equal(t, "No audio captured in the last 30 seconds.", out.Message)
}

func TestAssemble_InvalidDuration(t *testing.T) {
	f := newFixture(t, nil, nil)

	for name, d := range map[string]time.Duration{
		"too short": 500 * time.Millisecond,
		"too long":  121 * time.Second,
	} {
		t.Run(name, func(t *testing.T) {
			req := clipRequest()
			req.Duration = d
			_, err := f.assembler.Assemble(context.Background(), req, twoSpeakers(), test.NewMockDeliverer(t))
			assert.ErrorIs(t, err, clip.ErrInvalidRequest)
		})
	}
}

func TestAssemble_DeliveryFault(t *testing.T) {
	f := newFixture(t, nil, nil)

	dst := test.NewMockDeliverer(t)
	dst.EXPECT().Target().Return(clip.TargetDM)
	dst.EXPECT().Deliver(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("dms closed"))

	_, err := f.assembler.Assemble(context.Background(), clipRequest(), twoSpeakers(), dst)
	require.Error(t, err)

	var fault *clip.DeliveryFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, clip.TargetDM, fault.Target)
	assert.Equal(t, "I couldn't send you a DM. Please check your privacy settings.", clip.UserMessage(err))

	f.assertTempDirEmpty(t)
	_, ok := f.lastClips.Get("42")
	assert.False(t, ok)
	assert.Contains(t, f.states, clip.StateFailed)
	assert.Equal(t, clip.StateIdle, f.states[len(f.states)-1])
}

func TestAssemble_SerializationFault(t *testing.T) {
	f := newFixture(t, func(s *clip.Settings) {
		s.TempDir = filepath.Join(s.TempDir, "missing")
	}, nil)

	_, err := f.assembler.Assemble(context.Background(), clipRequest(), twoSpeakers(), test.NewMockDeliverer(t))

	var fault *clip.SerializationFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "create", fault.Op)
	assert.Contains(t, f.states, clip.StateFailed)
	f.assertTempDirEmpty(t)
}

func TestAssemble_UnknownMixMode(t *testing.T) {
	f := newFixture(t, func(s *clip.Settings) {
		s.Mode = mixer.Mode("layered")
	}, nil)

	_, err := f.assembler.Assemble(context.Background(), clipRequest(), twoSpeakers(), test.NewMockDeliverer(t))

	require.ErrorIs(t, err, mixer.ErrUnknownMode)
	var fault *clip.SerializationFault
	assert.False(t, errors.As(err, &fault))
	assert.Contains(t, f.states, clip.StateFailed)
	f.assertTempDirEmpty(t)
}

func TestAssemble_Concurrent(t *testing.T) {
	f := newFixture(t, nil, nil)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dst := test.NewMockDeliverer(t)
			dst.EXPECT().Target().Return(clip.TargetChannel).Maybe()
			dst.EXPECT().Deliver(mock.Anything, mock.Anything, mock.Anything).
				RunAndReturn(func(_ context.Context, _ clip.Request, a clip.Artifact) error {
					_, err := io.Copy(io.Discard, a.Reader)
					return err
				})

			req := clipRequest()
			req.RequesterID = string(rune('a' + i))
			out, err := f.assembler.Assemble(context.Background(), req, twoSpeakers(), dst)
			assert.NoError(t, err)
			assert.Equal(t, "✅ Clip posted.", out.Message)
		}()
	}
	wg.Wait()

	f.assertTempDirEmpty(t)
	assert.Equal(t, 4, f.lastClips.Len())
}

func TestAssemble_ExternalEncoder(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}

	newEncoder := func(args []string, timeout time.Duration) *clip.ExternalEncoder {
		cfg := config.Default()
		cfg.Clip.ExternalEncoder = config.ExternalEncoderConfig{
			Command: "/bin/sh",
			Args:    args,
			Timeout: timeout,
		}
		return clip.NewExternalEncoder(cfg, zaptest.NewLogger(t))
	}

	t.Run("copies output", func(t *testing.T) {
		enc := newEncoder([]string{"-c", `cp "$0" "$1"`, "{input}", "{output}"}, 5*time.Second)
		f := newFixture(t, nil, enc)

		var delivered bytes.Buffer
		dst := test.NewMockDeliverer(t)
		dst.EXPECT().Target().Return(clip.TargetChannel).Maybe()
		dst.EXPECT().Deliver(mock.Anything, mock.Anything, mock.Anything).
			RunAndReturn(func(_ context.Context, _ clip.Request, a clip.Artifact) error {
				_, err := io.Copy(&delivered, a.Reader)
				return err
			})

		_, err := f.assembler.Assemble(context.Background(), clipRequest(), twoSpeakers(), dst)
		require.NoError(t, err)

		hdr, err := audio.ParseWAVHeader(bytes.NewReader(delivered.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, uint32(6), hdr.DataLength)
		f.assertTempDirEmpty(t)
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		enc := newEncoder([]string{"-c", "sleep 10", "{input}"}, 100*time.Millisecond)
		f := newFixture(t, nil, enc)

		start := time.Now()
		_, err := f.assembler.Assemble(context.Background(), clipRequest(), twoSpeakers(), test.NewMockDeliverer(t))
		assert.Less(t, time.Since(start), 5*time.Second)

		var fault *clip.SerializationFault
		require.ErrorAs(t, err, &fault)
		assert.Equal(t, "encode", fault.Op)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		f.assertTempDirEmpty(t)
	})

	t.Run("invalid output", func(t *testing.T) {
		enc := newEncoder([]string{"-c", `echo nope > "$1"`, "{input}", "{output}"}, 5*time.Second)
		f := newFixture(t, nil, enc)

		_, err := f.assembler.Assemble(context.Background(), clipRequest(), twoSpeakers(), test.NewMockDeliverer(t))
		var fault *clip.SerializationFault
		require.ErrorAs(t, err, &fault)
		f.assertTempDirEmpty(t)
	})
}

func TestNewExternalEncoder_Disabled(t *testing.T) {
	assert.Nil(t, clip.NewExternalEncoder(config.Default(), zaptest.NewLogger(t)))
}
