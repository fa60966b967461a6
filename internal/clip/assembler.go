package clip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/mixer"
	"github.com/Raikerian/go-discord-clipper/internal/observe"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// State is a step of clip assembly.
type State string

const (
	StateIdle        State = "idle"
	StateCollecting  State = "collecting"
	StateMixing      State = "mixing"
	StateNormalizing State = "normalizing"
	StateSerializing State = "serializing"
	StateDelivering  State = "delivering"
	StateFailed      State = "failed"
)

// StateObserver is notified of every state transition.
type StateObserver func(req Request, from, to State)

// SnapshotSource is where clip audio is collected from.
type SnapshotSource interface {
	AllSnapshots(window time.Duration) map[capture.SourceID][]capture.Chunk
}

// Outcome describes a finished assembly.
type Outcome struct {
	// Empty is set when there was no audio to clip. Nothing was delivered.
	Empty bool
	// Message is a user-facing summary.
	Message  string
	Sources  int
	Duration time.Duration
	Size     int64
}

// Settings configure an Assembler.
type Settings struct {
	DefaultDuration time.Duration
	MaxDuration     time.Duration
	Mode            mixer.Mode
	Format          audio.Format
	TempDir         string
}

// AssemblerParams holds dependencies for NewAssembler.
type AssemblerParams struct {
	Logger    *zap.Logger
	Settings  Settings
	Metrics   *observe.Metrics
	LastClips *LastClips
	// Encoder is optional.
	Encoder  *ExternalEncoder
	Observer StateObserver
	Clock    func() time.Time
}

// Assembler runs Collecting, Mixing, Normalizing, Serializing and Delivering
// for each request. Calls are independent and may run concurrently; each owns
// copies of the data it works on.
type Assembler struct {
	logger    *zap.Logger
	settings  Settings
	metrics   *observe.Metrics
	lastClips *LastClips
	encoder   *ExternalEncoder
	observer  StateObserver
	now       func() time.Time
}

// NewAssembler creates an Assembler.
func NewAssembler(params AssemblerParams) *Assembler {
	a := &Assembler{
		logger:    params.Logger,
		settings:  params.Settings,
		metrics:   params.Metrics,
		lastClips: params.LastClips,
		encoder:   params.Encoder,
		observer:  params.Observer,
		now:       params.Clock,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.metrics == nil {
		a.metrics = observe.Nop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.settings.Format.SampleRate == 0 {
		a.settings.Format = audio.Mono48k
	}
	return a
}

// Settings returns the assembler settings.
func (a *Assembler) Settings() Settings { return a.settings }

type run struct {
	a     *Assembler
	req   Request
	log   *zap.Logger
	state State
}

func (r *run) to(next State) {
	r.log.Debug("Clip state transition",
		zap.String("from", string(r.state)),
		zap.String("to", string(next)),
	)
	if r.a.observer != nil {
		r.a.observer(r.req, r.state, next)
	}
	r.state = next
}

// Assemble produces a clip of req from src and hands it to dst. An empty
// source yields Outcome.Empty with no error and no delivery.
func (a *Assembler) Assemble(ctx context.Context, req Request, src SnapshotSource, dst Deliverer) (out Outcome, err error) {
	if req.Duration == 0 && req.Kind == KindClip {
		req.Duration = a.settings.DefaultDuration
	}

	r := &run{
		a:   a,
		req: req,
		log: a.logger.With(
			zap.String("guild_id", req.GuildID),
			zap.String("requester_id", req.RequesterID),
			zap.String("origin", string(req.Origin)),
			zap.Duration("window", req.Duration),
		),
		state: StateIdle,
	}

	start := a.now()
	defer func() {
		status := "ok"
		switch {
		case err != nil:
			status = "failed"
			r.to(StateFailed)
			r.log.Warn("Clip failed", zap.Error(err))
		case out.Empty:
			status = "empty"
		}
		if r.state != StateIdle {
			r.to(StateIdle)
		}
		a.metrics.RecordClip(ctx, status, string(req.Origin))
		a.metrics.ClipAssembly.Record(ctx, a.now().Sub(start).Seconds(),
			metric.WithAttributes(attribute.String("status", status)))
	}()

	if err := req.Validate(a.settings.MaxDuration); err != nil {
		return Outcome{}, err
	}

	r.to(StateCollecting)
	snaps := src.AllSnapshots(req.Duration)

	r.to(StateMixing)
	mixed, err := mixer.Combine(snaps, a.settings.Mode)
	if err != nil {
		return Outcome{}, fmt.Errorf("mix: %w", err)
	}
	if mixed.Empty {
		r.log.Info("No audio to clip")
		return Outcome{Empty: true, Message: emptyMessage(req)}, nil
	}

	r.to(StateNormalizing)
	pcm := audio.Normalize(mixed.PCM)
	length := a.settings.Format.Duration(len(pcm))

	r.to(StateSerializing)
	path, cleanup, err := a.serialize(ctx, req, pcm)
	defer cleanup()
	if err != nil {
		return Outcome{}, err
	}

	r.to(StateDelivering)
	size, err := a.deliver(ctx, req, dst, path, length)
	if err != nil {
		return Outcome{}, err
	}

	if a.lastClips != nil && req.RequesterID != "" {
		a.lastClips.Put(req.RequesterID, LastClip{
			PCM:       pcm,
			Format:    a.settings.Format,
			CreatedAt: a.now(),
		})
	}
	a.metrics.ClipAudio.Record(ctx, length.Seconds())

	r.log.Info("Clip delivered",
		zap.Int("sources", mixed.Sources),
		zap.Duration("length", length),
		zap.Int64("bytes", size),
		zap.String("target", dst.Target()),
	)

	return Outcome{
		Message:  successMessage(req, dst),
		Sources:  mixed.Sources,
		Duration: length,
		Size:     size,
	}, nil
}

// serialize writes the WAV to a temp file and optionally runs the external
// encoder. cleanup removes every file it created and is always non-nil.
func (a *Assembler) serialize(ctx context.Context, req Request, pcm []byte) (string, func(), error) {
	var paths []string
	cleanup := func() {
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				a.logger.Warn("Failed to remove temp clip", zap.String("path", p), zap.Error(err))
			}
		}
	}

	dir := a.settings.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("clip_%s_%d_%s.wav", sanitizeID(req.RequesterID), a.now().UnixMilli(), uuid.NewString())
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", cleanup, &SerializationFault{Op: "create", Err: err}
	}
	paths = append(paths, path)

	if _, err := audio.WriteWAV(f, a.settings.Format, pcm); err != nil {
		f.Close()
		return "", cleanup, &SerializationFault{Op: "write", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", cleanup, &SerializationFault{Op: "close", Err: err}
	}

	if a.encoder == nil {
		return path, cleanup, nil
	}

	encoded, err := a.encoder.Encode(ctx, path)
	if err != nil {
		return "", cleanup, &SerializationFault{Op: "encode", Err: err}
	}
	paths = append(paths, encoded)
	return encoded, cleanup, nil
}

func (a *Assembler) deliver(ctx context.Context, req Request, dst Deliverer, path string, length time.Duration) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &SerializationFault{Op: "open", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, &SerializationFault{Op: "stat", Err: err}
	}

	err = dst.Deliver(ctx, req, Artifact{
		Filename: ArtifactName,
		Size:     info.Size(),
		Duration: length,
		Reader:   f,
	})
	if err != nil {
		return 0, &DeliveryFault{Target: dst.Target(), Err: err}
	}
	return info.Size(), nil
}

func emptyMessage(req Request) string {
	if req.Kind == KindStopRecording {
		return "No audio was captured during the recording."
	}
	return fmt.Sprintf("No audio captured in the last %d seconds.", req.Seconds())
}

func successMessage(req Request, dst Deliverer) string {
	switch {
	case req.Kind == KindStopRecording && dst.Target() == TargetDM:
		return "✅ Recording sent to your DMs!"
	case req.Kind == KindStopRecording:
		return "✅ Recording posted."
	case dst.Target() == TargetDM:
		return "✅ Clip sent to your DMs!"
	default:
		return "✅ Clip posted."
	}
}
