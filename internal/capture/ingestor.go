package capture

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Raikerian/go-discord-clipper/internal/observe"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
	"github.com/Raikerian/go-discord-clipper/pkg/util"
)

// EndReason says why a source pipeline stopped.
type EndReason string

const (
	EndSilence  EndReason = "silence"
	EndExplicit EndReason = "ended"
	EndFault    EndReason = "fault"
	EndClosed   EndReason = "closed"
)

// StreamEnd describes a finished source stream. Utterance holds the chunks
// decoded since the stream started that are still retained.
type StreamEnd struct {
	Source    SourceID
	Reason    EndReason
	Utterance []Chunk
}

// StreamEndHook is called from the pipeline goroutine once a stream ended
// and the stream end policy was applied. It must not block for long.
type StreamEndHook func(StreamEnd)

// Tap receives every decoded chunk. It runs on the pipeline goroutine and
// must not retain or modify Samples beyond reading them.
type Tap func(SourceID, Chunk)

// DecoderFactory builds a decoder for one source.
type DecoderFactory func(channels int) (audio.Decoder, error)

var arrival atomic.Uint64

// IngestorParams configures NewIngestor.
type IngestorParams struct {
	Logger   *zap.Logger
	Registry *SessionRegistry
	Settings Settings
	// NewDecoder defaults to audio.NewOpusDecoder.
	NewDecoder DecoderFactory
	// Metrics defaults to observe.Nop().
	Metrics     *observe.Metrics
	Clock       Clock
	OnStreamEnd StreamEndHook
}

type pipeline struct {
	id       SourceID
	buf      *RingBuffer
	started  time.Time
	frames   chan []byte
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func (p *pipeline) signalStop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Ingestor routes Opus frames to one decode pipeline per source. Each
// pipeline owns its decoder and is the only writer of its ring buffer, so the
// receive loop never decodes and sources never contend with each other.
type Ingestor struct {
	logger     *zap.Logger
	registry   *SessionRegistry
	settings   Settings
	newDecoder DecoderFactory
	metrics    *observe.Metrics
	now        Clock
	onEnd      StreamEndHook

	mu        sync.Mutex
	pipelines map[SourceID]*pipeline
	ended     map[SourceID]struct{}
	closed    bool

	tapsMu  sync.RWMutex
	taps    map[uint64]Tap
	nextTap uint64

	wg sync.WaitGroup
}

// NewIngestor creates an Ingestor writing into params.Registry.
func NewIngestor(params IngestorParams) *Ingestor {
	in := &Ingestor{
		logger:     params.Logger,
		registry:   params.Registry,
		settings:   params.Settings,
		newDecoder: params.NewDecoder,
		metrics:    params.Metrics,
		now:        params.Clock,
		onEnd:      params.OnStreamEnd,
		pipelines:  make(map[SourceID]*pipeline),
		ended:      make(map[SourceID]struct{}),
		taps:       make(map[uint64]Tap),
	}
	if in.logger == nil {
		in.logger = zap.NewNop()
	}
	if in.newDecoder == nil {
		in.newDecoder = audio.NewOpusDecoder
	}
	if in.metrics == nil {
		in.metrics = observe.Nop()
	}
	if in.now == nil {
		in.now = time.Now
	}
	if in.settings.QueueSize <= 0 {
		in.settings.QueueSize = 1
	}
	return in
}

// Registry returns the registry this ingestor writes to.
func (in *Ingestor) Registry() *SessionRegistry { return in.registry }

// Push hands one Opus frame from source to its pipeline, starting the
// pipeline on the first frame. When the pipeline queue is full the frame is
// dropped. Frames of a source that was ended with End are dropped until Begin
// is called for it. The frame is copied.
func (in *Ingestor) Push(source SourceID, frame []byte) error {
	ctx := context.Background()

	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return ErrIngestorClosed
	}
	if _, ok := in.ended[source]; ok {
		in.metrics.FramesDropped.Add(ctx, 1)
		in.logger.Debug("Dropping late frame of ended source", zap.String("source", string(source)))
		return nil
	}

	p, ok := in.pipelines[source]
	if !ok {
		p = in.startLocked(source)
	}

	in.metrics.FramesReceived.Add(ctx, 1)
	select {
	case p.frames <- bytes.Clone(frame):
	default:
		in.metrics.FramesDropped.Add(ctx, 1)
		in.logger.Debug("Source queue full, dropping frame", zap.String("source", string(source)))
	}
	return nil
}

func (in *Ingestor) startLocked(source SourceID) *pipeline {
	p := &pipeline{
		id:      source,
		buf:     in.registry.Open(source),
		started: in.now(),
		frames:  make(chan []byte, in.settings.QueueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	in.pipelines[source] = p
	in.metrics.ActiveSources.Add(context.Background(), 1)
	in.logger.Debug("Source stream started", zap.String("source", string(source)))

	in.wg.Add(1)
	go in.run(p)

	return p
}

// End stops source's pipeline, if any. The stream end policy is applied as
// for silence. Later frames from source are dropped until Begin.
func (in *Ingestor) End(source SourceID) {
	in.mu.Lock()
	in.ended[source] = struct{}{}
	p, ok := in.pipelines[source]
	in.mu.Unlock()
	if ok {
		p.signalStop()
	}
}

// Begin marks source as active again after End. The next Push starts a new
// stream.
func (in *Ingestor) Begin(source SourceID) {
	in.mu.Lock()
	delete(in.ended, source)
	in.mu.Unlock()
}

// Active lists sources with a running pipeline.
func (in *Ingestor) Active() []SourceID {
	in.mu.Lock()
	defer in.mu.Unlock()
	ids := make([]SourceID, 0, len(in.pipelines))
	for id := range in.pipelines {
		ids = append(ids, id)
	}
	return ids
}

// AddTap registers t for every decoded chunk and returns a function that
// removes it.
func (in *Ingestor) AddTap(t Tap) (remove func()) {
	in.tapsMu.Lock()
	id := in.nextTap
	in.nextTap++
	in.taps[id] = t
	in.tapsMu.Unlock()

	return func() {
		in.tapsMu.Lock()
		delete(in.taps, id)
		in.tapsMu.Unlock()
	}
}

func (in *Ingestor) fanOut(source SourceID, c Chunk) {
	in.tapsMu.RLock()
	defer in.tapsMu.RUnlock()
	for _, t := range in.taps {
		t(source, c)
	}
}

func (in *Ingestor) run(p *pipeline) {
	defer in.wg.Done()
	defer close(p.done)

	reason := in.consume(p)
	in.finish(p, reason)
}

func (in *Ingestor) consume(p *pipeline) EndReason {
	ctx := context.Background()
	log := in.logger.With(zap.String("source", string(p.id)))

	dec, err := in.newDecoder(in.settings.Channels)
	if err != nil {
		in.metrics.StreamFaults.Add(ctx, 1)
		log.Warn("Source torn down", zap.Error(&StreamFault{Source: p.id, Err: err}))
		return EndFault
	}
	defer dec.Close()

	idle := util.NewIdleTimer(in.settings.SilenceTimeout)
	defer idle.Stop()

	failures := 0
	for {
		select {
		case <-p.stop:
			return EndExplicit
		case <-idle.Expired():
			return EndSilence
		case frame := <-p.frames:
			idle.Touch()

			pcm, err := dec.Decode(frame)
			if err != nil {
				failures++
				in.metrics.DecodeFaults.Add(ctx, 1)
				log.Debug("Dropped undecodable frame",
					zap.Error(&DecodeFault{Source: p.id, Err: err}),
					zap.Int("consecutive", failures),
				)
				if failures >= in.settings.MaxDecodeErrors {
					in.metrics.StreamFaults.Add(ctx, 1)
					log.Warn("Source torn down after repeated decode failures",
						zap.Error(&StreamFault{Source: p.id, Err: err}),
						zap.Int("consecutive", failures),
					)
					return EndFault
				}
				continue
			}
			failures = 0

			c := Chunk{Timestamp: in.now(), Seq: arrival.Add(1), Samples: pcm}
			if err := p.buf.Append(c); err != nil {
				return EndClosed
			}
			in.fanOut(p.id, c)
		}
	}
}

// finish applies the stream end policy. It holds the ingestor lock so a new
// pipeline for the same source cannot reopen the buffer in between.
func (in *Ingestor) finish(p *pipeline, reason EndReason) {
	utterance := p.buf.SnapshotWindow(in.now().Sub(p.started))

	in.mu.Lock()
	if cur, ok := in.pipelines[p.id]; ok && cur == p {
		delete(in.pipelines, p.id)
	}
	switch in.settings.Policy {
	case ClearOnSilence:
		in.registry.Remove(p.id)
	default:
		in.registry.Close(p.id)
	}
	in.mu.Unlock()

	in.metrics.ActiveSources.Add(context.Background(), -1)
	in.logger.Debug("Source stream ended",
		zap.String("source", string(p.id)),
		zap.String("reason", string(reason)),
		zap.Int("chunks", len(utterance)),
	)

	if in.onEnd != nil {
		in.onEnd(StreamEnd{Source: p.id, Reason: reason, Utterance: utterance})
	}
}

// Shutdown stops every pipeline and waits for them to finish or for ctx to
// expire. Push fails afterwards.
func (in *Ingestor) Shutdown(ctx context.Context) error {
	in.mu.Lock()
	in.closed = true
	pipes := make([]*pipeline, 0, len(in.pipelines))
	for _, p := range in.pipelines {
		pipes = append(pipes, p)
	}
	in.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range pipes {
		g.Go(func() error {
			p.signalStop()
			select {
			case <-p.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	in.wg.Wait()
	return nil
}
