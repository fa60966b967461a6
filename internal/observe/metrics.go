// Package observe provides OpenTelemetry metrics for the capture and clip
// pipelines plus the HTTP endpoint that exposes them together with health
// probes.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/Raikerian/go-discord-clipper"

// Metrics holds every instrument used by the bot. All fields are safe for
// concurrent use.
type Metrics struct {
	// FramesReceived counts Opus frames handed to the ingestor.
	FramesReceived metric.Int64Counter
	// FramesDropped counts frames dropped because a source queue was full.
	FramesDropped metric.Int64Counter
	// DecodeFaults counts frames that failed to decode.
	DecodeFaults metric.Int64Counter
	// StreamFaults counts sources torn down by a fatal decoder error.
	StreamFaults metric.Int64Counter
	// ActiveSources tracks sources with a running ingestion pipeline.
	ActiveSources metric.Int64UpDownCounter

	// Clips counts clip attempts. Attributes: status, origin.
	Clips metric.Int64Counter
	// ClipAudio records the length of produced clips in seconds.
	ClipAudio metric.Float64Histogram
	// ClipAssembly records the wall time of a clip assembly in seconds.
	ClipAssembly metric.Float64Histogram

	// Transcriptions counts voice trigger transcriptions. Attribute: status.
	Transcriptions metric.Int64Counter
}

var assemblyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var clipBuckets = []float64{1, 5, 10, 15, 30, 45, 60, 90, 120}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FramesReceived, err = m.Int64Counter("clipper.frames.received",
		metric.WithDescription("Opus frames received from voice connections."),
	); err != nil {
		return nil, err
	}
	if met.FramesDropped, err = m.Int64Counter("clipper.frames.dropped",
		metric.WithDescription("Opus frames dropped because the source queue was full."),
	); err != nil {
		return nil, err
	}
	if met.DecodeFaults, err = m.Int64Counter("clipper.decode.faults",
		metric.WithDescription("Opus frames that could not be decoded."),
	); err != nil {
		return nil, err
	}
	if met.StreamFaults, err = m.Int64Counter("clipper.stream.faults",
		metric.WithDescription("Source pipelines torn down by a fatal decoder error."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSources, err = m.Int64UpDownCounter("clipper.active_sources",
		metric.WithDescription("Sources with a running ingestion pipeline."),
	); err != nil {
		return nil, err
	}
	if met.Clips, err = m.Int64Counter("clipper.clips",
		metric.WithDescription("Clip attempts by status and origin."),
	); err != nil {
		return nil, err
	}
	if met.ClipAudio, err = m.Float64Histogram("clipper.clip.duration",
		metric.WithDescription("Length of produced clips."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(clipBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ClipAssembly, err = m.Float64Histogram("clipper.clip.assembly",
		metric.WithDescription("Wall time spent assembling a clip."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(assemblyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Transcriptions, err = m.Int64Counter("clipper.transcriptions",
		metric.WithDescription("Voice trigger transcriptions by status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// Nop returns Metrics backed by a no-op provider.
func Nop() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		// the noop provider never fails
		panic(err)
	}
	return m
}

// RecordClip is a convenience for the clip counter.
func (m *Metrics) RecordClip(ctx context.Context, status, origin string) {
	m.Clips.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("origin", origin),
	))
}

// RecordTranscription is a convenience for the transcription counter.
func (m *Metrics) RecordTranscription(ctx context.Context, status string) {
	m.Transcriptions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
