package voice_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap/zaptest"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/voice"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

type fakeConn struct {
	channelID discord.ChannelID
	packets   chan voice.AudioPacket
	done      chan struct{}
	closeOnce sync.Once
	left      atomic.Bool

	mu      sync.Mutex
	written [][]byte
}

func newFakeConn(channelID discord.ChannelID) *fakeConn {
	return &fakeConn{
		channelID: channelID,
		packets:   make(chan voice.AudioPacket, 64),
		done:      make(chan struct{}),
	}
}

func (c *fakeConn) ReadPacket() (voice.AudioPacket, error) {
	select {
	case p := <-c.packets:
		return p, nil
	case <-c.done:
		return voice.AudioPacket{}, net.ErrClosed
	}
}

func (c *fakeConn) WriteOpus(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, append([]byte(nil), frame...))
	return nil
}

func (c *fakeConn) Leave(context.Context) error {
	c.left.Store(true)
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

// send queues n frames from ssrc. Each frame decodes to one 20 ms chunk.
func (c *fakeConn) send(ssrc uint32, n int, value byte) {
	for range n {
		c.packets <- voice.AudioPacket{SSRC: ssrc, Opus: []byte{value}}
	}
}

type fakeDialer struct {
	mu     sync.Mutex
	err    error
	conns  []*fakeConn
	events []voice.Events
}

func (d *fakeDialer) Dial(_ context.Context, channelID discord.ChannelID, events voice.Events) (voice.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	c := newFakeConn(channelID)
	d.conns = append(d.conns, c)
	d.events = append(d.events, events)
	return c, nil
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *fakeDialer) last() (*fakeConn, voice.Events) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.conns)
	return d.conns[n-1], d.events[n-1]
}

// fakeDecoder turns every frame into 20 ms of a constant level.
type fakeDecoder struct{}

func (fakeDecoder) Decode(frame []byte) ([]int16, error) {
	out := make([]int16, audio.FrameSize)
	for i := range out {
		out[i] = int16(frame[0]) * 100
	}
	return out, nil
}

func (fakeDecoder) Channels() int { return 1 }

func (fakeDecoder) Close() error { return nil }

func newTestFactory(t *testing.T) *capture.Factory {
	t.Helper()
	return capture.NewFactory(capture.FactoryParams{
		Logger: zaptest.NewLogger(t),
		Settings: capture.Settings{
			Retention:       30 * time.Second,
			Channels:        1,
			Policy:          capture.RetainUntilEviction,
			SilenceTimeout:  time.Minute,
			QueueSize:       64,
			MaxDecodeErrors: 3,
		},
		Decoders: func(int) (audio.Decoder, error) { return fakeDecoder{}, nil },
	})
}

func newTestManager(t *testing.T, d voice.Dialer) *voice.Manager {
	t.Helper()
	m := voice.NewManager(voice.ManagerParams{
		Logger:  zaptest.NewLogger(t),
		Dialer:  d,
		Factory: newTestFactory(t),
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

type sentMessage struct {
	channelID discord.ChannelID
	content   string
	mentions  []discord.UserID
	files     []string
	body      []byte
}

type fakeMessenger struct {
	mu      sync.Mutex
	dmErr   error
	sendErr error
	sent    []sentMessage
}

func (m *fakeMessenger) CreatePrivateChannel(recipient discord.UserID) (*discord.Channel, error) {
	if m.dmErr != nil {
		return nil, m.dmErr
	}
	return &discord.Channel{ID: discord.ChannelID(recipient) + 1000, Type: discord.DirectMessage}, nil
}

func (m *fakeMessenger) SendMessageComplex(channelID discord.ChannelID, data api.SendMessageData) (*discord.Message, error) {
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	msg := sentMessage{channelID: channelID, content: data.Content}
	if data.AllowedMentions != nil {
		msg.mentions = data.AllowedMentions.Users
	}
	var body bytes.Buffer
	for _, f := range data.Files {
		msg.files = append(msg.files, f.Name)
		_, _ = io.Copy(&body, f.Reader)
	}
	msg.body = body.Bytes()

	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return &discord.Message{ChannelID: channelID, Content: data.Content}, nil
}

func (m *fakeMessenger) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}
