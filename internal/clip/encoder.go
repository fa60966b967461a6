package clip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// Placeholders substituted in external encoder arguments.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
)

// ExternalEncoder post-processes a serialized clip with an external command,
// for example ffmpeg re-muxing the WAV. The command must write a WAV file to
// the output path.
type ExternalEncoder struct {
	logger  *zap.Logger
	command string
	args    []string
	timeout time.Duration
}

// NewExternalEncoder returns nil when no command is configured.
func NewExternalEncoder(cfg *config.Config, logger *zap.Logger) *ExternalEncoder {
	ec := cfg.Clip.ExternalEncoder
	if ec.Command == "" {
		return nil
	}
	return &ExternalEncoder{
		logger:  logger,
		command: ec.Command,
		args:    ec.Args,
		timeout: ec.Timeout,
	}
}

// Encode runs the command on input and returns the output path. The caller
// owns the output file. On failure no output file is left behind.
func (e *ExternalEncoder) Encode(ctx context.Context, input string) (string, error) {
	output := strings.TrimSuffix(input, ".wav") + ".enc.wav"

	args := make([]string, 0, len(e.args)+2)
	substituted := false
	for _, a := range e.args {
		if strings.Contains(a, InputPlaceholder) || strings.Contains(a, OutputPlaceholder) {
			substituted = true
		}
		a = strings.ReplaceAll(a, InputPlaceholder, input)
		a = strings.ReplaceAll(a, OutputPlaceholder, output)
		args = append(args, a)
	}
	if !substituted {
		args = append(args, input, output)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command, args...)
	cmd.WaitDelay = time.Second
	start := time.Now()
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(output)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("external encoder %q timed out after %s: %w", e.command, e.timeout, ctx.Err())
		}
		return "", fmt.Errorf("external encoder %q failed: %w: %s", e.command, err, strings.TrimSpace(string(out)))
	}

	if err := checkWAV(output); err != nil {
		_ = os.Remove(output)
		return "", fmt.Errorf("external encoder %q produced an invalid file: %w", e.command, err)
	}

	e.logger.Debug("External encoder finished",
		zap.String("command", e.command),
		zap.Duration("elapsed", time.Since(start)),
	)
	return output, nil
}

func checkWAV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = audio.ParseWAVHeader(f)
	return err
}
