package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// Global audio context singleton. oto allows one context per process.
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	globalAudioCtxErr  error
	globalAudioCtxMu   sync.RWMutex
)

// Player plays a short alarm chime once per Play call
type Player struct {
	format *wavFormat
	pcm    []byte
	logger *zap.Logger

	mu      sync.Mutex
	current *oto.Player
}

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// NewPlayer prepares a player for the given WAV data. Nil data selects the built-in chime.
func NewPlayer(wavData []byte, log *zap.Logger) (*Player, error) {
	if wavData == nil {
		wavData = chimeWAV()
	}

	format, pcm, err := parseWAV(wavData)
	if err != nil {
		return nil, fmt.Errorf("parse WAV: %w", err)
	}
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d: only 16-bit PCM is supported", format.BitDepth)
	}

	return &Player{format: format, pcm: pcm, logger: logger.OrNop(log)}, nil
}

// LoadPlayer reads a WAV file from disk. An empty path selects the built-in chime.
func LoadPlayer(path string, log *zap.Logger) (*Player, error) {
	if path == "" {
		return NewPlayer(nil, log)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sound file: %w", err)
	}
	return NewPlayer(data, log)
}

// initAudioContext initializes the global audio context once
func initAudioContext(format *wavFormat) error {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioCtxMu.Lock()
			globalAudioCtxErr = err
			globalAudioCtxMu.Unlock()
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan
		globalAudioCtx = ctx
	})
	return audioContextErr()
}

func audioContextErr() error {
	globalAudioCtxMu.RLock()
	defer globalAudioCtxMu.RUnlock()
	return globalAudioCtxErr
}

// Play starts the chime and returns without waiting for it to finish.
// A chime still playing from an earlier alarm is cut short.
func (p *Player) Play() error {
	if err := audioContextErr(); err != nil {
		return fmt.Errorf("audio unavailable: %w", err)
	}

	go func() {
		if err := initAudioContext(p.format); err != nil {
			p.logger.Error("Failed to initialize audio context", zap.Error(err))
			return
		}
		p.playOnce()
	}()
	return nil
}

func (p *Player) playOnce() {
	p.mu.Lock()
	if p.current != nil {
		p.current.Pause()
		p.current.Close()
	}
	player := globalAudioCtx.NewPlayer(bytes.NewReader(p.pcm))
	p.current = player
	p.mu.Unlock()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == player {
		if err := player.Close(); err != nil {
			p.logger.Warn("Failed to close audio player", zap.Error(err))
		}
		p.current = nil
	}
}

// Stop cuts the current chime short
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Pause()
		p.current.Close()
		p.current = nil
		p.logger.Debug("Audio playback stopped")
	}
}

// Duration returns how long one chime lasts
func (p *Player) Duration() time.Duration {
	bytesPerSecond := p.format.SampleRate * p.format.Channels * p.format.BitDepth / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(len(p.pcm)) * time.Second / time.Duration(bytesPerSecond)
}

// parseWAV parses a WAV file and returns the format and audio data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	header := make([]byte, 12)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, nil, errors.New("not a RIFF/WAVE file")
	}

	format := &wavFormat{}
	var audioData []byte

	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			var fmtChunk struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &fmtChunk); err != nil {
				return nil, nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			format.Channels = int(fmtChunk.NumChannels)
			format.SampleRate = int(fmtChunk.SampleRate)
			format.BitDepth = int(fmtChunk.BitsPerSample)

			// Skip any extra format bytes
			if chunkSize > 16 {
				reader.Seek(int64(chunkSize-16), io.SeekCurrent)
			}
		case "data":
			audioData = make([]byte, chunkSize)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return nil, nil, fmt.Errorf("read data chunk: %w", err)
			}
		default:
			reader.Seek(int64(chunkSize), io.SeekCurrent)
		}

		if audioData != nil && format.SampleRate != 0 {
			break
		}
	}

	if format.SampleRate == 0 || format.Channels == 0 {
		return nil, nil, errors.New("missing fmt chunk")
	}
	if audioData == nil {
		return nil, nil, errors.New("missing data chunk")
	}

	return format, audioData, nil
}
