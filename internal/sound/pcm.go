package sound

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	wav "github.com/youpy/go-wav"
)

const bytesPerSample = 2

// Tone synthesizes a sine wave as 16-bit little-endian stereo PCM at
// SampleRate, with short fades so it does not click.
func Tone(freq float64, dur time.Duration) []byte {
	frames := int(dur.Seconds() * SampleRate)
	fade := SampleRate / 200
	out := make([]byte, frames*ChannelCount*bytesPerSample)
	for i := 0; i < frames; i++ {
		amp := 0.8
		if i < fade {
			amp *= float64(i) / float64(fade)
		} else if frames-i < fade {
			amp *= float64(frames-i) / float64(fade)
		}
		v := int16(amp * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
		for c := 0; c < ChannelCount; c++ {
			off := (i*ChannelCount + c) * bytesPerSample
			binary.LittleEndian.PutUint16(out[off:], uint16(v))
		}
	}
	return out
}

// Beep is the built-in alert: two short high tones.
func Beep() []byte {
	gap := make([]byte, SampleRate/10*ChannelCount*bytesPerSample)
	tone := Tone(1320, 120*time.Millisecond)
	out := append([]byte(nil), tone...)
	out = append(out, gap...)
	return append(out, tone...)
}

// ApplyVolume scales 16-bit PCM in place by percent (clamped to 0-100).
func ApplyVolume(pcm []byte, percent int) []byte {
	if percent >= 100 {
		return pcm
	}
	if percent < 0 {
		percent = 0
	}
	for i := 0; i+1 < len(pcm); i += bytesPerSample {
		s := int32(int16(binary.LittleEndian.Uint16(pcm[i:])))
		s = s * int32(percent) / 100
		binary.LittleEndian.PutUint16(pcm[i:], uint16(int16(s)))
	}
	return pcm
}

// DecodeWAV parses a 16-bit PCM WAV clip and converts it to the output
// format.
func DecodeWAV(data []byte) ([]byte, error) {
	format, err := wav.NewReader(bytes.NewReader(data)).Format()
	if err != nil {
		return nil, fmt.Errorf("wav format: %w", err)
	}
	if format.AudioFormat != wav.AudioFormatPCM || format.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported wav: format %d, %d bits", format.AudioFormat, format.BitsPerSample)
	}
	pcm, err := io.ReadAll(wav.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("wav data: %w", err)
	}
	if len(pcm) == 0 {
		return nil, errors.New("wav has no samples")
	}
	return Convert(pcm, int(format.SampleRate), int(format.NumChannels), SampleRate, ChannelCount), nil
}

// Convert resamples 16-bit PCM (nearest neighbour) and maps channels:
// mono is duplicated, extra channels are dropped.
func Convert(pcm []byte, srcRate, srcCh, dstRate, dstCh int) []byte {
	if srcRate <= 0 || srcCh <= 0 {
		return nil
	}
	if srcRate == dstRate && srcCh == dstCh {
		return pcm
	}
	srcFrames := len(pcm) / (srcCh * bytesPerSample)
	dstFrames := int(int64(srcFrames) * int64(dstRate) / int64(srcRate))
	out := make([]byte, dstFrames*dstCh*bytesPerSample)
	for i := 0; i < dstFrames; i++ {
		src := int(int64(i) * int64(srcRate) / int64(dstRate))
		if src >= srcFrames {
			src = srcFrames - 1
		}
		for c := 0; c < dstCh; c++ {
			sc := c
			if sc >= srcCh {
				sc = srcCh - 1
			}
			in := (src*srcCh + sc) * bytesPerSample
			o := (i*dstCh + c) * bytesPerSample
			copy(out[o:o+bytesPerSample], pcm[in:in+bytesPerSample])
		}
	}
	return out
}
