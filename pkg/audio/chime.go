package audio

import (
	"bytes"
	"encoding/binary"
	"math"
)

const chimeSampleRate = 44100

// chimeWAV synthesizes the built-in two-tone chime as a mono 16-bit WAV file
func chimeWAV() []byte {
	var pcm []int16
	for _, tone := range []struct {
		freq    float64
		seconds float64
	}{
		{880, 0.25},
		{0, 0.05},
		{1320, 0.35},
	} {
		n := int(tone.seconds * chimeSampleRate)
		for i := 0; i < n; i++ {
			if tone.freq == 0 {
				pcm = append(pcm, 0)
				continue
			}
			// Linear fade-out keeps the tone from clicking
			envelope := 1 - float64(i)/float64(n)
			v := math.Sin(2*math.Pi*tone.freq*float64(i)/chimeSampleRate) * envelope * 0.4
			pcm = append(pcm, int16(v*math.MaxInt16))
		}
	}
	return encodeWAV(pcm, chimeSampleRate, 1)
}

// encodeWAV wraps 16-bit PCM samples in a RIFF/WAVE container
func encodeWAV(samples []int16, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
