package speech

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

// pcmParams are the sample parameters of a raw PCM stream as reported by
// the synthesis backend's MIME type.
type pcmParams struct {
	BitsPerSample int
	SampleRate    int
}

// defaultPCMParams matches what Gemini TTS emits when the MIME type carries
// no parameters (16-bit mono at 24 kHz).
var defaultPCMParams = pcmParams{BitsPerSample: 16, SampleRate: 24000}

// parsePCMMIME extracts bits per sample and sample rate from a MIME type
// like "audio/L16;codec=pcm;rate=24000". Unknown parameters are ignored.
func parsePCMMIME(mimeType string) pcmParams {
	params := defaultPCMParams

	for _, part := range strings.Split(mimeType, ";") {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)
		switch {
		case strings.HasPrefix(lower, "rate="):
			if rate, err := strconv.Atoi(part[len("rate="):]); err == nil && rate > 0 {
				params.SampleRate = rate
			}
		case strings.HasPrefix(lower, "audio/l"):
			if bits, err := strconv.Atoi(part[len("audio/L"):]); err == nil && bits > 0 {
				params.BitsPerSample = bits
			}
		}
	}

	return params
}

// isWAVMIME reports whether the payload is already a WAV container.
func isWAVMIME(mimeType string) bool {
	return strings.Contains(strings.ToLower(mimeType), "wav")
}

// pcmToWAV frames raw mono PCM data into a WAV container so browsers can
// play it directly.
func pcmToWAV(data []byte, params pcmParams) []byte {
	const numChannels = 1

	bytesPerSample := params.BitsPerSample / 8
	blockAlign := numChannels * bytesPerSample
	byteRate := params.SampleRate * blockAlign
	dataSize := uint32(len(data))

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(data)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM format tag
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(params.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(params.BitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(data)

	return buf.Bytes()
}
