package ingest

import (
	"fmt"

	"quorum/internal/config"
	"quorum/internal/services"
)

const bytesPerSample = 2

// Assembler buffers an ordered stream of 16-bit mono PCM chunks and cuts
// them into fixed-duration pieces for partial transcription. Chunks must
// arrive with contiguous sequence indices starting at zero.
type Assembler struct {
	sampleRate int
	chunkBytes int
	nextSeq    int
	pending    []byte
	total      []byte
}

// NewAssembler constructs an assembler from the configured sample rate and
// chunk duration.
func NewAssembler(cfg *config.Config) *Assembler {
	sampleRate := cfg.Ingest.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	chunkSeconds := cfg.Ingest.ChunkSeconds
	if chunkSeconds <= 0 {
		chunkSeconds = 2.0
	}
	return &Assembler{
		sampleRate: sampleRate,
		chunkBytes: int(float64(sampleRate)*chunkSeconds) * bytesPerSample,
	}
}

// Append accepts the chunk with the given sequence index. Out-of-order or
// empty chunks are rejected.
func (a *Assembler) Append(seq int, data []byte) error {
	if seq != a.nextSeq {
		return services.Wrap(services.ErrValidation, "ingest", "append chunk",
			fmt.Sprintf("Chunk sequence %d out of order, expected %d", seq, a.nextSeq), nil)
	}
	if len(data) == 0 {
		return services.Wrap(services.ErrValidation, "ingest", "append chunk",
			"Empty audio chunk", nil)
	}
	a.nextSeq++
	a.pending = append(a.pending, data...)
	a.total = append(a.total, data...)
	return nil
}

// NextChunk returns the next full fixed-duration piece, or false when less
// than a full piece is buffered.
func (a *Assembler) NextChunk() ([]byte, bool) {
	if len(a.pending) < a.chunkBytes {
		return nil, false
	}
	chunk := a.pending[:a.chunkBytes]
	a.pending = a.pending[a.chunkBytes:]
	return chunk, true
}

// SampleRate reports the configured sample rate in Hz.
func (a *Assembler) SampleRate() int {
	return a.sampleRate
}

// Duration reports the total received audio length in seconds.
func (a *Assembler) Duration() float64 {
	return float64(len(a.total)) / float64(a.sampleRate*bytesPerSample)
}

// PendingDuration reports the buffered-but-uncut audio length in seconds.
func (a *Assembler) PendingDuration() float64 {
	return float64(len(a.pending)) / float64(a.sampleRate*bytesPerSample)
}

// Bytes returns all received PCM in arrival order.
func (a *Assembler) Bytes() []byte {
	return a.total
}
