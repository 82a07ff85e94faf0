package comm

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	mandel "github.com/marben/mpi_mandel"
)

const bytesPerPixel = 3

// MaxPayload bounds the decompressed size of one block, 3 bytes per pixel of a 16384x16384 grid
const MaxPayload = bytesPerPixel * 16384 * 16384

// Encoder and Decoder are safe for concurrent EncodeAll / DecodeAll calls.
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxPayload))
	})
)

// EncodeBlock packs b into its wire form: header fields plus zstd-compressed RGB triplets.
func EncodeBlock(tag int, b mandel.Block) (mandel.BlockMessage, error) {
	enc, err := zstdEncoder()
	if err != nil {
		return mandel.BlockMessage{}, fmt.Errorf("zstd.NewWriter: %w", err)
	}

	raw := make([]byte, 0, bytesPerPixel*len(b.Pixels))
	for _, c := range b.Pixels {
		raw = append(raw, c.R, c.G, c.B)
	}

	return mandel.BlockMessage{
		Tag:     tag,
		Rank:    b.Rank,
		Start:   b.Start,
		Count:   len(b.Pixels),
		Payload: enc.EncodeAll(raw, nil),
	}, nil
}

// DecodeBlock unpacks msg. A payload that does not hold exactly Count pixels is ErrProtocol.
func DecodeBlock(msg mandel.BlockMessage) (mandel.Block, error) {
	if msg.Count < 0 || msg.Start < 0 || msg.Count > MaxPayload/bytesPerPixel {
		return mandel.Block{}, fmt.Errorf("%w: rank %d header start %d count %d", ErrProtocol, msg.Rank, msg.Start, msg.Count)
	}

	dec, err := zstdDecoder()
	if err != nil {
		return mandel.Block{}, fmt.Errorf("zstd.NewReader: %w", err)
	}
	raw, err := dec.DecodeAll(msg.Payload, nil)
	if err != nil {
		return mandel.Block{}, fmt.Errorf("%w: rank %d payload: %v", ErrProtocol, msg.Rank, err)
	}
	if len(raw)%bytesPerPixel != 0 || len(raw)/bytesPerPixel != msg.Count {
		return mandel.Block{}, fmt.Errorf("%w: rank %d declared %d pixels, payload holds %d bytes",
			ErrProtocol, msg.Rank, msg.Count, len(raw))
	}

	pixels := make([]mandel.Color, msg.Count)
	for i := range pixels {
		p := raw[bytesPerPixel*i:]
		pixels[i] = mandel.Color{R: p[0], G: p[1], B: p[2]}
	}
	return mandel.Block{Rank: msg.Rank, Start: msg.Start, Pixels: pixels}, nil
}
