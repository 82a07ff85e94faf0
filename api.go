package mandel

//go:generate go run github.com/marben/irpc/cmd/irpc $GOFILE

// Gatherer is served by the root rank. Every other rank delivers its block through it.
type Gatherer interface {
	Deliver(msg BlockMessage) error
}

// BlockMessage is the wire form of a Block.
// The header fields are explicit, the pixels travel as an opaque (compressed) payload.
type BlockMessage struct {
	Tag     int
	Rank    int
	Start   int
	Count   int
	Payload []byte
}
