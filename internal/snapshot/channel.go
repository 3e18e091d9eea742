package snapshot

import (
	"bytes"
	"encoding/json"

	"github.com/DoyleJ11/radar-overlay/pkg/types"
)

type Kind int

const (
	KindMalformed Kind = iota
	KindBatch
	KindDiagnostic
)

func (k Kind) String() string {
	switch k {
	case KindBatch:
		return "batch"
	case KindDiagnostic:
		return "diagnostic"
	default:
		return "malformed"
	}
}

// Frame is one classified transport message.
type Frame struct {
	Kind  Kind
	Batch types.Batch // KindBatch only
	Text  string      // KindDiagnostic only
}

// Classify splits the multiplexed stream. Player batches decode into Batch.
// Anything that is not JSON at all is extractor error output and becomes a
// diagnostic. JSON that is not a player array is dropped as malformed.
func Classify(raw []byte) Frame {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Frame{Kind: KindMalformed}
	}

	if !json.Valid(trimmed) {
		return Frame{Kind: KindDiagnostic, Text: string(trimmed)}
	}

	if trimmed[0] != '[' {
		return Frame{Kind: KindMalformed}
	}

	var batch types.Batch
	if err := json.Unmarshal(trimmed, &batch); err != nil {
		return Frame{Kind: KindMalformed}
	}
	if batch == nil {
		batch = types.Batch{}
	}
	return Frame{Kind: KindBatch, Batch: batch}
}
