package journal

import (
	"fmt"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/types"
	"Weighbridge/internal/weights"
)

// encodeRecord serializes r as a CommitRecord FlatBuffer. Seq is carried by the key.
func encodeRecord(r Record) []byte {
	n := r.Vector.Len()
	builder := flatbuffers.NewBuilder(128 + 16*n + len(r.Message))

	runID := builder.CreateString(r.RunID)
	message := builder.CreateString(r.Message)
	fingerprint := builder.CreateByteVector(r.Fingerprint[:])

	types.CommitRecordStartUidsVector(builder, n)
	for i := n - 1; i >= 0; i-- {
		builder.PrependInt64(int64(r.Vector.IDs[i]))
	}
	uids := builder.EndVector(n)

	types.CommitRecordStartSharesVector(builder, n)
	for i := n - 1; i >= 0; i-- {
		builder.PrependFloat64(r.Vector.Shares[i])
	}
	shares := builder.EndVector(n)

	types.CommitRecordStart(builder)
	types.CommitRecordAddKind(builder, byte(r.Kind))
	types.CommitRecordAddRunId(builder, runID)
	types.CommitRecordAddAttempt(builder, uint32(r.Attempt))
	types.CommitRecordAddNetuid(builder, r.NetUID)
	types.CommitRecordAddFingerprint(builder, fingerprint)
	types.CommitRecordAddUids(builder, uids)
	types.CommitRecordAddShares(builder, shares)
	types.CommitRecordAddFailure(builder, byte(r.Failure))
	types.CommitRecordAddMessage(builder, message)
	types.CommitRecordAddUnixNano(builder, r.Time.UnixNano())
	builder.Finish(types.CommitRecordEnd(builder))

	return builder.FinishedBytes()
}

// decodeRecord parses a CommitRecord written by encodeRecord.
func decodeRecord(data []byte) (r Record, retErr error) {
	// FlatBuffers panics on malformed data, recover gracefully
	defer func() {
		if rec := recover(); rec != nil {
			retErr = fmt.Errorf("malformed journal record")
		}
	}()

	fb := types.GetRootAsCommitRecord(data, 0)

	if fb.UidsLength() != fb.SharesLength() {
		return Record{}, fmt.Errorf("length mismatch: %d uids, %d shares", fb.UidsLength(), fb.SharesLength())
	}

	r = Record{
		Kind:    Kind(fb.Kind()),
		RunID:   string(fb.RunId()),
		Attempt: int(fb.Attempt()),
		NetUID:  fb.Netuid(),
		Failure: commit.Failure(fb.Failure()),
		Message: string(fb.Message()),
		Time:    time.Unix(0, fb.UnixNano()),
	}

	copy(r.Fingerprint[:], fb.FingerprintBytes())

	if n := fb.UidsLength(); n > 0 {
		r.Vector = weights.Vector{
			IDs:    make([]int, n),
			Shares: make([]float64, n),
		}

		for i := 0; i < n; i++ {
			r.Vector.IDs[i] = int(fb.Uids(i))
			r.Vector.Shares[i] = fb.Shares(i)
		}
	}

	return r, nil
}
