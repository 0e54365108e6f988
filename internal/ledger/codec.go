package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/zeebo/blake3"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/types"
)

const (
	// minSubmissionSize rejects buffers too short to hold a root offset and vtable.
	minSubmissionSize = 8

	// maxParticipants bounds the uid vector of one submission.
	maxParticipants = 1 << 16

	// maxSubmissionSize covers maxParticipants uid/weight pairs plus keys and header.
	maxSubmissionSize = 4*maxParticipants + 4096

	// maxResponseSize bounds a SubmitResponse including its message.
	maxResponseSize = 64 * 1024
)

// signingDomain prefixes the digest a validator signs.
var signingDomain = []byte("weighbridge-weights-v1")

// errMalformed marks a message that was read in full but cannot be accepted.
var errMalformed = errors.New("malformed message")

// ResponseCode is the gateway's verdict on a submission.
type ResponseCode uint8

const (
	CodeOK           ResponseCode = iota // CodeOK: accepted, see Included/Finalized
	CodeRejected                         // CodeRejected: valid but refused by chain rules
	CodeUnavailable                      // CodeUnavailable: chain cannot take updates right now
	CodeMalformed                        // CodeMalformed: submission could not be decoded or is ill-formed
	CodeBadSignature                     // CodeBadSignature: signature does not verify
)

// String returns the code name.
func (c ResponseCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeRejected:
		return "rejected"
	case CodeUnavailable:
		return "unavailable"
	case CodeMalformed:
		return "malformed"
	case CodeBadSignature:
		return "bad_signature"
	default:
		return fmt.Sprintf("code(%d)", uint8(c))
	}
}

// Submission is the decoded form of a WeightSubmission table.
type Submission struct {
	NetUID     uint16
	VersionKey uint64
	UIDs       []uint16
	Weights    []uint16
	Wait       commit.WaitOptions
	PublicKey  []byte
	Signature  []byte
}

// Response is the decoded form of a SubmitResponse table.
type Response struct {
	Code      ResponseCode
	Included  bool
	Finalized bool
	Message   string
}

// SigningMessage returns the digest a validator signs for a weight update.
// Format: BLAKE3(domain || netuid || versionKey || count || uids || weights), big-endian.
func SigningMessage(netuid uint16, versionKey uint64, uids, vals []uint16) []byte {
	h := blake3.New()
	h.Write(signingDomain)

	var buf [8]byte

	binary.BigEndian.PutUint16(buf[:2], netuid)
	h.Write(buf[:2])

	binary.BigEndian.PutUint64(buf[:8], versionKey)
	h.Write(buf[:8])

	binary.BigEndian.PutUint32(buf[:4], uint32(len(uids)))
	h.Write(buf[:4])

	for _, u := range uids {
		binary.BigEndian.PutUint16(buf[:2], u)
		h.Write(buf[:2])
	}

	for _, w := range vals {
		binary.BigEndian.PutUint16(buf[:2], w)
		h.Write(buf[:2])
	}

	return h.Sum(nil)
}

// writeSubmission writes s to w as one size-prefixed WeightSubmission.
func writeSubmission(w io.Writer, s Submission) error {
	return writeMessage(w, encodeSubmission(s), maxSubmissionSize)
}

// readSubmission reads one size-prefixed WeightSubmission from r.
// Errors wrapping errMalformed leave the stream usable for a reply.
func readSubmission(r io.Reader) (Submission, error) {
	data, err := readMessage(r, maxSubmissionSize)
	if err != nil {
		return Submission{}, err
	}

	return decodeSubmission(data)
}

// writeResponse writes resp to w as one size-prefixed SubmitResponse.
func writeResponse(w io.Writer, resp Response) error {
	return writeMessage(w, encodeResponse(resp), maxResponseSize)
}

// readResponse reads one size-prefixed SubmitResponse from r.
func readResponse(r io.Reader) (Response, error) {
	data, err := readMessage(r, maxResponseSize)
	if err != nil {
		return Response{}, err
	}

	return decodeResponse(data)
}

// writeMessage writes a size-prefixed FlatBuffer in a single call.
func writeMessage(w io.Writer, msg []byte, limit int) error {
	if len(msg)-flatbuffers.SizeUint32 > limit {
		return fmt.Errorf("message too large: %d > %d", len(msg)-flatbuffers.SizeUint32, limit)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message:\n%w", err)
	}

	return nil
}

// readMessage reads the size prefix and body of one FlatBuffer and returns the body.
func readMessage(r io.Reader, limit int) ([]byte, error) {
	var prefix [flatbuffers.SizeUint32]byte

	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("read size prefix:\n%w", err)
	}

	size := flatbuffers.GetSizePrefix(prefix[:], 0)
	if size > uint32(limit) {
		return nil, fmt.Errorf("%w: size %d exceeds %d", errMalformed, size, limit)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read message body:\n%w", err)
	}

	return data, nil
}

// encodeSubmission serializes s as a size-prefixed WeightSubmission FlatBuffer.
func encodeSubmission(s Submission) []byte {
	builder := flatbuffers.NewBuilder(64 + 4*len(s.UIDs) + len(s.PublicKey) + len(s.Signature))

	uidsOffset := buildUint16Vector(builder, s.UIDs, types.WeightSubmissionStartUidsVector)
	weightsOffset := buildUint16Vector(builder, s.Weights, types.WeightSubmissionStartWeightsVector)
	pkOffset := builder.CreateByteVector(s.PublicKey)
	sigOffset := builder.CreateByteVector(s.Signature)

	types.WeightSubmissionStart(builder)
	types.WeightSubmissionAddNetuid(builder, s.NetUID)
	types.WeightSubmissionAddVersionKey(builder, s.VersionKey)
	types.WeightSubmissionAddUids(builder, uidsOffset)
	types.WeightSubmissionAddWeights(builder, weightsOffset)
	types.WeightSubmissionAddWaitForInclusion(builder, s.Wait.WaitForInclusion)
	types.WeightSubmissionAddWaitForFinalization(builder, s.Wait.WaitForFinalization)
	types.WeightSubmissionAddPublicKey(builder, pkOffset)
	types.WeightSubmissionAddSignature(builder, sigOffset)
	builder.FinishSizePrefixed(types.WeightSubmissionEnd(builder))

	return builder.FinishedBytes()
}

// buildUint16Vector writes vals as a FlatBuffers vector using the table's start function.
func buildUint16Vector(builder *flatbuffers.Builder, vals []uint16, start func(*flatbuffers.Builder, int) flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	start(builder, len(vals))

	for i := len(vals) - 1; i >= 0; i-- {
		builder.PrependUint16(vals[i])
	}

	return builder.EndVector(len(vals))
}

// decodeSubmission parses and copies a WeightSubmission out of a message body.
func decodeSubmission(data []byte) (s Submission, retErr error) {
	// FlatBuffers panics on malformed data, recover gracefully
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("%w: bad submission table", errMalformed)
		}
	}()

	if len(data) < minSubmissionSize {
		return Submission{}, fmt.Errorf("%w: submission too short: %d bytes", errMalformed, len(data))
	}

	fb := types.GetRootAsWeightSubmission(data, 0)

	n := fb.UidsLength()
	if n > maxParticipants || fb.WeightsLength() > maxParticipants {
		return Submission{}, fmt.Errorf("%w: too many participants: %d", errMalformed, n)
	}

	s = Submission{
		NetUID:     fb.Netuid(),
		VersionKey: fb.VersionKey(),
		UIDs:       make([]uint16, n),
		Weights:    make([]uint16, fb.WeightsLength()),
		Wait: commit.WaitOptions{
			WaitForInclusion:    fb.WaitForInclusion(),
			WaitForFinalization: fb.WaitForFinalization(),
		},
		PublicKey: append([]byte(nil), fb.PublicKeyBytes()...),
		Signature: append([]byte(nil), fb.SignatureBytes()...),
	}

	for i := range s.UIDs {
		s.UIDs[i] = fb.Uids(i)
	}

	for i := range s.Weights {
		s.Weights[i] = fb.Weights(i)
	}

	return s, nil
}

// encodeResponse serializes r as a size-prefixed SubmitResponse FlatBuffer.
func encodeResponse(r Response) []byte {
	builder := flatbuffers.NewBuilder(64 + len(r.Message))

	msgOffset := builder.CreateString(r.Message)

	types.SubmitResponseStart(builder)
	types.SubmitResponseAddCode(builder, byte(r.Code))
	types.SubmitResponseAddIncluded(builder, r.Included)
	types.SubmitResponseAddFinalized(builder, r.Finalized)
	types.SubmitResponseAddMessage(builder, msgOffset)
	builder.FinishSizePrefixed(types.SubmitResponseEnd(builder))

	return builder.FinishedBytes()
}

// decodeResponse parses a SubmitResponse message body.
func decodeResponse(data []byte) (r Response, retErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			retErr = fmt.Errorf("%w: bad response table", errMalformed)
		}
	}()

	if len(data) < minSubmissionSize {
		return Response{}, fmt.Errorf("%w: response too short: %d bytes", errMalformed, len(data))
	}

	fb := types.GetRootAsSubmitResponse(data, 0)

	return Response{
		Code:      ResponseCode(fb.Code()),
		Included:  fb.Included(),
		Finalized: fb.Finalized(),
		Message:   string(fb.Message()),
	}, nil
}
