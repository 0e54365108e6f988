// Package journal persists the audit trail of weight commits: one intent
// record before every ledger call and one outcome record per run.
package journal

import (
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/logger"
	"Weighbridge/internal/weights"
)

// Kind distinguishes intent records from outcome records.
type Kind uint8

const (
	KindIntent  Kind = 1 // KindIntent is written before a ledger call
	KindOutcome Kind = 2 // KindOutcome closes a run
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIntent:
		return "intent"
	case KindOutcome:
		return "outcome"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Record is one journal entry.
type Record struct {
	Seq         uint64         // Seq is the position in the journal, starting at 1
	Kind        Kind           // Kind is intent or outcome
	RunID       string         // RunID groups the records of one commit run
	Attempt     int            // Attempt is the attempt number (intent) or attempts made (outcome)
	NetUID      uint16         // NetUID is the target network (intent only)
	Fingerprint [32]byte       // Fingerprint is the vector digest (intent only)
	Vector      weights.Vector // Vector is the submitted vector (intent only)
	Failure     commit.Failure // Failure is the run failure (outcome only)
	Message     string         // Message is the last error text, if any
	Time        time.Time      // Time is when the record was made
}

// Succeeded reports whether an outcome record closes a successful run.
func (r Record) Succeeded() bool {
	return r.Kind == KindOutcome && r.Failure == commit.FailureNone
}

// Journal is a Pebble-backed commit.Journal.
// Records are zstd-compressed FlatBuffers keyed by a monotonically increasing sequence.
// Intent records are written without a WAL sync; outcome records sync every
// record before them.
type Journal struct {
	log     *recordLog
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	now     func() time.Time

	mu  sync.Mutex // mu serializes sequence assignment
	seq uint64     // seq is the last assigned sequence number
}

// Open opens or creates a journal at path.
func Open(path string) (*Journal, error) {
	l, err := openRecordLog(path)
	if err != nil {
		return nil, fmt.Errorf("open journal store:\n%w", err)
	}

	seq, err := l.lastSeq()
	if err != nil {
		l.close()
		return nil, fmt.Errorf("read journal sequence:\n%w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		l.close()
		return nil, fmt.Errorf("create encoder:\n%w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		l.close()
		return nil, fmt.Errorf("create decoder:\n%w", err)
	}

	logger.Debug("journal opened", "path", path, "records", seq)

	return &Journal{
		log:     l,
		encoder: encoder,
		decoder: decoder,
		now:     time.Now,
		seq:     seq,
	}, nil
}

// RecordIntent appends the intent record of one attempt.
func (j *Journal) RecordIntent(i commit.Intent) error {
	return j.append(Record{
		Kind:        KindIntent,
		RunID:       i.RunID,
		Attempt:     i.Attempt,
		NetUID:      i.NetUID,
		Fingerprint: i.Fingerprint,
		Vector:      i.Vector,
		Time:        i.Time,
	})
}

// RecordOutcome appends the outcome record closing a run.
func (j *Journal) RecordOutcome(runID string, o commit.Outcome) error {
	r := Record{
		Kind:    KindOutcome,
		RunID:   runID,
		Attempt: o.Attempts,
		Failure: o.Failure,
		Time:    j.now(),
	}

	if o.Err != nil {
		r.Message = o.Err.Error()
	}

	return j.append(r)
}

// append assigns the next sequence number and writes r with it atomically.
func (j *Journal) append(r Record) error {
	if r.Time.IsZero() {
		r.Time = j.now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	r.Seq = j.seq + 1
	value := j.encoder.EncodeAll(encodeRecord(r), nil)

	if err := j.log.put(r.Seq, value, r.Kind == KindOutcome); err != nil {
		return fmt.Errorf("write journal record %d:\n%w", r.Seq, err)
	}

	j.seq = r.Seq

	return nil
}

// Len returns the number of records written.
func (j *Journal) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.seq
}

// Entries calls fn for every record in sequence order.
// If fn returns an error, iteration stops and the error is returned.
func (j *Journal) Entries(fn func(Record) error) error {
	return j.log.each(func(seq uint64, value []byte) error {
		r, err := j.decode(seq, value)
		if err != nil {
			return err
		}

		return fn(r)
	})
}

// Run returns the records of one commit run in sequence order.
func (j *Journal) Run(runID string) ([]Record, error) {
	var records []Record

	err := j.Entries(func(r Record) error {
		if r.RunID == runID {
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Last returns the most recent record, or false if the journal is empty.
func (j *Journal) Last() (Record, bool, error) {
	j.mu.Lock()
	seq := j.seq
	j.mu.Unlock()

	if seq == 0 {
		return Record{}, false, nil
	}

	value, err := j.log.record(seq)
	if err != nil {
		return Record{}, false, fmt.Errorf("read journal record %d:\n%w", seq, err)
	}

	if value == nil {
		return Record{}, false, nil
	}

	r, err := j.decode(seq, value)
	if err != nil {
		return Record{}, false, err
	}

	return r, true, nil
}

// decode decompresses and parses record seq.
func (j *Journal) decode(seq uint64, value []byte) (Record, error) {
	raw, err := j.decoder.DecodeAll(value, nil)
	if err != nil {
		return Record{}, fmt.Errorf("decompress journal record %d:\n%w", seq, err)
	}

	r, err := decodeRecord(raw)
	if err != nil {
		return Record{}, fmt.Errorf("decode journal record %d:\n%w", seq, err)
	}

	r.Seq = seq

	return r, nil
}

// Close flushes the journal to disk and closes it.
func (j *Journal) Close() error {
	j.encoder.Close()
	j.decoder.Close()

	return j.log.close()
}
