package journal

import (
	"encoding/binary"
	"errors"

	"github.com/cockroachdb/pebble"
)

var (
	// recordPrefix prefixes every journal record key.
	recordPrefix = []byte("j:")

	// recordLimit is the exclusive upper bound of record keys.
	recordLimit = []byte("j;")

	// seqKey holds the last assigned sequence number.
	seqKey = []byte("m:seq")
)

// recordLog is the Pebble database under the journal.
// Record keys end with the big-endian sequence, so key order is journal order.
type recordLog struct {
	db *pebble.DB
}

// openRecordLog opens or creates the database at path.
func openRecordLog(path string) (*recordLog, error) {
	db, err := pebble.Open(path, &pebble.Options{
		Cache:        pebble.NewCache(4 << 20),
		MemTableSize: 2 << 20,
	})
	if err != nil {
		return nil, err
	}

	return &recordLog{db: db}, nil
}

// lastSeq returns the last sequence written, 0 for an empty log.
func (l *recordLog) lastSeq() (uint64, error) {
	value, closer, err := l.db.Get(seqKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	if len(value) != 8 {
		return 0, nil
	}

	return binary.BigEndian.Uint64(value), nil
}

// put writes value as record seq and advances the stored sequence in one batch.
// Durable writes sync the WAL before returning.
func (l *recordLog) put(seq uint64, value []byte, durable bool) error {
	batch := l.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(recordKey(seq), value, nil); err != nil {
		return err
	}

	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)

	if err := batch.Set(seqKey, seqBytes[:], nil); err != nil {
		return err
	}

	if durable {
		return batch.Commit(pebble.Sync)
	}

	return batch.Commit(pebble.NoSync)
}

// record returns a copy of record seq, or nil if it is absent.
func (l *recordLog) record(seq uint64) ([]byte, error) {
	value, closer, err := l.db.Get(recordKey(seq))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), value...), nil
}

// each calls fn for every record in sequence order until fn returns an error.
func (l *recordLog) each(fn func(seq uint64, value []byte) error) error {
	iter, err := l.db.NewIter(&pebble.IterOptions{
		LowerBound: recordPrefix,
		UpperBound: recordLimit,
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		seq := binary.BigEndian.Uint64(iter.Key()[len(recordPrefix):])
		if err := fn(seq, value); err != nil {
			return err
		}
	}

	return iter.Error()
}

// close syncs pending NoSync writes and closes the database.
func (l *recordLog) close() error {
	if err := l.db.LogData(nil, pebble.Sync); err != nil {
		l.db.Close()
		return err
	}

	return l.db.Close()
}

// recordKey builds the key of the record with sequence seq.
func recordKey(seq uint64) []byte {
	key := make([]byte, len(recordPrefix)+8)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint64(key[len(recordPrefix):], seq)

	return key
}
