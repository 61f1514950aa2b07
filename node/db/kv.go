package db

import (
	"bytes"
	"context"
	"encoding/binary"

	dbm "github.com/cosmos/cosmos-db"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/allbridge-io/allbridge-master-contract/node/host"
)

// accountPrefix namespaces account entries inside the key/value store.
var accountPrefix = []byte("acct/")

var _ Store = (*KVStore)(nil)

// KVStore keeps accounts in a cosmos-db database. Each value is
// lamports u64 | owner [32]byte | data (u32 length prefixed).
type KVStore struct {
	db dbm.DB
}

// NewKVStore wraps an already opened database.
func NewKVStore(db dbm.DB) *KVStore {
	return &KVStore{db: db}
}

// NewMemKVStore returns an empty in-memory store.
func NewMemKVStore() *KVStore {
	return NewKVStore(dbm.NewMemDB())
}

// OpenKVStore opens (or creates) the named database of backend under dir.
func OpenKVStore(name string, backend dbm.BackendType, dir string) (*KVStore, error) {
	if backend != dbm.MemDBBackend {
		if err := ensureDir(dir); err != nil {
			return nil, errors.Wrap(err, "failed to prepare database path")
		}
	}
	db, err := dbm.NewDB(name, backend, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database %s", backend, name)
	}
	return NewKVStore(db), nil
}

func accountKey(key solana.PublicKey) []byte {
	return append(bytes.Clone(accountPrefix), key[:]...)
}

func (s *KVStore) GetAccount(_ context.Context, key solana.PublicKey) (host.Account, bool, error) {
	bz, err := s.db.Get(accountKey(key))
	if err != nil {
		return host.Account{}, false, errors.Wrapf(err, "failed to load account %s", key)
	}
	if bz == nil {
		return host.Account{}, false, nil
	}
	acc, err := decodeAccount(key, bz)
	if err != nil {
		return host.Account{}, false, err
	}
	return acc, true, nil
}

// CommitAccounts writes every account in one synced batch.
func (s *KVStore) CommitAccounts(_ context.Context, accounts []host.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	batch := s.db.NewBatch()
	defer batch.Close()

	for _, acc := range accounts {
		bz, err := encodeAccount(acc)
		if err != nil {
			return err
		}
		if err := batch.Set(accountKey(acc.Key), bz); err != nil {
			return errors.Wrapf(err, "failed to stage account %s", acc.Key)
		}
	}
	return errors.Wrapf(batch.WriteSync(), "failed to commit %d accounts", len(accounts))
}

func (s *KVStore) Close() error {
	return s.db.Close()
}

func encodeAccount(acc host.Account) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint64(acc.Lamports, binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "encode lamports")
	}
	if err := enc.WriteBytes(acc.Owner[:], false); err != nil {
		return nil, errors.Wrap(err, "encode owner")
	}
	if err := enc.WriteUint32(uint32(len(acc.Data)), binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "encode data length")
	}
	if err := enc.WriteBytes(acc.Data, false); err != nil {
		return nil, errors.Wrap(err, "encode data")
	}
	return buf.Bytes(), nil
}

func decodeAccount(key solana.PublicKey, bz []byte) (host.Account, error) {
	dec := bin.NewBinDecoder(bz)
	acc := host.Account{Key: key}

	lamports, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return acc, errors.Wrapf(err, "corrupt lamports of account %s", key)
	}
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return acc, errors.Wrapf(err, "corrupt owner of account %s", key)
	}
	size, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return acc, errors.Wrapf(err, "corrupt data length of account %s", key)
	}
	var data []byte
	if size > 0 {
		if data, err = dec.ReadNBytes(int(size)); err != nil {
			return acc, errors.Wrapf(err, "corrupt data of account %s", key)
		}
	}

	acc.Lamports = lamports
	copy(acc.Owner[:], owner)
	acc.Data = bytes.Clone(data)
	return acc, nil
}
