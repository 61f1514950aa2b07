package db

import (
	"strings"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/pkg/errors"
)

// Storage backends selectable in the node configuration.
const (
	BackendSQLite    = "sqlite"
	BackendGoLevelDB = "goleveldb"
	BackendMemory    = "memory"
)

// Open returns the account store for backend. name is the SQLite file name
// or the goleveldb database name; it is ignored by the memory backend.
func Open(backend, dir, name string) (Store, error) {
	switch backend {
	case BackendSQLite:
		return OpenFileDB(dir, name, true)
	case BackendGoLevelDB:
		return OpenKVStore(strings.TrimSuffix(name, ".db"), dbm.GoLevelDBBackend, dir)
	case BackendMemory:
		return NewMemKVStore(), nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", backend)
	}
}
