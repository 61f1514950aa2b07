// Package db persists ledger accounts for the bridge node. Two backends are
// provided: a GORM-based SQLite database and a cosmos-db key/value store
// (goleveldb on disk, memdb for tests).
package db

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/allbridge-io/allbridge-master-contract/node/host"
	"github.com/allbridge-io/allbridge-master-contract/node/store"
)

const (
	// InMemorySQLiteDSN opens a SQLite database that lives as long as its connection.
	InMemorySQLiteDSN = ":memory:"

	// fileDSNOptions are appended to file databases.
	fileDSNOptions = "?_journal_mode=WAL&_busy_timeout=5000&mode=rwc"

	dataDirMode = 0o750
)

var schemaModels = []any{
	&store.Account{},
}

// Store is an account database the node can close.
type Store interface {
	host.AccountsDB
	Close() error
}

var _ Store = (*DB)(nil)

// DB is the SQLite account store.
type DB struct {
	client *gorm.DB
}

// OpenFileDB opens <dir>/<filename>, creating dir when missing. The schema
// is migrated when migrateSchema is set.
func OpenFileDB(dir, filename string, migrateSchema bool) (*DB, error) {
	if err := ensureDir(dir); err != nil {
		return nil, errors.Wrap(err, "failed to prepare database path")
	}
	return openSQLite(filepath.Join(dir, filename)+fileDSNOptions, migrateSchema)
}

// OpenInMemoryDB opens an empty database that is dropped on Close.
func OpenInMemoryDB(migrateSchema bool) (*DB, error) {
	return openSQLite(InMemorySQLiteDSN, migrateSchema)
}

func openSQLite(dsn string, migrateSchema bool) (*DB, error) {
	client, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %s", dsn)
	}

	if migrateSchema {
		if err := client.AutoMigrate(schemaModels...); err != nil {
			return nil, errors.Wrap(err, "failed to migrate account schema")
		}
	}

	sqlDB, err := client.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to reach sql connection pool")
	}
	// One connection: commits are serialized and an in-memory database is
	// not split across connections.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &DB{client: client}, nil
}

// Client exposes the gorm handle for ad hoc queries.
func (d *DB) Client() *gorm.DB {
	return d.client
}

// GetAccount loads the account stored at key.
func (d *DB) GetAccount(ctx context.Context, key solana.PublicKey) (host.Account, bool, error) {
	var row store.Account
	res := d.client.WithContext(ctx).Where("address = ?", key.String()).Limit(1).Find(&row)
	if res.Error != nil {
		return host.Account{}, false, errors.Wrapf(res.Error, "failed to load account %s", key)
	}
	if res.RowsAffected == 0 {
		return host.Account{}, false, nil
	}
	acc, err := fromModel(row)
	if err != nil {
		return host.Account{}, false, err
	}
	return acc, true, nil
}

// CommitAccounts upserts every account in one SQL transaction.
func (d *DB) CommitAccounts(ctx context.Context, accounts []host.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	rows := make([]store.Account, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, toModel(acc))
	}

	err := d.client.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"lamports", "owner", "data", "updated_at"}),
		}).Create(&rows).Error
	})
	return errors.Wrapf(err, "failed to commit %d accounts", len(accounts))
}

// Close releases the connection. An in-memory database is lost.
func (d *DB) Close() error {
	sqlDB, err := d.client.DB()
	if err != nil {
		return errors.Wrap(err, "failed to reach sql connection pool")
	}
	return errors.Wrap(sqlDB.Close(), "failed to close sqlite database")
}

func toModel(acc host.Account) store.Account {
	return store.Account{
		Address:  acc.Key.String(),
		Lamports: acc.Lamports,
		Owner:    acc.Owner.String(),
		Data:     acc.Data,
	}
}

func fromModel(row store.Account) (host.Account, error) {
	key, err := solana.PublicKeyFromBase58(row.Address)
	if err != nil {
		return host.Account{}, errors.Wrapf(err, "corrupt account key %q", row.Address)
	}
	owner, err := solana.PublicKeyFromBase58(row.Owner)
	if err != nil {
		return host.Account{}, errors.Wrapf(err, "corrupt owner of account %s", row.Address)
	}
	return host.Account{Key: key, Lamports: row.Lamports, Owner: owner, Data: row.Data}, nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return errors.Wrapf(os.MkdirAll(dir, dataDirMode), "failed to create %s", dir)
	case err != nil:
		return errors.Wrapf(err, "failed to stat %s", dir)
	case !info.IsDir():
		return errors.Errorf("%s is not a directory", dir)
	}
	return nil
}
