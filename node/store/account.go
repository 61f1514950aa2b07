// Package store contains the GORM models persisted by the bridge node.
//
// Database structure (database file: accounts.db):
//
//	accounts
//	├── address    base58 address, primary key
//	├── lamports
//	├── owner      base58 program id, indexed
//	└── data       raw record bytes
package store

import (
	"time"
)

// Account is one address of the ledger and the bytes stored at it.
type Account struct {
	Address   string `gorm:"primaryKey;size:44"`
	Lamports  uint64 `gorm:"not null"`
	Owner     string `gorm:"index;size:44;not null"`
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for Account.
func (Account) TableName() string {
	return "accounts"
}
