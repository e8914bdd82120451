package credential

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/dtroode/emotion-log/internal/logger"
)

var _ Store = (*Badger)(nil)

// Badger is a Store backed by a badger database in the user's data directory.
// Each operation runs in its own transaction.
type Badger struct {
	db     *badger.DB
	logger *logger.Logger
}

// NewBadger opens or creates the token database in dir.
func NewBadger(dir string, logger *logger.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = true
	return openBadger(opts, logger)
}

// NewBadgerInMemory opens a badger database that is never written to disk.
func NewBadgerInMemory(logger *logger.Logger) (*Badger, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), logger)
}

func openBadger(opts badger.Options, logger *logger.Logger) (*Badger, error) {
	opts.Logger = badgerLogger{logger: logger}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return &Badger{db: db, logger: logger}, nil
}

func (b *Badger) Put(token string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(TokenKey), []byte(token))
	})
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (b *Badger) Get() (string, bool, error) {
	var token []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(TokenKey))
		if err != nil {
			return err
		}
		token, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read token: %w", err)
	}
	return string(token), true, nil
}

func (b *Badger) Clear() error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(TokenKey))
	})
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger forwards badger's warnings and errors to the project logger and drops the rest.
type badgerLogger struct {
	logger *logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error("Credential store: " + fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn("Credential store: " + fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(string, ...any) {}

func (l badgerLogger) Debugf(string, ...any) {}
