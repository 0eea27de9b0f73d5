package storage

import (
	"fmt"
	"io"

	"github.com/absmach/gridfl/pkg/storage/badger"
	"github.com/absmach/gridfl/validator"
)

type Config struct {
	Type       string `env:"STORAGE_TYPE" envDefault:"memory"`
	BadgerPath string `env:"BADGER_PATH"  envDefault:"./data/badger"`
}

type Repositories struct {
	Rounds validator.RoundRepository
	// Closer closes the underlying persistent storage connection.
	// It is nil for the in-memory backend.
	Closer io.Closer
}

func NewRepositories(cfg Config) (*Repositories, error) {
	switch cfg.Type {
	case "badger":
		db, err := badger.NewDatabase(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}

		return &Repositories{
			Rounds: badger.NewRoundRepository(db),
			Closer: db,
		}, nil
	case "memory", "":
		return &Repositories{Rounds: NewInMemoryRoundRepository()}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
