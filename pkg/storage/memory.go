package storage

import (
	"context"
	"maps"
	"sync"

	"github.com/absmach/gridfl/pkg/errors"
	"github.com/absmach/gridfl/validator"
)

var _ validator.RoundRepository = (*inMemoryRoundRepository)(nil)

type inMemoryRoundRepository struct {
	sync.Mutex

	data map[int]validator.RoundStatistics
}

func NewInMemoryRoundRepository() validator.RoundRepository {
	return &inMemoryRoundRepository{
		data: make(map[int]validator.RoundStatistics),
	}
}

func (s *inMemoryRoundRepository) Save(_ context.Context, round int, stats validator.RoundStatistics) error {
	if round < 0 {
		return errors.ErrInvalidData
	}

	s.Lock()
	defer s.Unlock()

	s.data[round] = stats

	return nil
}

func (s *inMemoryRoundRepository) Get(_ context.Context, round int) (validator.RoundStatistics, error) {
	s.Lock()
	defer s.Unlock()

	if val, ok := s.data[round]; ok {
		return val, nil
	}

	return validator.RoundStatistics{}, errors.ErrNotFound
}

func (s *inMemoryRoundRepository) List(_ context.Context) (map[int]validator.RoundStatistics, error) {
	s.Lock()
	defer s.Unlock()

	return maps.Clone(s.data), nil
}
