package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/absmach/gridfl/validator"
)

const roundPrefix = "round:"

var _ validator.RoundRepository = (*roundRepo)(nil)

type roundRepo struct {
	db *Database
}

func NewRoundRepository(db *Database) validator.RoundRepository {
	return &roundRepo{db: db}
}

// Zero padded so iteration order matches round order.
func roundKey(round int) []byte {
	return []byte(fmt.Sprintf("%s%06d", roundPrefix, round))
}

func (r *roundRepo) Save(_ context.Context, round int, stats validator.RoundStatistics) error {
	val, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	return r.db.set(roundKey(round), val)
}

func (r *roundRepo) Get(_ context.Context, round int) (validator.RoundStatistics, error) {
	val, err := r.db.get(roundKey(round))
	if err != nil {
		return validator.RoundStatistics{}, err
	}
	var stats validator.RoundStatistics
	if err := json.Unmarshal(val, &stats); err != nil {
		return validator.RoundStatistics{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return stats, nil
}

func (r *roundRepo) List(_ context.Context) (map[int]validator.RoundStatistics, error) {
	out := make(map[int]validator.RoundStatistics)
	err := r.db.scanPrefix([]byte(roundPrefix), func(key, val []byte) error {
		round, err := strconv.Atoi(strings.TrimPrefix(string(key), roundPrefix))
		if err != nil {
			return fmt.Errorf("invalid round key %q: %w", key, err)
		}
		var stats validator.RoundStatistics
		if err := json.Unmarshal(val, &stats); err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}
		out[round] = stats

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
