package api

import "github.com/absmach/gridfl/pkg/api"

type roundReq struct {
	round int
}

func (r *roundReq) validate() error {
	if r.round < 0 {
		return api.ErrInvalidRound
	}

	return nil
}
