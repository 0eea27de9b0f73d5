package api

import (
	"context"
	"errors"

	"github.com/absmach/gridfl/pkg/api"
	pkgerrors "github.com/absmach/gridfl/pkg/errors"
	"github.com/absmach/gridfl/validator"
	"github.com/go-kit/kit/endpoint"
)

func statusEndpoint(svc validator.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		st, err := svc.Status(ctx)
		if err != nil {
			return statusResponse{}, err
		}

		return statusResponse{Status: st}, nil
	}
}

func contributionsEndpoint(svc validator.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		page, err := svc.Contributions(ctx)
		if err != nil {
			return contributionsResponse{}, err
		}

		return contributionsResponse{ContributionsPage: page}, nil
	}
}

func roundEndpoint(svc validator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(roundReq)
		if !ok {
			return roundResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return roundResponse{}, errors.Join(api.ErrValidation, err)
		}

		stats, err := svc.RoundStatistics(ctx, req.round)
		if err != nil {
			return roundResponse{}, err
		}

		return roundResponse{Round: req.round, RoundStatistics: stats}, nil
	}
}
