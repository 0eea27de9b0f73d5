package api

import (
	"context"

	"github.com/absmach/gridfl/participant"
	"github.com/go-kit/kit/endpoint"
)

func statusEndpoint(svc participant.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		st, err := svc.Status(ctx)
		if err != nil {
			return statusResponse{}, err
		}

		return statusResponse{Status: st}, nil
	}
}

func historyEndpoint(svc participant.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		history, err := svc.History(ctx)
		if err != nil {
			return historyResponse{}, err
		}

		return historyResponse{History: history}, nil
	}
}
