package api

import (
	"net/http"

	"github.com/absmach/gridfl/participant"
	"github.com/absmach/gridfl/pkg/api"
	"github.com/absmach/gridfl/pkg/fl"
)

var (
	_ api.Response = (*statusResponse)(nil)
	_ api.Response = (*historyResponse)(nil)
)

type statusResponse struct {
	participant.Status
}

func (s statusResponse) Code() int {
	return http.StatusOK
}

func (s statusResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s statusResponse) Empty() bool {
	return false
}

type historyResponse struct {
	History []*fl.TrainingOutcome `json:"history"`
}

func (h historyResponse) Code() int {
	return http.StatusOK
}

func (h historyResponse) Headers() map[string]string {
	return map[string]string{}
}

func (h historyResponse) Empty() bool {
	return false
}
