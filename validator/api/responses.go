package api

import (
	"net/http"

	"github.com/absmach/gridfl/pkg/api"
	"github.com/absmach/gridfl/validator"
)

var (
	_ api.Response = (*statusResponse)(nil)
	_ api.Response = (*contributionsResponse)(nil)
	_ api.Response = (*roundResponse)(nil)
)

type statusResponse struct {
	validator.Status
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

type contributionsResponse struct {
	validator.ContributionsPage
}

func (c contributionsResponse) Code() int {
	return http.StatusOK
}

func (c contributionsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (c contributionsResponse) Empty() bool {
	return false
}

type roundResponse struct {
	Round int `json:"round"`
	validator.RoundStatistics
}

func (r roundResponse) Code() int {
	return http.StatusOK
}

func (r roundResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r roundResponse) Empty() bool {
	return false
}
