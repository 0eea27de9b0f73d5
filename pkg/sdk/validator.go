package sdk

import "strconv"

const (
	statusEndpoint        = "/status"
	contributionsEndpoint = "/contributions"
	roundsEndpoint        = "/rounds"
)

type ValidatorStatus struct {
	CurrentRound int      `json:"current_round"`
	Rounds       int      `json:"rounds"`
	Finished     bool     `json:"finished"`
	Submitted    []uint64 `json:"submitted"`
	Expected     []uint64 `json:"expected"`
	LastOutput   string   `json:"last_output,omitempty"`
}

type ContributionsPage struct {
	Finished      bool      `json:"finished"`
	Participants  []uint64  `json:"participants"`
	Contributions []float64 `json:"contributions"`
}

type RoundStatistics struct {
	Round             int       `json:"round"`
	SubmittedIDs      []uint64  `json:"submitted_ids"`
	Alpha             []float64 `json:"alpha"`
	ValidationResults []float64 `json:"validation_results"`
	TestResults       []float64 `json:"test_results"`
}

func (sdk *gridSDK) ValidatorStatus() (ValidatorStatus, error) {
	var st ValidatorStatus
	if err := sdk.get(sdk.validatorURL+statusEndpoint, &st); err != nil {
		return ValidatorStatus{}, err
	}

	return st, nil
}

func (sdk *gridSDK) Contributions() (ContributionsPage, error) {
	var page ContributionsPage
	if err := sdk.get(sdk.validatorURL+contributionsEndpoint, &page); err != nil {
		return ContributionsPage{}, err
	}

	return page, nil
}

func (sdk *gridSDK) RoundStatistics(round int) (RoundStatistics, error) {
	var stats RoundStatistics
	if err := sdk.get(sdk.validatorURL+roundsEndpoint+"/"+strconv.Itoa(round), &stats); err != nil {
		return RoundStatistics{}, err
	}

	return stats, nil
}
