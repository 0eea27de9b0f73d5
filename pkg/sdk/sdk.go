package sdk

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

type SDK interface {
	// ValidatorStatus gets the round progress of the validator.
	//
	// example:
	//  st, _ := sdk.ValidatorStatus()
	//  fmt.Println(st.CurrentRound)
	ValidatorStatus() (ValidatorStatus, error)

	// Contributions gets the averaged participant contributions.
	//
	// example:
	//  page, _ := sdk.Contributions()
	//  fmt.Println(page.Contributions)
	Contributions() (ContributionsPage, error)

	// RoundStatistics gets the statistics of a finalized round.
	//
	// example:
	//  stats, _ := sdk.RoundStatistics(0)
	//  fmt.Println(stats.Alpha)
	RoundStatistics(round int) (RoundStatistics, error)

	// ParticipantStatus gets the round progress of a participant.
	ParticipantStatus() (ParticipantStatus, error)

	// ParticipantHistory gets the training outcome of every local round.
	ParticipantHistory() (ParticipantHistory, error)
}

type gridSDK struct {
	validatorURL   string
	participantURL string
	client         *http.Client
}

type Config struct {
	ValidatorURL    string
	ParticipantURL  string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &gridSDK{
		validatorURL:   cfg.ValidatorURL,
		participantURL: cfg.ParticipantURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *gridSDK) processRequest(method, reqURL string, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, http.NoBody)
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Accept", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return []byte{}, fmt.Errorf("unexpected response code %d: %s", resp.StatusCode, e.Error)
		}

		return []byte{}, fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return body, nil
}

func (sdk *gridSDK) get(reqURL string, v any) error {
	body, err := sdk.processRequest(http.MethodGet, reqURL, http.StatusOK)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, v)
}
