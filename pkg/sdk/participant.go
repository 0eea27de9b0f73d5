package sdk

const historyEndpoint = "/history"

type ParticipantStatus struct {
	ParticipantID uint64 `json:"participant_id"`
	CurrentRound  int    `json:"current_round"`
	Rounds        int    `json:"rounds"`
	Finished      bool   `json:"finished"`
}

type TrainingOutcome struct {
	Epochs  int                  `json:"epochs"`
	History map[string][]float64 `json:"history"`
}

type ParticipantHistory struct {
	History []*TrainingOutcome `json:"history"`
}

func (sdk *gridSDK) ParticipantStatus() (ParticipantStatus, error) {
	var st ParticipantStatus
	if err := sdk.get(sdk.participantURL+statusEndpoint, &st); err != nil {
		return ParticipantStatus{}, err
	}

	return st, nil
}

func (sdk *gridSDK) ParticipantHistory() (ParticipantHistory, error) {
	var h ParticipantHistory
	if err := sdk.get(sdk.participantURL+historyEndpoint, &h); err != nil {
		return ParticipantHistory{}, err
	}

	return h, nil
}
