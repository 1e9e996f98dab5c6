package dto

type StateResponse struct {
	Scope string                 `json:"scope"`
	Key   string                 `json:"key"`
	State map[string]interface{} `json:"state"`
}

type SetStateRequest struct {
	Key   string      `json:"key" validate:"required"`
	Value interface{} `json:"value"`
}

type SetStateResponse struct {
	Scope string `json:"scope"`
	Key   string `json:"key"`
}
