package handler

// responseEnvelope mirrors response.Envelope for assertions without binding
// to concrete payload types.
type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}
