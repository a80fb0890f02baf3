package dto

// Response is the success envelope every endpoint returns:
// {status, data, message}. Errors use the apierr envelope instead.
type Response struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}
