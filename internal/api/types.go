package api

// RegisterUserRequest for RegisterUser.
type RegisterUserRequest struct {
	Email     string `json:"email"`
	Ticker    string `json:"ticker"`
	RequestID string `json:"request_id"`
}

// UpdateUserRequest for UpdateUser.
type UpdateUserRequest struct {
	Email     string `json:"email"`
	Ticker    string `json:"ticker"`
	RequestID string `json:"request_id"`
}

// DeleteUserRequest for DeleteUser.
type DeleteUserRequest struct {
	Email     string `json:"email"`
	RequestID string `json:"request_id"`
}

// MutationResponse is returned by RegisterUser, UpdateUser and DeleteUser.
type MutationResponse struct {
	Outcome string `json:"outcome"` // service.Outcome value
	Message string `json:"message"`
}

// LoginUserRequest for LoginUser.
type LoginUserRequest struct {
	Email string `json:"email"`
}

// LoginUserResponse from LoginUser.
type LoginUserResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// GetLatestValueRequest for GetLatestValue.
type GetLatestValueRequest struct {
	Email string `json:"email"`
}

// GetLatestValueResponse from GetLatestValue.
type GetLatestValueResponse struct {
	Ticker    string  `json:"ticker"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"` // "2006-01-02 15:04:05", UTC
}

// GetAverageValueRequest for GetAverageValue.
type GetAverageValueRequest struct {
	Email string `json:"email"`
	Count int32  `json:"count"`
}

// GetAverageValueResponse from GetAverageValue.
type GetAverageValueResponse struct {
	Ticker       string  `json:"ticker"`
	AverageValue float64 `json:"average_value"`
}
