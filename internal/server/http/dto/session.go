package dto

// SessionRequest carries a token issued by the auth service.
type SessionRequest struct {
	Token string `json:"token"`
}

// SessionResponse describes the authenticated user.
type SessionResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// PointsResponse represents the loyalty points balance.
type PointsResponse struct {
	Balance int64 `json:"balance"`
}

// ErrorResponse is returned with 4xx statuses caused by domain rules.
type ErrorResponse struct {
	Error string `json:"error"`
}
