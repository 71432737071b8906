package model

// PointsAccount is the loyalty balance of a single user.
type PointsAccount struct {
	UserID  int64
	Balance int64
}
