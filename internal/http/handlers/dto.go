package handlers

import "time"

type orderRequest struct {
	OrderID string `json:"order_id"`
}

type acceptOrderRequest struct {
	OrderID     string `json:"order_id"`
	PrepMinutes int    `json:"prep_minutes"`
}

type orderDTO struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	PrepMinutes int       `json:"prep_minutes"`
	BranchID    string    `json:"branch_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type deliveryDTO struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"order_id"`
	ProviderType    string     `json:"provider_type"`
	Status          string     `json:"status"`
	DriverUserID    *string    `json:"driver_user_id"`
	TaxiOfficeID    *string    `json:"taxi_office_id"`
	ScheduledMoveAt *time.Time `json:"scheduled_move_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	StartedAt       *time.Time `json:"started_at"`
	DeliveredAt     *time.Time `json:"delivered_at"`
}

type orderViewResponse struct {
	Order    orderDTO     `json:"order"`
	Delivery *deliveryDTO `json:"delivery"`
}

type goOnlineRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type presenceDTO struct {
	DriverUserID string    `json:"driver_user_id"`
	IsOnline     bool      `json:"is_online"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
}

type contractDTO struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	CommissionRate float64   `json:"commission_rate"`
	AutoRenew      bool      `json:"auto_renew"`
	DaysLeft       int       `json:"days_left"`
}

type replyRequest struct {
	From string `json:"from"`
	Text string `json:"text"`
}

type replyResponse struct {
	OK        bool   `json:"ok"`
	AttemptID string `json:"attempt_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Note      string `json:"note,omitempty"`
}
