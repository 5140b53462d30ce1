package api

import (
	"fmt"
	"time"
)

// TokenPair holds the JWT access/refresh token pair issued by the server.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the account payload returned by auth endpoints.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult is returned by login and signup verification.
type AuthResult struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Summary aggregates a dataset's equipment statistics.
type Summary struct {
	TotalEquipment   int            `json:"total_equipment"`
	AvgFlowrate      float64        `json:"avg_flowrate"`
	AvgPressure      float64        `json:"avg_pressure"`
	AvgTemperature   float64        `json:"avg_temperature"`
	TypeDistribution map[string]int `json:"type_distribution"`
}

// Dataset is one uploaded CSV snapshot.
type Dataset struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	Name             string         `json:"name"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	TotalEquipment   int            `json:"total_equipment"`
	AvgFlowrate      float64        `json:"avg_flowrate"`
	AvgPressure      float64        `json:"avg_pressure"`
	AvgTemperature   float64        `json:"avg_temperature"`
	TypeDistribution map[string]int `json:"type_distribution"`
}

// Equipment is a single equipment reading within a dataset.
type Equipment struct {
	ID          string  `json:"id"`
	DatasetID   string  `json:"dataset_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Flowrate    float64 `json:"flowrate"`
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
}

// UploadResult is returned by the CSV upload endpoint.
type UploadResult struct {
	Dataset     Dataset `json:"dataset"`
	Summary     Summary `json:"summary"`
	SkippedRows int     `json:"skipped_rows"`
}

// DatasetDetail is a dataset together with its equipment rows.
type DatasetDetail struct {
	Dataset   Dataset     `json:"dataset"`
	Equipment []Equipment `json:"equipment"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPasswordRequest completes a password reset with a verified OTP.
type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Code            string `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}
