package dto

import (
	"github.com/storeledger/backend/internal/application/usecase/advisor"
	"github.com/storeledger/backend/internal/domain/entity"
)

// AskRequest represents the request body for the advisor question API.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	Period   string `json:"period"`
}

// AskResponse represents the response for the advisor question API.
type AskResponse struct {
	Data AskData `json:"data"`
}

// AskData represents the data section of the advisor answer.
type AskData struct {
	Answer    string `json:"answer"`
	Generated bool   `json:"generated"`
	Period    string `json:"period"`
}

// AlertsResponse represents the response for the advisor alerts API.
type AlertsResponse struct {
	Data AlertsData `json:"data"`
}

// AlertsData represents the data section of the alerts response.
type AlertsData struct {
	Period string          `json:"period"`
	Alerts []AlertResponse `json:"alerts"`
}

// AlertResponse represents one triggered alert.
type AlertResponse struct {
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// ToAskResponse converts an AnswerQuestionOutput to the response DTO.
func ToAskResponse(output *advisor.AnswerQuestionOutput, period string) AskResponse {
	return AskResponse{
		Data: AskData{
			Answer:    output.Answer,
			Generated: output.Generated,
			Period:    period,
		},
	}
}

// ToAlertsResponse converts the triggered alerts to the response DTO.
func ToAlertsResponse(alerts []entity.Alert, period string) AlertsResponse {
	data := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		data[i] = AlertResponse{
			Severity:       string(a.Severity),
			Message:        a.Message,
			Recommendation: a.Recommendation,
		}
	}
	return AlertsResponse{Data: AlertsData{Period: period, Alerts: data}}
}
