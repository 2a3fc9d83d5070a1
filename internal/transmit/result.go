package transmit

import (
	"strings"
	"time"

	"github.com/rezonia/dte-emitter/internal/model"
)

// Reception states
const (
	StatusProcessed = "PROCESADO"
	StatusRejected  = "RECHAZADO"
)

// ProcessedAtLayout is the layout of fhProcesamiento
const ProcessedAtLayout = "02/01/2006 15:04:05"

// Response is the answer of the reception, invalidation and consult endpoints
type Response struct {
	Version        int      `json:"version"`
	Environment    string   `json:"ambiente"`
	AppVersion     int      `json:"versionApp"`
	Status         string   `json:"estado"`
	GenerationCode string   `json:"codigoGeneracion"`
	ReceivedSeal   *string  `json:"selloRecibido"`
	ProcessedAt    string   `json:"fhProcesamiento"`
	Classification string   `json:"clasificaMsg"`
	MessageCode    string   `json:"codigoMsg"`
	Description    string   `json:"descripcionMsg"`
	Observations   []string `json:"observaciones"`
}

// Result is the outcome of a transmission or consult
type Result struct {
	Success        bool               `json:"success"`
	Status         string             `json:"status,omitempty"`
	GenerationCode string             `json:"generation_code,omitempty"`
	ReceivedSeal   string             `json:"received_seal,omitempty"`
	ProcessedAt    time.Time          `json:"processed_at,omitempty"`
	MessageCode    string             `json:"message_code,omitempty"`
	Description    string             `json:"description,omitempty"`
	Observations   []string           `json:"observations,omitempty"`
	Attempts       int                `json:"attempts"`
	Duration       time.Duration      `json:"duration"`
	Error          *TransmissionError `json:"error,omitempty"`
}

// Accepted reports whether the authority processed the document
func (r *Result) Accepted() bool {
	return r.Success && r.Status == StatusProcessed
}

// Rejected reports whether the authority definitively rejected the document
func (r *Result) Rejected() bool {
	return r.Status == StatusRejected
}

// Err returns the failure as an error, nil on success
func (r *Result) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// ParseProcessedAt parses fhProcesamiento in El Salvador time
func ParseProcessedAt(s string) (time.Time, error) {
	return time.ParseInLocation(ProcessedAtLayout, strings.TrimSpace(s), model.Location)
}

// classify turns a reception answer into a result
func classify(resp *Response) *Result {
	r := &Result{
		Status:         strings.ToUpper(resp.Status),
		GenerationCode: resp.GenerationCode,
		MessageCode:    resp.MessageCode,
		Description:    resp.Description,
		Observations:   resp.Observations,
	}
	if resp.ReceivedSeal != nil {
		r.ReceivedSeal = *resp.ReceivedSeal
	}
	if at, err := ParseProcessedAt(resp.ProcessedAt); err == nil {
		r.ProcessedAt = at
	}

	switch r.Status {
	case StatusProcessed:
		r.Success = true
	case StatusRejected:
		r.Error = ErrRejected(resp.MessageCode, resp.Description)
	default:
		r.Error = ErrInvalidResponse(nil)
		r.Error.Message = "unknown reception state " + resp.Status
	}
	return r
}
