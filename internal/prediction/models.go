package prediction

import (
	"fmt"
	"strconv"

	"github.com/mietradar/mietradar/internal/form"
)

// Request is the JSON body for POST /predict.
//
// Size and rooms are sent as period-decimal strings, matching what the
// service's schema accepts for free-text numeric input. The amenity flags
// are only present in advanced mode; in basic mode they are omitted from
// the JSON entirely. Garage is collected by the form but the deployed
// model has no garage feature, so it is never part of the payload.
type Request struct {
	Size            string `json:"size"`
	Rooms           string `json:"rooms"`
	ZipCode         string `json:"zip_code"`
	YearConstructed int    `json:"year_constructed"`
	Balcony         *bool  `json:"balcony,omitempty"`
	Kitchen         *bool  `json:"kitchen,omitempty"`
	Elevator        *bool  `json:"elevator,omitempty"`
}

// Response is the JSON body of a successful POST /predict.
type Response struct {
	EstimatedRentCold float64 `json:"estimated_rent_cold"`
}

// ChampionMetrics holds the headline quality metrics of the champion model.
type ChampionMetrics struct {
	R2Score float64 `json:"r2_score"`
	MAE     float64 `json:"mae"`
}

// FeatureImportance is one entry of the champion model's feature ranking.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ChampionModelInfo is the JSON body of GET /model-info: metadata about
// the currently deployed prediction model.
type ChampionModelInfo struct {
	ModelVersion string              `json:"model_version"`
	RunID        string              `json:"run_id"`
	LastUpdated  string              `json:"last_updated"`
	Metrics      ChampionMetrics     `json:"metrics"`
	TopFeatures  []FeatureImportance `json:"top_features"`
}

// NewRequest builds a prediction request from validated form data.
// Decimal separators are normalized to periods and the construction year
// is parsed to an integer. The amenity flags are attached only in
// advanced mode.
//
// The data must already have passed form.ValidatePrediction; a year that
// fails to parse here indicates a programming error and is reported as one.
func NewRequest(data form.PredictionData, advanced bool) (Request, error) {
	year, err := strconv.Atoi(data.YearConstructed)
	if err != nil {
		return Request{}, fmt.Errorf("unvalidated construction year %q: %w", data.YearConstructed, err)
	}

	req := Request{
		Size:            form.NormalizeDecimal(data.Size),
		Rooms:           form.NormalizeDecimal(data.Rooms),
		ZipCode:         data.ZipCode,
		YearConstructed: year,
	}

	if advanced {
		balcony := data.HasBalcony
		kitchen := data.HasKitchen
		elevator := data.HasElevator
		req.Balcony = &balcony
		req.Kitchen = &kitchen
		req.Elevator = &elevator
	}

	return req, nil
}
