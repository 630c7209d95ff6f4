package form

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/mietradar/mietradar/internal/refdata"
)

// Field names used as keys in validation error maps.
const (
	FieldSize     = "size"
	FieldRooms    = "rooms"
	FieldZipCode  = "zip_code"
	FieldYear     = "year_constructed"
	FieldCityName = "city_name"
)

// User-facing validation messages.
const (
	MsgSizeTooSmall   = "Größe muss mind. 10 m² sein."
	MsgRoomsTooFew    = "Mindestens 1 Zimmer erforderlich."
	MsgZipCodeLength  = "PLZ muss 5-stellig sein."
	MsgZipCodeNoData  = "Für diese Region liegen keine Trainingsdaten vor."
	MsgYearInvalid    = "Bitte ein gültiges Baujahr angeben."
	MsgCityNameLength = "Stadtname muss mindestens 3 Zeichen lang sein."
)

// MinConstructionYear is the exclusive lower bound for the construction
// year; anything at or below it is rejected.
const MinConstructionYear = 1600

// Errors maps field names to human-readable validation messages.
// An empty map means the form is submittable.
type Errors map[string]string

// Has reports whether the given field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// PredictionData is the raw prediction form state. Numeric fields stay
// display strings so user-typed decimal separators survive until payload
// normalization at submit time.
type PredictionData struct {
	Size            string
	Rooms           string
	ZipCode         string
	YearConstructed string
	HasKitchen      bool
	HasElevator     bool
	HasGarage       bool
	HasBalcony      bool
}

// CityRequestData is the raw city-request form state.
type CityRequestData struct {
	ZipCode  string
	CityName string
}

// ValidatePrediction checks all prediction form fields and returns every
// violation at once. The reference table may be nil, in which case the
// training-data existence check is skipped.
//
// When the postal code both fails the length check and is missing from the
// reference table, the training-data message wins: the later check
// overwrites the earlier one.
func ValidatePrediction(data PredictionData, table *refdata.Table, now time.Time) Errors {
	errs := Errors{}

	if v, err := strconv.ParseFloat(NormalizeDecimal(data.Size), 64); data.Size == "" || err != nil || v < 10 {
		errs[FieldSize] = MsgSizeTooSmall
	}

	if v, err := strconv.ParseFloat(NormalizeDecimal(data.Rooms), 64); data.Rooms == "" || err != nil || v < 1 {
		errs[FieldRooms] = MsgRoomsTooFew
	}

	if data.ZipCode == "" || len(data.ZipCode) != 5 {
		errs[FieldZipCode] = MsgZipCodeLength
	}
	if !table.Contains(data.ZipCode) {
		errs[FieldZipCode] = MsgZipCodeNoData
	}

	year, err := strconv.Atoi(data.YearConstructed)
	if data.YearConstructed == "" || err != nil || year <= MinConstructionYear || year > now.Year() {
		errs[FieldYear] = MsgYearInvalid
	}

	return errs
}

// ValidateCityRequest checks both city-request fields and returns every
// violation at once.
func ValidateCityRequest(data CityRequestData) Errors {
	errs := Errors{}

	if data.ZipCode == "" || len(data.ZipCode) != 5 {
		errs[FieldZipCode] = MsgZipCodeLength
	}

	if utf8.RuneCountInString(data.CityName) < 3 {
		errs[FieldCityName] = MsgCityNameLength
	}

	return errs
}
