package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mietradar/mietradar/internal/cityrequest"
	"github.com/mietradar/mietradar/internal/config"
	"github.com/mietradar/mietradar/internal/form"
	"github.com/mietradar/mietradar/internal/logging"
	"github.com/mietradar/mietradar/internal/prediction"
	"github.com/mietradar/mietradar/internal/refdata"
	"github.com/mietradar/mietradar/internal/tui"
)

// Command flags
var (
	outputFormat string

	flatSize     string
	flatRooms    string
	flatZip      string
	flatYear     string
	flatBalcony  bool
	flatKitchen  bool
	flatElevator bool
	flatGarage   bool
	advancedMode bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(modelInfoCmd)
	rootCmd.AddCommand(requestCityCmd)
}

// loadEnvironment loads settings and the optional reference table. A
// missing table is not an error: the coverage check is simply skipped.
func loadEnvironment() (*config.Settings, *refdata.Table, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	table, err := refdata.Load(settings.ReferenceCSVPath())
	if err != nil {
		logging.Warn("reference table unavailable, coverage check disabled", zap.Error(err))
		table = nil
	}

	return settings, table, nil
}

// tuiCmd launches the interactive session
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive session",
	Long: `Launch the interactive terminal session.

The session provides:
- A prediction form for cold rent estimates
- An advanced mode with amenity toggles
- A city-request form for regions without coverage
- An overlay with details about the active prediction model

This is the recommended way to use the client for most users.`,
	Example: `  # Launch the interactive session
  mietradar tui
  # Or simply (the session is the default):
  mietradar`,
	RunE: runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	settings, table, err := loadEnvironment()
	if err != nil {
		return err
	}
	return tui.Run(settings, table)
}

// predictCmd requests a rent estimate without the interactive session
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Request a cold rent estimate",
	Long: `Request a cold rent estimate directly from the prediction service.

The same input rules apply as in the interactive form: size and rooms
accept a comma as decimal separator, the postal code must be five
digits, and the construction year must be after 1600. Amenity flags
are only sent when --advanced is set.`,
	Example: `  # Basic estimate
  mietradar predict --size 62,5 --rooms 2 --zip 04103 --year 1995

  # Include amenities
  mietradar predict --size 62,5 --rooms 2 --zip 04103 --year 1995 \
    --advanced --balcony --kitchen

  # JSON output for scripting
  mietradar predict --size 62,5 --rooms 2 --zip 04103 --year 1995 --format json`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&flatSize, "size", "", "Living area in m² (required)")
	predictCmd.Flags().StringVar(&flatRooms, "rooms", "", "Number of rooms (required)")
	predictCmd.Flags().StringVar(&flatZip, "zip", "", "Postal code (required)")
	predictCmd.Flags().StringVar(&flatYear, "year", "", "Construction year (required)")
	predictCmd.Flags().BoolVar(&flatBalcony, "balcony", false, "Balcony or terrace")
	predictCmd.Flags().BoolVar(&flatKitchen, "kitchen", false, "Fitted kitchen")
	predictCmd.Flags().BoolVar(&flatElevator, "elevator", false, "Elevator")
	predictCmd.Flags().BoolVar(&flatGarage, "garage", false, "Garage or parking spot")
	predictCmd.Flags().BoolVar(&advancedMode, "advanced", false, "Send amenity flags with the request")
	predictCmd.MarkFlagRequired("size")
	predictCmd.MarkFlagRequired("rooms")
	predictCmd.MarkFlagRequired("zip")
	predictCmd.MarkFlagRequired("year")
}

func runPredict(cmd *cobra.Command, args []string) error {
	settings, table, err := loadEnvironment()
	if err != nil {
		return err
	}

	data := form.PredictionData{
		Size:            form.SanitizeNumeric(form.SizeRule, "", flatSize),
		Rooms:           form.SanitizeNumeric(form.RoomsRule, "", flatRooms),
		ZipCode:         form.SanitizeNumeric(form.ZipCodeRule, "", flatZip),
		YearConstructed: form.SanitizeNumeric(form.YearRule, "", flatYear),
		HasBalcony:      flatBalcony,
		HasKitchen:      flatKitchen,
		HasElevator:     flatElevator,
		HasGarage:       flatGarage,
	}

	if errs := form.ValidatePrediction(data, table, time.Now()); len(errs) > 0 {
		for field, msg := range errs {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		return fmt.Errorf("invalid input")
	}

	req, err := prediction.NewRequest(data, advancedMode)
	if err != nil {
		return err
	}

	client := prediction.NewClient(settings.PredictionBaseURL())
	client.SetTimeout(settings.RequestTimeout())

	resp, err := client.Predict(req)
	if err != nil {
		return fmt.Errorf("prediction failed: %s", prediction.ShortMessage(err))
	}

	estimate := strconv.FormatFloat(resp.EstimatedRentCold, 'f', -1, 64)
	switch outputFormat {
	case "compact":
		fmt.Printf("%s€\n", estimate)
	case "json":
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
	case "detailed":
		fallthrough
	default:
		fmt.Printf("Empfohlene Kaltmiete: %s€\n", estimate)
	}

	return nil
}

// modelInfoCmd shows details about the active prediction model
var modelInfoCmd = &cobra.Command{
	Use:   "model-info",
	Short: "Show details about the active prediction model",
	Long: `Fetch and display details about the model currently serving
predictions: version, evaluation metrics and the most important
features.`,
	Example: `  # Detailed output
  mietradar model-info

  # One line summary
  mietradar model-info --format compact

  # JSON output for scripting
  mietradar model-info --format json`,
	RunE: runModelInfo,
}

func runModelInfo(cmd *cobra.Command, args []string) error {
	settings, _, err := loadEnvironment()
	if err != nil {
		return err
	}

	client := prediction.NewClient(settings.PredictionBaseURL())
	client.SetTimeout(settings.RequestTimeout())

	info, err := client.ModelInfo()
	if err != nil {
		return fmt.Errorf("failed to fetch model info: %s", prediction.ShortMessage(err))
	}

	switch outputFormat {
	case "compact":
		fmt.Println(formatModelInfoCompact(info))
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "detailed":
		fallthrough
	default:
		fmt.Println(formatModelInfoDetailed(info))
	}

	return nil
}

func formatModelInfoCompact(info *prediction.ChampionModelInfo) string {
	return fmt.Sprintf("%s r2=%.3f mae=%.0f", info.ModelVersion, info.Metrics.R2Score, info.Metrics.MAE)
}

func formatModelInfoDetailed(info *prediction.ChampionModelInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Model Version: %s\n", info.ModelVersion)
	if info.RunID != "" {
		fmt.Fprintf(&b, "Run ID:        %s\n", info.RunID)
	}
	if info.LastUpdated != "" {
		fmt.Fprintf(&b, "Last Updated:  %s\n", info.LastUpdated)
	}
	fmt.Fprintf(&b, "R² Score:      %.3f\n", info.Metrics.R2Score)
	fmt.Fprintf(&b, "MAE:           %.0f€\n", info.Metrics.MAE)

	if len(info.TopFeatures) > 0 {
		b.WriteString("\nTop Features:\n")
		for _, feat := range info.TopFeatures {
			fmt.Fprintf(&b, "  %-20s %.4f\n", tui.CleanFeatureName(feat.Feature), feat.Importance)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// requestCityCmd submits a city for ingestion
var requestCityCmd = &cobra.Command{
	Use:   "request-city <plz> <name>",
	Short: "Request ingestion of a city without coverage",
	Long: `Submit a postal code and city name to the ingestion hook. The hook
looks the city up and schedules its listings for ingestion; new data
usually becomes available within a few minutes.`,
	Example: `  # Request a city
  mietradar request-city 04103 Leipzig`,
	Args: cobra.ExactArgs(2),
	RunE: runRequestCity,
}

func runRequestCity(cmd *cobra.Command, args []string) error {
	settings, _, err := loadEnvironment()
	if err != nil {
		return err
	}

	data := form.CityRequestData{
		ZipCode:  form.SanitizeNumeric(form.ZipCodeRule, "", args[0]),
		CityName: form.SanitizeCityName(args[1]),
	}

	if errs := form.ValidateCityRequest(data); len(errs) > 0 {
		for field, msg := range errs {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		return fmt.Errorf("invalid input")
	}

	client := cityrequest.NewClient(settings.WebhookURL(), settings.WebhookAPIKey())
	client.SetTimeout(settings.RequestTimeout())

	resp, err := client.Submit(cityrequest.Request{PLZ: data.ZipCode, CityName: data.CityName})
	if err != nil {
		return fmt.Errorf("city request failed: %w", err)
	}

	fmt.Printf("%s aus %s wurde gefunden und wird aktuell hinzugefügt. (ca. 5-10 Minuten)\n",
		resp.Data.Name, resp.Data.FederalState)
	return nil
}
