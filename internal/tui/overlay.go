package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mietradar/mietradar/internal/prediction"
)

// MaxTopFeatures is the number of feature importance bars shown
const MaxTopFeatures = 5

// featureLabels maps technical feature names from the training pipeline to
// display-friendly German labels. Matching is by substring after prefix
// stripping, so "num__size" and "size_sq" both resolve to "Wohnfläche".
var featureLabels = []struct {
	key   string
	label string
}{
	{"size", "Wohnfläche"},
	{"year_constructed", "Baujahr"},
	{"location_lat", "Geografische Lage"},
	{"rooms", "Zimmeranzahl"},
	{"zip_code", "Postleitzahl"},
	{"kitchen", "Einbauküche"},
	{"balcony", "Balkon"},
	{"elevator", "Aufzug"},
	{"condition", "Zustand"},
	{"energy", "Energieeffizienz"},
}

// CleanFeatureName maps a technical feature name to its display label.
// Pipeline prefixes (num__, cat__) are stripped first; an unmapped name
// falls back to the stripped raw name.
func CleanFeatureName(technical string) string {
	core := strings.TrimPrefix(technical, "num__")
	core = strings.TrimPrefix(core, "cat__")

	for _, entry := range featureLabels {
		if strings.Contains(core, entry.key) {
			return entry.label
		}
	}
	return core
}

// renderOverlay renders the champion model info panel. While the fetch is
// in flight it shows skeleton placeholders of the same shape so the panel
// doesn't jump when data arrives.
func renderOverlay(info *prediction.ChampionModelInfo, loading bool, fetchErr error) string {
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		LabelStyle.Render("Rent Predictor AI"),
		"  ",
		versionBadge(info, loading),
	)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Champion Model"))
	b.WriteString("  ")
	b.WriteString(lastUpdated(info, loading))
	b.WriteString("\n\n")

	if fetchErr != nil {
		b.WriteString(FieldErrorStyle.Render("Modell-Informationen konnten nicht geladen werden."))
		return OverlayStyle.Render(b.String())
	}

	// Headline metrics
	b.WriteString(OverlayHeadingStyle.Render("GENAUIGKEIT (R²)"))
	b.WriteString("   ")
	b.WriteString(OverlayHeadingStyle.Render("Ø ABWEICHUNG"))
	b.WriteString("\n")
	if loading {
		b.WriteString(SkeletonStyle.Render("99.9 %"))
		b.WriteString("            ")
		b.WriteString(SkeletonStyle.Render("±100€"))
	} else {
		r2 := info.Metrics.R2Score * 100
		if r2 < 0 {
			r2 = 0
		}
		b.WriteString(MetricValueStyle.Render(fmt.Sprintf("%.1f %%", r2)))
		b.WriteString("            ")
		b.WriteString(MetricValueStyle.Render(fmt.Sprintf("±%.0f€", info.Metrics.MAE)))
	}
	b.WriteString("\n\n")

	// Feature importance bars
	b.WriteString(OverlayHeadingStyle.Render("TOP EINFLUSSFAKTOREN"))
	b.WriteString("\n")
	if loading {
		for i := 0; i < MaxTopFeatures; i++ {
			b.WriteString(SkeletonStyle.Render("Platzhalter Text"))
			b.WriteString("\n")
			b.WriteString(SkeletonStyle.Render(strings.Repeat(" ", FeatureBarWidth*3/5)))
			b.WriteString("\n")
		}
	} else {
		features := info.TopFeatures
		if len(features) > MaxTopFeatures {
			features = features[:MaxTopFeatures]
		}
		for _, feat := range features {
			b.WriteString(fmt.Sprintf("%s %s\n",
				CleanFeatureName(feat.Feature),
				SubtitleStyle.Render(fmt.Sprintf("%.0f%%", feat.Importance*100)),
			))
			b.WriteString(renderImportanceBar(feat.Importance))
			b.WriteString("\n")
		}
	}

	return OverlayStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderImportanceBar renders a horizontal bar whose filled width is
// proportional to the feature importance (0..1).
func renderImportanceBar(importance float64) string {
	if importance < 0 {
		importance = 0
	}
	if importance > 1 {
		importance = 1
	}

	filled := int(importance * FeatureBarWidth)
	if filled > FeatureBarWidth {
		filled = FeatureBarWidth
	}

	return BarFilledStyle.Render(strings.Repeat("█", filled)) +
		BarEmptyStyle.Render(strings.Repeat("░", FeatureBarWidth-filled))
}

func versionBadge(info *prediction.ChampionModelInfo, loading bool) string {
	if loading || info == nil {
		return SkeletonStyle.Render("v23")
	}
	return MetricValueStyle.Render("v" + info.ModelVersion)
}

// lastUpdated formats the champion model's last update timestamp in German
// date notation. A missing or unparseable timestamp renders as "-".
func lastUpdated(info *prediction.ChampionModelInfo, loading bool) string {
	if loading || info == nil {
		return SkeletonStyle.Render("01.01.2025")
	}
	if info.LastUpdated == "" {
		return SubtitleStyle.Render("-")
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, info.LastUpdated); err == nil {
			return SubtitleStyle.Render(t.Format("02.01.2006"))
		}
	}
	return SubtitleStyle.Render("-")
}
