package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mietradar/mietradar/internal/cityrequest"
	"github.com/mietradar/mietradar/internal/config"
	"github.com/mietradar/mietradar/internal/logging"
	"github.com/mietradar/mietradar/internal/prediction"
	"github.com/mietradar/mietradar/internal/refdata"
)

// appMode selects which form occupies the main area
type appMode int

const (
	modePrediction appMode = iota
	modeCityRequest
)

// modelInfoMsg carries the champion model details for the info overlay
type modelInfoMsg struct {
	info *prediction.ChampionModelInfo
	err  error
}

// appKeyMap defines the global key bindings shown in the footer
type appKeyMap struct {
	SwitchForm key.Binding
	Advanced   key.Binding
	ModelInfo  key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func (k appKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchForm, k.Advanced, k.ModelInfo, k.Quit}
}

func (k appKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchForm, k.Advanced},
		{k.ModelInfo, k.Back, k.Quit},
	}
}

var appKeys = appKeyMap{
	SwitchForm: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "Formular wechseln"),
	),
	Advanced: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "erweiterter Modus"),
	),
	ModelInfo: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "Modell-Info"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "zurück"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "beenden"),
	),
}

// AppModel is the top-level coordinator. It owns the mode switch, the
// shared result and error slots, the advanced-mode flag and the model
// info overlay; the forms own their fields and in-flight state.
type AppModel struct {
	mode     appMode
	predForm PredictionFormModel
	cityForm CityRequestFormModel

	// Exactly one of result and errMsg is non-empty at a time
	result string
	errMsg string

	advanced bool

	overlayOpen    bool
	overlayLoading bool
	modelInfo      *prediction.ChampionModelInfo
	overlayErr     error

	width  int
	height int
	help   help.Model

	settings   *config.Settings
	table      *refdata.Table
	predClient *prediction.Client
	cityClient *cityrequest.Client
}

// NewAppModel wires the coordinator from settings and the optional
// reference table snapshot.
func NewAppModel(settings *config.Settings, table *refdata.Table) AppModel {
	predClient := prediction.NewClient(settings.PredictionBaseURL())
	predClient.SetTimeout(settings.RequestTimeout())

	cityClient := cityrequest.NewClient(settings.WebhookURL(), settings.WebhookAPIKey())
	cityClient.SetTimeout(settings.RequestTimeout())

	advanced := settings.Preferences.AdvancedMode

	return AppModel{
		mode:       modePrediction,
		predForm:   NewPredictionForm(predClient, table, advanced),
		cityForm:   NewCityRequestForm(cityClient),
		advanced:   advanced,
		help:       help.New(),
		settings:   settings,
		table:      table,
		predClient: predClient,
		cityClient: cityClient,
	}
}

// Init starts the cursor blink of the active form
func (m AppModel) Init() tea.Cmd {
	return m.predForm.Init()
}

// Update is the central message dispatcher
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case predictionDoneMsg:
		var cmd tea.Cmd
		m.predForm, cmd = m.predForm.Update(msg)
		if msg.err != nil {
			logging.Error("prediction request failed", zap.Error(msg.err))
			m.errMsg = genericPredictionError
			m.result = ""
		} else {
			m.result = msg.text
			m.errMsg = ""
		}
		return m, cmd

	case cityRequestDoneMsg:
		var cmd tea.Cmd
		m.cityForm, cmd = m.cityForm.Update(msg)
		if msg.err != nil {
			logging.Error("city request failed", zap.Error(msg.err))
			m.errMsg = cityRequestErrorText(msg.err)
			m.result = ""
		} else {
			m.result = msg.text
			m.errMsg = ""
		}
		return m, cmd

	case modelInfoMsg:
		m.overlayLoading = false
		if msg.err != nil {
			logging.Error("model info fetch failed", zap.Error(msg.err))
			m.overlayErr = msg.err
		} else {
			m.modelInfo = msg.info
			m.overlayErr = nil
		}
		return m, nil

	case spinner.TickMsg:
		return m.routeToActiveForm(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, appKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, appKeys.ModelInfo):
		return m.toggleOverlay()
	}

	// The overlay is modal: everything except close and quit is swallowed
	if m.overlayOpen {
		if msg.String() == "esc" {
			m.overlayOpen = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, appKeys.SwitchForm):
		return m.switchMode(), nil

	case key.Matches(msg, appKeys.Advanced):
		if m.mode == modePrediction {
			return m.toggleAdvanced(), nil
		}
		return m, nil
	}

	if msg.String() == "esc" && m.mode == modeCityRequest {
		// Back to the prediction form, dropping any stale feedback
		return m.switchMode(), nil
	}

	return m.routeToActiveForm(msg)
}

func (m AppModel) routeToActiveForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.mode == modePrediction {
		m.predForm, cmd = m.predForm.Update(msg)
	} else {
		m.cityForm, cmd = m.cityForm.Update(msg)
	}
	return m, cmd
}

// switchMode swaps between the two forms. The target form starts from a
// clean slate and the shared feedback slots are cleared.
func (m AppModel) switchMode() AppModel {
	if m.mode == modePrediction {
		m.mode = modeCityRequest
		m.cityForm = NewCityRequestForm(m.cityClient)
	} else {
		m.mode = modePrediction
		m.predForm = NewPredictionForm(m.predClient, m.table, m.advanced)
	}
	m.result = ""
	m.errMsg = ""
	return m
}

// toggleAdvanced flips advanced mode and persists the preference. A
// failed save only logs; the session keeps the toggled state.
func (m AppModel) toggleAdvanced() AppModel {
	m.advanced = !m.advanced
	m.predForm = m.predForm.SetAdvanced(m.advanced)

	m.settings.Preferences.AdvancedMode = m.advanced
	if err := m.settings.Save(); err != nil {
		logging.Warn("failed to persist advanced mode preference", zap.Error(err))
	}
	return m
}

// toggleOverlay opens or closes the model info overlay. The fetch fires
// only once: a loaded result or an in-flight request suppresses it.
func (m AppModel) toggleOverlay() (tea.Model, tea.Cmd) {
	if m.overlayOpen {
		m.overlayOpen = false
		return m, nil
	}

	m.overlayOpen = true
	if m.modelInfo != nil || m.overlayLoading {
		return m, nil
	}

	m.overlayLoading = true
	m.overlayErr = nil
	return m, fetchModelInfoCmd(m.predClient)
}

// fetchModelInfoCmd loads the champion model details off the update loop
func fetchModelInfoCmd(client *prediction.Client) tea.Cmd {
	return func() tea.Msg {
		info, err := client.ModelInfo()
		return modelInfoMsg{info: info, err: err}
	}
}

// View composes the header, the active form or overlay, the shared
// feedback area and the key help footer.
func (m AppModel) View() string {
	if m.width > 0 && m.width < MinTerminalWidth {
		return HintStyle.Render("Das Terminal ist zu schmal. Bitte Fenster vergrößern.")
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(AppName))
	b.WriteString(" ")
	b.WriteString(HintStyle.Render(AppVersion()))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(AppTagline))
	b.WriteString("\n\n")

	if m.overlayOpen {
		b.WriteString(renderOverlay(m.modelInfo, m.overlayLoading, m.overlayErr))
	} else {
		if m.mode == modePrediction {
			b.WriteString(m.predForm.View())
		} else {
			b.WriteString(m.cityForm.View())
		}

		if m.result != "" {
			b.WriteString("\n\n")
			b.WriteString(ResultBoxStyle.Render(m.result))
		} else if m.errMsg != "" {
			b.WriteString("\n\n")
			b.WriteString(ErrorBoxStyle.Render(m.errMsg))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(appKeys))

	content := b.String()
	if m.width > MaxContentWidth {
		return lipgloss.NewStyle().Width(MaxContentWidth).Render(content)
	}
	return content
}
