package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"sync"

	"github.com/kweiss/dealcast/internal/charts"
	"github.com/kweiss/dealcast/internal/config"
	"github.com/kweiss/dealcast/internal/engine"
	"github.com/kweiss/dealcast/internal/logger"
	"github.com/kweiss/dealcast/internal/models"
	"github.com/kweiss/dealcast/internal/report"
	"github.com/kweiss/dealcast/internal/scenario"
)

// SimulationHandler is the web surface over the remote engine - a DUMB HTTP
// layer that coerces input, forwards it, and renders what comes back.
//
// Submissions are numbered. The trigger is not disabled client-side, so two
// runs can be in flight at once; only the newest submission is allowed to
// replace the result the chart endpoints serve, so a slow stale run can never
// overwrite a fresher display.
type SimulationHandler struct {
	engine engine.Runner
	config *config.Config

	mu        sync.Mutex
	seq       uint64 // last issued submission id
	displayed uint64 // submission id currently backing the chart endpoints
	last      *models.SimulationResult
}

// NewSimulationHandler creates the handler around an engine runner.
func NewSimulationHandler(runner engine.Runner, cfg *config.Config) *SimulationHandler {
	return &SimulationHandler{engine: runner, config: cfg}
}

// FormField is one input control on the scenario form.
type FormField struct {
	Key   string
	Label string
	Value string
}

// FormGroup is a titled block of scenario inputs.
type FormGroup struct {
	Title  string
	Fields []FormField
}

func formGroups(def models.ScenarioRequest) []FormGroup {
	f := func(key, label string, v models.Scalar) FormField {
		return FormField{Key: key, Label: label, Value: fmt.Sprintf("%g", float64(v))}
	}
	i := func(key, label string, v int) FormField {
		return FormField{Key: key, Label: label, Value: fmt.Sprintf("%d", v)}
	}

	return []FormGroup{
		{Title: "🎲 Trimodal Risk", Fields: []FormField{
			f("failure_rate_pct", "Failure Rate (%)", def.FailureRatePct),
			f("zombie_rate_pct", "Zombie Rate (%)", def.ZombieRatePct),
			f("rec_min", "Recovery Min (x)", def.RecMin),
			f("rec_mode", "Recovery Mode (x)", def.RecMode),
			f("rec_max", "Recovery Max (x)", def.RecMax),
		}},
		{Title: "🚀 Success Path", Fields: []FormField{
			f("initial_investment", "Initial Investment ($)", def.InitialInvestment),
			f("val_min", "Post-Money Val Min ($)", def.ValMin),
			f("val_mode", "Post-Money Val Mode ($)", def.ValMode),
			f("val_max", "Post-Money Val Max ($)", def.ValMax),
			f("tam_min_p10", "TAM P10 ($)", def.TAMMinP10),
			f("tam_max_p90", "TAM P90 ($)", def.TAMMaxP90),
			f("ms_min_p10_pct", "Market Share P10 (%)", def.MSMinP10Pct),
			f("ms_max_p90_pct", "Market Share P90 (%)", def.MSMaxP90Pct),
			f("q1_mult", "Exit Multiple Q1 (x)", def.Q1Mult),
			f("median_mult", "Exit Multiple Median (x)", def.MedianMult),
			f("q3_mult", "Exit Multiple Q3 (x)", def.Q3Mult),
		}},
		{Title: "⏳ Timing & Dilution", Fields: []FormField{
			f("time_min", "Time to Exit Min (yrs)", def.TimeMin),
			f("time_mode", "Time to Exit Mode (yrs)", def.TimeMode),
			f("time_max", "Time to Exit Max (yrs)", def.TimeMax),
			i("rounds_min", "Future Rounds Min", def.RoundsMin),
			i("rounds_max", "Future Rounds Max", def.RoundsMax),
			f("dil_min", "Dilution/Round Min (%)", def.DilMin),
			f("dil_mode", "Dilution/Round Mode (%)", def.DilMode),
			f("dil_max", "Dilution/Round Max (%)", def.DilMax),
		}},
		{Title: "🖥️ Simulation", Fields: []FormField{
			i("num_simulations", "Number of Simulations", def.NumSimulations),
		}},
	}
}

// HomeHandler serves the scenario form, pre-filled with the default scenario.
func (h *SimulationHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	def := scenario.Default()
	if req, err := scenario.Load(h.config.DefaultScenario); err == nil {
		def = req
	}

	funcMap := template.FuncMap{
		"appTitle": func() string {
			return "🎯 Dealcast - VC Deal Monte Carlo"
		},
		"appDescription": func() string {
			return "Trimodal venture outcome simulation"
		},
		"formGroups": func() []FormGroup {
			return formGroups(def)
		},
		"runButtonText": func() string {
			return "🎲 Run Simulation"
		},
		"engineEndpoint": func() string {
			return h.config.Engine.Endpoint
		},
	}

	tmpl, err := template.New("home.html").Funcs(funcMap).ParseFiles("web/templates/home.html")
	if err != nil {
		logger.Error.Printf("❌ Failed to parse home template: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, nil); err != nil {
		logger.Error.Printf("❌ Failed to render home template: %v", err)
	}
}

// resultsView is the data handed to the results template. ErrorText and the
// report are mutually exclusive.
type resultsView struct {
	ErrorText string
	Report    string
	RunID     uint64
}

// SimulateHandler runs one form submission against the engine and renders the
// results page. Each submission is its own full HTTP exchange, so there is no
// shared display for racing responses to clobber; the chart endpoints are
// guarded by the submission counter instead.
func (h *SimulationHandler) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.seq++
	id := h.seq
	h.mu.Unlock()

	req := scenario.FromForm(r.FormValue)
	logger.Info.Printf("🎲 Submission #%d: %d simulations requested", id, req.NumSimulations)

	view := resultsView{RunID: id}
	result, err := h.engine.Run(r.Context(), req)
	if err != nil {
		view.ErrorText = "Error: " + err.Error()
		logger.Warn.Printf("⚠️ Submission #%d failed: %v", id, err)
	} else {
		view.Report = report.Format(result.Metrics)
		h.publish(id, result)
	}

	tmpl, err := template.ParseFiles("web/templates/results.html")
	if err != nil {
		logger.Error.Printf("❌ Failed to parse results template: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, view); err != nil {
		logger.Error.Printf("❌ Failed to render results template: %v", err)
	}
}

// publish installs a finished run as the one the chart endpoints serve,
// unless a newer submission already got there first.
func (h *SimulationHandler) publish(id uint64, result *models.SimulationResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id < h.displayed {
		logger.Warn.Printf("⚠️ Submission #%d finished after #%d; keeping the newer result", id, h.displayed)
		return
	}
	h.displayed = id
	h.last = result
}

// latest returns the result currently on display, or nil.
func (h *SimulationHandler) latest() *models.SimulationResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// IRRChartHandler renders the IRR histogram for the latest displayed run.
func (h *SimulationHandler) IRRChartHandler(w http.ResponseWriter, r *http.Request) {
	result := h.latest()
	if result == nil {
		writeJSONError(w, http.StatusNotFound, "no simulation has completed yet")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.IRRHistogram(result.IRRSamples).Render(w); err != nil {
		logger.Error.Printf("❌ Failed to render IRR chart: %v", err)
	}
}

// MOICChartHandler renders the MOIC histogram for the latest displayed run.
func (h *SimulationHandler) MOICChartHandler(w http.ResponseWriter, r *http.Request) {
	result := h.latest()
	if result == nil {
		writeJSONError(w, http.StatusNotFound, "no simulation has completed yet")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.MOICHistogram(result.MOICSamples).Render(w); err != nil {
		logger.Error.Printf("❌ Failed to render MOIC chart: %v", err)
	}
}

// apiMetric is the typed metric shape on the JSON API. Value is a pointer so
// a metric the engine nulled out serializes as null rather than breaking the
// encoder with NaN.
type apiMetric struct {
	Label     string   `json:"label"`
	Kind      string   `json:"kind"`
	Value     *float64 `json:"value,omitempty"`
	Text      string   `json:"text,omitempty"`
	Formatted string   `json:"formatted"`
}

// APISimulateHandler is the JSON mirror of SimulateHandler for programmatic
// callers: scenario JSON in, typed metrics, rendered report and raw samples
// out.
func (h *SimulationHandler) APISimulateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	h.seq++
	id := h.seq
	h.mu.Unlock()

	result, err := h.engine.Run(r.Context(), req)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.publish(id, result)

	metrics := make([]apiMetric, len(result.Metrics))
	for i, m := range result.Metrics {
		am := apiMetric{
			Label:     m.Label,
			Kind:      m.Kind.String(),
			Text:      m.Text,
			Formatted: report.FormatValue(m),
		}
		if m.Kind != models.KindSectionHeader && m.Kind != models.KindText && !math.IsNaN(m.Value) {
			v := m.Value
			am.Value = &v
		}
		metrics[i] = am
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":         id,
		"metrics":        metrics,
		"report":         report.Format(result.Metrics),
		"plot_data_irr":  result.IRRSamples,
		"plot_data_moic": charts.FilterMOIC(result.MOICSamples),
	})
}

// HealthHandler reports liveness plus the configured engine endpoint.
func (h *SimulationHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"endpoint": h.config.Engine.Endpoint,
	})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
