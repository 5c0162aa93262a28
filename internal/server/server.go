package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/life-planning/internal/simulation"
	"github.com/iwvelando/life-planning/pkg/constants"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

const (
	msgMalformedJSON  = "JSONフォーマットが正しくありません"
	msgInternal       = "内部サーバーエラーが発生しました"
	msgStartAfterEnd  = "開始年は終了年以下である必要があります"
	msgMaxAgeExceeded = "年齢が上限の%d歳を超えています"
	msgBodyTooLarge   = "リクエストサイズが上限の%dバイトを超えています"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	engine        *simulation.Engine
	validator     validator
}

// NewHandler constructs the HTTP handler that serves the simulation API and its
// OpenAPI document.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, limits simulation.Limits) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	engine := simulation.NewEngine(logger, limits)
	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		engine:        engine,
		validator:     validator{limits: engine.Limits()},
	}

	mux := http.NewServeMux()

	// Simulation API endpoint
	mux.HandleFunc(constants.SimulationPath, h.handleSimulation)

	// Version endpoint
	mux.HandleFunc("/api/version", h.handleVersion)

	// OpenAPI document and its viewer
	mux.HandleFunc("/doc", h.staticHandler("static/openapi.json", "application/json"))
	mux.HandleFunc("/ui", h.staticHandler("static/ui.html", "text/html; charset=UTF-8"))

	return mux
}

type simulationResponse struct {
	Years   []yearResponse   `json:"年度一覧"`
	Summary *summaryResponse `json:"集計,omitempty"`
}

type yearResponse struct {
	Year                  int   `json:"西暦年"`
	Age                   int   `json:"年齢"`
	Income                int64 `json:"収入金額"`
	Deduction             int64 `json:"給与所得控除額"`
	IncomeAfterDeduction  int64 `json:"給与所得控除後の金額"`
	HealthGrade           int   `json:"標準報酬月額等級"`
	StandardMonthlyAmount int64 `json:"標準報酬月額"`
	HealthPremium         int64 `json:"健康保険料月額"`
	CarePremium           int64 `json:"介護保険料月額"`
	PensionPremium        int64 `json:"厚生年金保険料月額"`
	TotalMonthlyPremium   int64 `json:"社会保険料月額"`
	TotalAnnualPremium    int64 `json:"社会保険料年額"`
}

type summaryResponse struct {
	Years          int         `json:"年数"`
	TotalIncome    json.Number `json:"収入金額合計"`
	TotalDeduction json.Number `json:"給与所得控除額合計"`
	TotalPremium   json.Number `json:"社会保険料合計"`
	BurdenPercent  json.Number `json:"社会保険料負担率"`
}

type errorResponse struct {
	Error string `json:"エラー"`
}

func (h *handler) handleSimulation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulation"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(msgBodyTooLarge, h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, msgMalformedJSON, op)
		return
	}

	payload, err := decodeJSON(body)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, msgMalformedJSON, op)
		return
	}

	req, iss := h.validator.request(payload)
	if iss != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, iss.message(), op)
		return
	}

	records, err := h.engine.Simulate(req)
	if err != nil {
		status, msg := simulationErrorResponse(err)
		h.respondErrorWithOp(w, status, msg, op)
		return
	}

	response := simulationResponse{Years: buildYears(records)}
	if queryBool(r.URL.Query().Get("summary")) {
		response.Summary = buildSummary(simulation.Summarize(records))
	}

	elapsed := time.Since(start)
	h.logger.Info("simulation computed",
		zap.String("op", op),
		zap.Int("startYear", req.StartYear),
		zap.Int("endYear", req.EndYear),
		zap.Int("years", len(response.Years)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) staticHandler(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		data, err := staticFiles.ReadFile(name)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, msgInternal, "server.staticHandler")
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write(data); err != nil {
			h.logger.Error("failed to write static response",
				zap.String("op", "server.staticHandler"),
				zap.String("file", name),
				zap.Error(err),
			)
		}
	}
}

// simulationErrorResponse maps engine errors onto the API's status codes and
// messages. Anything unrecognised is an internal error.
func simulationErrorResponse(err error) (int, string) {
	var verr *simulation.ValidationError
	switch {
	case errors.Is(err, simulation.ErrStartAfterEnd):
		return http.StatusBadRequest, msgStartAfterEnd
	case errors.As(err, &verr) && errors.Is(err, simulation.ErrMaxAgeExceeded):
		return http.StatusBadRequest, fmt.Sprintf(msgMaxAgeExceeded, verr.Limit)
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func buildYears(records []simulation.YearRecord) []yearResponse {
	years := make([]yearResponse, 0, len(records))
	for _, r := range records {
		years = append(years, yearResponse{
			Year:                  r.Year,
			Age:                   r.Age,
			Income:                r.Income,
			Deduction:             r.Deduction,
			IncomeAfterDeduction:  r.IncomeAfterDeduction,
			HealthGrade:           r.HealthGrade,
			StandardMonthlyAmount: r.StandardMonthlyAmount,
			HealthPremium:         r.HealthPremium,
			CarePremium:           r.CarePremium,
			PensionPremium:        r.PensionPremium,
			TotalMonthlyPremium:   r.TotalMonthlyPremium,
			TotalAnnualPremium:    r.TotalAnnualPremium,
		})
	}
	return years
}

func buildSummary(s simulation.Summary) *summaryResponse {
	return &summaryResponse{
		Years:          s.Years,
		TotalIncome:    json.Number(s.TotalIncome.String()),
		TotalDeduction: json.Number(s.TotalDeduction.String()),
		TotalPremium:   json.Number(s.TotalPremium.String()),
		BurdenPercent:  json.Number(s.BurdenPercent.StringFixed(2)),
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func queryBool(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	parsed, err := strconv.ParseBool(trimmed)
	return err == nil && parsed
}
