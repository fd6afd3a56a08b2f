package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/worldtax/internal/database"
	dec "github.com/rezonia/worldtax/internal/decimal"
	"github.com/rezonia/worldtax/internal/engine"
	"github.com/rezonia/worldtax/internal/model"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config     *Config
	router     *gin.Engine
	calculator *engine.Calculator
}

// NewServer creates a new API server evaluating against db
func NewServer(config *Config, db *database.TaxDatabase) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:     config,
		router:     router,
		calculator: engine.NewCalculator(db),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/calculate", s.handleCalculate)
		v1.POST("/rates", s.handleRates)

		v1.GET("/agreements", s.handleAgreements)
		v1.GET("/agreements/:name", s.handleAgreement)

		v1.GET("/catalog/:code", s.handleCatalog)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCalculate(c *gin.Context) {
	scenario, amount, ok := s.bindScenario(c)
	if !ok {
		return
	}

	result, err := s.calculator.Evaluate(scenario, dec.FromFloat(amount))
	if err != nil {
		writeEvaluationError(c, err)
		return
	}

	tax := dec.RoundCurrency(result.Tax).InexactFloat64()
	response := CalculateResponse{
		TaxAmount:      tax,
		Total:          dec.RoundCurrency(dec.FromFloat(amount).Add(result.Tax)).InexactFloat64(),
		Policy:         result.Policy.String(),
		Classification: result.Classification.Kind.String(),
		Rates:          toRateOutputs(result.Applied),
	}
	if result.Classification.Agreement != nil {
		response.Agreement = result.Classification.Agreement.Name
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) handleRates(c *gin.Context) {
	scenario, amount, ok := s.bindScenario(c)
	if !ok {
		return
	}

	result, err := s.calculator.Evaluate(scenario, dec.FromFloat(amount))
	if err != nil {
		writeEvaluationError(c, err)
		return
	}

	c.JSON(http.StatusOK, RatesResponse{
		Policy: result.Policy.String(),
		Rates:  toRateOutputs(result.Applied),
	})
}

func (s *Server) handleAgreements(c *gin.Context) {
	db := s.calculator.Database()
	names := db.AgreementNames()

	summaries := make([]AgreementSummary, 0, len(names))
	for _, name := range names {
		agreement, err := db.Agreement(name)
		if err != nil {
			continue
		}
		summaries = append(summaries, AgreementSummary{
			ID:      name,
			Name:    agreement.Name,
			Type:    string(agreement.Kind),
			Members: len(agreement.Members),
		})
	}

	c.JSON(http.StatusOK, gin.H{"agreements": summaries})
}

func (s *Server) handleAgreement(c *gin.Context) {
	agreement, err := s.calculator.Database().Agreement(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, agreement)
}

func (s *Server) handleCatalog(c *gin.Context) {
	code := c.Param("code")
	entries, ok := s.calculator.Database().Rates(code)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: (&model.RegionNotFoundError{Region: code}).Error(),
		})
		return
	}

	outputs := make([]RateOutput, 0, len(entries))
	for _, entry := range entries {
		outputs = append(outputs, RateOutput{
			TaxKind:  string(entry.TaxKind),
			Rate:     entry.Rate,
			Compound: entry.Compound,
		})
	}

	c.JSON(http.StatusOK, CatalogResponse{Region: code, Entries: outputs})
}

// bindScenario parses and validates a CalculateRequest into a scenario.
// On failure it writes the error response and returns ok=false.
func (s *Server) bindScenario(c *gin.Context) (*model.TaxScenario, float64, bool) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return nil, 0, false
	}

	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must not be negative"})
		return nil, 0, false
	}

	transactionType := model.TransactionType(req.TransactionType)
	if !transactionType.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "transaction_type must be b2b or b2c"})
		return nil, 0, false
	}

	if req.TradeAgreement != "" && req.NoAgreement {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "trade_agreement and no_agreement are mutually exclusive"})
		return nil, 0, false
	}

	source, err := model.NewRegion(req.Source.Country, req.Source.Subdivision)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid source region", Details: err.Error()})
		return nil, 0, false
	}
	destination, err := model.NewRegion(req.Destination.Country, req.Destination.Subdivision)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid destination region", Details: err.Error()})
		return nil, 0, false
	}

	scenario := model.NewScenario(source, destination, transactionType)
	scenario.IsDigitalProductOrService = req.DigitalProductOrService
	scenario.HasResaleCertificate = req.ResaleCertificate
	scenario.IgnoreThreshold = req.IgnoreThreshold
	scenario.RateOverride = model.TaxKind(req.RateOverride)
	if req.NoAgreement {
		scenario.TradeAgreementOverride = model.NoAgreement()
	} else if req.TradeAgreement != "" {
		scenario.TradeAgreementOverride = model.UseAgreement(req.TradeAgreement)
	}

	return scenario, req.Amount, true
}

// writeEvaluationError maps evaluation failures to HTTP statuses. Missing
// configuration entries are unprocessable, never a silent zero.
func writeEvaluationError(c *gin.Context, err error) {
	var regionErr *model.RegionNotFoundError
	var rateErr *model.RateNotFoundError
	var agreementErr *model.AgreementNotFoundError

	switch {
	case errors.As(err, &regionErr), errors.As(err, &rateErr), errors.As(err, &agreementErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "evaluation failed", Details: err.Error()})
	}
}

func toRateOutputs(applied []model.AppliedRate) []RateOutput {
	outputs := make([]RateOutput, 0, len(applied))
	for _, rate := range applied {
		outputs = append(outputs, RateOutput{
			TaxKind:  string(rate.TaxKind),
			Rate:     rate.Rate,
			Compound: rate.Compound,
			Amount:   dec.RoundCurrency(rate.Amount).InexactFloat64(),
		})
	}
	return outputs
}
