// internal/handler/savings.go
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"savings-tracker/internal/badge"
	"savings-tracker/internal/domain"
	"savings-tracker/internal/logger"
	"savings-tracker/internal/middleware"
	"savings-tracker/internal/savings"
	val "savings-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type SavingsService interface {
	Append(ctx context.Context, in savings.AppendInput) (savings.AppendResult, error)
	ListEntries(ctx context.Context, userID int64) ([]domain.SavingEntry, error)
	ListBadges(ctx context.Context, userID int64) ([]domain.Badge, error)
	Summary(ctx context.Context, userID int64) (badge.Summary, error)
}

// SessionServer upgrades a request into a live push session for userID.
type SessionServer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID int64) error
}

type SavingsHandler struct {
	svc SavingsService
	hub SessionServer
	log *zap.Logger
}

func NewSavingsHandler(svc SavingsService, hub SessionServer, log *zap.Logger) *SavingsHandler {
	return &SavingsHandler{svc: svc, hub: hub, log: log}
}

// AddSaving godoc
// @Summary Add a saving entry
// @Description Appends to the caller's ledger and returns any badges earned by it
// @Tags savings
// @Accept json
// @Produce json
// @Param request body AddSavingRequest true "Saving"
// @Success 201 {object} AddSavingResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/savings [post]
func (h *SavingsHandler) AddSaving(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "user_id missing"})
		return
	}

	var req AddSavingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON"})
		return
	}
	in := addSavingInput{Amount: rawAmount(req.Amount), Category: req.Category}
	if err := validateStruct(in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	res, err := h.svc.Append(c.Request.Context(), savings.AppendInput{
		UserID:   userID,
		Amount:   in.Amount,
		Category: in.Category,
		Date:     req.Date,
	})
	if err != nil {
		h.fail(c, err, "Error adding saving")
		return
	}

	c.JSON(http.StatusCreated, AddSavingResponse{
		Saving:    res.Saving,
		NewBadges: res.NewBadges,
		Message:   "Saving added successfully",
	})
}

// GetSavings godoc
// @Summary List the caller's savings, newest first
// @Success 200 {array} domain.SavingEntry
// @Router /api/savings [get]
func (h *SavingsHandler) GetSavings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "user_id missing"})
		return
	}
	entries, err := h.svc.ListEntries(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Server Error")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetBadges godoc
// @Summary List the caller's badges, most recent first
// @Success 200 {array} domain.Badge
// @Router /api/savings/badges [get]
func (h *SavingsHandler) GetBadges(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "user_id missing"})
		return
	}
	badges, err := h.svc.ListBadges(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Server Error")
		return
	}
	c.JSON(http.StatusOK, badges)
}

// GetSummary godoc
// @Summary Totals, streak and progress towards each badge
// @Success 200 {object} badge.Summary
// @Router /api/savings/summary [get]
func (h *SavingsHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "user_id missing"})
		return
	}
	sum, err := h.svc.Summary(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Server Error")
		return
	}
	c.JSON(http.StatusOK, sum)
}

// Stream upgrades to a WebSocket that receives newBadges events.
func (h *SavingsHandler) Stream(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "user_id missing"})
		return
	}
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "live updates disabled"})
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		logger.FromGin(c, h.log).Warn("websocket session failed", zap.Error(err))
	}
}

func (h *SavingsHandler) fail(c *gin.Context, err error, msg string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
		return
	}
	logger.FromGin(c, h.log).Error(msg, zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msg})
}

// === DTO ===

type AddSavingRequest struct {
	// number or numeric string
	Amount   json.RawMessage `json:"amount" swaggertype:"number"`
	Category string          `json:"category"`
	Date     *time.Time      `json:"date,omitempty"`
}

type AddSavingResponse struct {
	Saving    domain.SavingEntry `json:"saving"`
	NewBadges []domain.Badge     `json:"newBadges"`
	Message   string             `json:"message"`
}

type addSavingInput struct {
	Amount   string `validate:"required,amount"`
	Category string
}

func rawAmount(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		var msgs []string
		for _, e := range verrs {
			msgs = append(msgs, fieldErrorToString(e))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Field() {
	case "Amount":
		if raw, ok := e.Value().(string); ok {
			var ve *domain.ValidationError
			if _, err := domain.ParseAmount(raw); errors.As(err, &ve) {
				return ve.Message
			}
		}
		return "Please enter a valid amount"
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
