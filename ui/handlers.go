package ui

import (
	"fmt"
	"io"
	"net/http"

	"autostat/adapters/tabular"
	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/internal/errors"
	"autostat/models"
	"autostat/ports"

	"github.com/gin-gonic/gin"
)

const (
	successPath = "/sukces?session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/anulowano"
)

// readUpload returns the name and bytes of the multipart "file" field
func readUpload(c *gin.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.ValidationError("missing file upload", err)
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, errors.ValidationError("cannot open uploaded file", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return "", nil, errors.ValidationError("cannot read uploaded file", err)
	}
	return fh.Filename, content, nil
}

// handleParsePreview returns columns, leading rows and a missing-data summary
func (s *Server) handleParsePreview(c *gin.Context) {
	name, content, err := readUpload(c)
	if err == nil {
		var ds *dataset.Dataset
		if ds, err = s.decoder.Decode(name, content); err == nil {
			c.JSON(http.StatusOK, tabular.BuildPreview(ds, s.cfg.Upload.PreviewRows))
			return
		}
	}
	s.logger.Warn("preview of %q failed: %v", name, err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Error processing file: %v", err)})
}

// handleCreatePaymentSession opens a checkout and parks the upload under its ID
func (s *Server) handleCreatePaymentSession(c *gin.Context) {
	if s.payments == nil {
		respondDetail(c, http.StatusInternalServerError, "Payment provider is not configured.")
		return
	}

	name, content, err := readUpload(c)
	if err != nil {
		respondDetail(c, statusFor(err), err.Error())
		return
	}
	rawTypes, ok := c.GetPostForm("variable_types_json")
	if !ok {
		respondDetail(c, http.StatusBadRequest, "Missing form field variable_types_json.")
		return
	}
	strategy, ok := c.GetPostForm("missing_data_strategy")
	if !ok {
		respondDetail(c, http.StatusBadRequest, "Missing form field missing_data_strategy.")
		return
	}
	annotations, err := tabular.ParseVariableTypes(rawTypes)
	if err != nil {
		respondDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	origin := s.frontendOrigin(c)
	pay := s.cfg.Payment
	checkout, err := s.payments.CreateCheckout(c.Request.Context(), ports.CheckoutRequest{
		ProductName:        pay.ProductName,
		Currency:           pay.Currency,
		UnitAmount:         pay.UnitAmount,
		PaymentMethodTypes: pay.PaymentMethodTypes,
		SuccessURL:         origin + successPath,
		CancelURL:          origin + cancelPath,
	})
	if err != nil {
		s.logger.Error("checkout creation failed: %v", err)
		respondDetail(c, statusFor(err), fmt.Sprintf("Payment provider or data processing error: %v", err))
		return
	}

	sub := models.NewSubmission(checkout.ID, name, content, annotations, strategy, s.clock.Now(), s.cfg.Session.TTL)
	if err := s.submissions.Save(c.Request.Context(), sub); err != nil {
		s.logger.Error("saving submission %s failed: %v", checkout.ID, err)
		respondDetail(c, statusFor(err), "Could not store the uploaded data.")
		return
	}

	s.logger.Info("checkout %s created for %q (%d bytes)", checkout.ID, name, len(content))
	c.JSON(http.StatusOK, checkout)
}

type generateReportRequest struct {
	SessionID string `json:"session_id"`
}

// handleGenerateReport releases the full report for a paid checkout. A paid
// request consumes the stored submission whatever the outcome.
func (s *Server) handleGenerateReport(c *gin.Context) {
	var req generateReportRequest
	_ = c.ShouldBindJSON(&req)
	id, err := core.ParseSessionID(req.SessionID)
	if err != nil {
		respondDetail(c, http.StatusBadRequest, "Missing session ID.")
		return
	}
	if s.payments == nil {
		respondDetail(c, http.StatusInternalServerError, "Payment provider is not configured.")
		return
	}

	ctx := c.Request.Context()
	paid, err := s.payments.IsPaid(ctx, id)
	if err != nil {
		respondDetail(c, http.StatusPaymentRequired, fmt.Sprintf("Invalid payment session: %v", err))
		return
	}
	if !paid {
		respondDetail(c, http.StatusPaymentRequired, "Payment has not been completed.")
		return
	}

	sub, err := s.submissions.Take(ctx, id)
	if err != nil {
		if core.IsNotFoundError(err) {
			respondDetail(c, http.StatusNotFound, "Session data not found. The session may have expired. Please try again.")
			return
		}
		respondDetail(c, statusFor(err), err.Error())
		return
	}

	ds, err := s.decoder.Decode(sub.FileName, sub.Content)
	if err != nil {
		respondHTMLError(c, http.StatusBadRequest, "Error", fmt.Sprintf("The file is corrupted or invalid. Error: %v", err))
		return
	}
	strategy, err := dataset.ParseMissingStrategy(sub.Strategy)
	if err != nil {
		respondHTMLError(c, http.StatusBadRequest, "Data Validation Error", err.Error())
		return
	}

	page, err := s.reports.GenerateFullReport(ctx, ds, sub.VariableTypes(), strategy)
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			respondHTMLError(c, http.StatusBadRequest, "Data Validation Error", err.Error())
			return
		}
		s.logger.Error("report for %s failed: %v", id, err)
		respondDetail(c, statusFor(err), "Report generation failed.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) handleSmokeTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Backend is running!"})
}
