package controllers

import (
	"net/http"
	"time"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// ReportError - Log a report about wrong information on a mosque and email it
// to the site inbox when mail is configured
func ReportError(c *gin.Context) {
	var report models.ErrorReport
	if err := c.ShouldBind(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report"})
		return
	}

	var mosqueName string
	found, err := initializers.DB.From("mosque").
		Select("name").
		Where(goqu.C("mosque_id").Eq(report.Mosque_ID)).
		ScanVal(&mosqueName)
	if err != nil {
		serverError(c, err, "Failed to send report")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mosque not found"})
		return
	}

	entry := services.ErrorReport{
		MosqueID:      report.Mosque_ID,
		MosqueName:    mosqueName,
		ErrorTypes:    report.Error_Types,
		Details:       services.SanitizeText(report.Error_Details),
		ReporterEmail: report.Reporter_Email,
		ReportedAt:    time.Now(),
	}
	logger := requestLogger(c)
	logger.Info().
		Int("mosque_id", entry.MosqueID).
		Str("mosque", entry.MosqueName).
		Strs("error_types", entry.ErrorTypes).
		Str("details", entry.Details).
		Msg("error report received")

	// the report is already logged, mail delivery is best effort
	if emailService := services.GetEmailService(); emailService != nil {
		if err := emailService.SendErrorReport(entry); err != nil {
			logger.Error().Err(err).Int("mosque_id", entry.MosqueID).Msg("failed to email error report")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report received successfully"})
}
