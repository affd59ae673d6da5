package services

import (
	"strconv"

	"github.com/Taraweeh/models"
	"github.com/rs/zerolog/log"
)

// NotifySubmitterOfReview tells a submitter that one of their transfer or
// community requests was approved, rejected or needs more information.
// Intended to be called in its own goroutine; failures are only logged.
func NotifySubmitterOfReview(submitterID int, requestID int, kind string, status string) {
	s := GetPushNotificationService()
	if s == nil {
		return
	}

	payload := NotificationPayload{
		Title: "تحديث على طلبك",
		Body:  reviewMessage(status),
		Data: map[string]string{
			"type":       "REQUEST_REVIEWED",
			"kind":       kind,
			"request_id": strconv.Itoa(requestID),
			"status":     status,
		},
	}

	if err := s.SendNotificationToUser(submitterID, payload); err != nil {
		log.Error().Err(err).Int("user_id", submitterID).Int("request_id", requestID).Msg("failed to notify submitter")
	}
}

func reviewMessage(status string) string {
	switch status {
	case models.StatusApproved:
		return "تم قبول طلبك، شكراً لمساهمتك"
	case models.StatusRejected:
		return "تم رفض طلبك"
	case models.StatusNeedsInfo:
		return "طلبك يحتاج إلى معلومات إضافية"
	default:
		return "تم تحديث حالة طلبك"
	}
}
