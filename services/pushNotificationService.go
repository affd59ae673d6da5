package services

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog/log"
)

// MessageSender is the subset of the FCM client used to deliver notifications.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type PushNotificationService struct {
	fcmClient MessageSender
}

type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

var pushService *PushNotificationService

func NewPushNotificationService(sender MessageSender) *PushNotificationService {
	return &PushNotificationService{fcmClient: sender}
}

func SetPushNotificationService(s *PushNotificationService) {
	pushService = s
}

func GetPushNotificationService() *PushNotificationService {
	return pushService
}

func (s *PushNotificationService) SendNotificationToUser(userID int, payload NotificationPayload) error {
	var tokens []models.UserPushToken
	query := initializers.DB.From("user_push_token").
		Where(goqu.C("public_user_id").Eq(userID))

	err := query.ScanStructs(&tokens)
	if err != nil {
		return fmt.Errorf("failed to get push tokens for user %d: %v", userID, err)
	}

	if len(tokens) == 0 {
		return nil
	}

	for _, token := range tokens {
		if err := s.sendToToken(token, payload); err != nil {
			log.Warn().Err(err).Int("user_id", userID).Str("platform", token.Platform).Msg("failed to send push notification")
		}
	}

	return nil
}

func (s *PushNotificationService) sendToToken(pushToken models.UserPushToken, payload NotificationPayload) error {
	if s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Token: pushToken.Push_Token,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	switch pushToken.Platform {
	case "ios":
		message.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: payload.Title,
						Body:  payload.Body,
					},
					Sound: "default",
				},
			},
		}
	case "android":
		message.Android = &messaging.AndroidConfig{
			Priority: "normal",
			Notification: &messaging.AndroidNotification{
				Title: payload.Title,
				Body:  payload.Body,
			},
		}
	case "web":
		message.Webpush = &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: payload.Title,
				Body:  payload.Body,
				Icon:  "/icons/icon-192.png",
			},
			FCMOptions: &messaging.WebpushFCMOptions{
				Link: initializers.Getenv("SITE_URL", "https://taraweeh.org") + "/my-requests",
			},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := s.fcmClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %v", err)
	}

	log.Debug().Str("message_id", response).Msg("sent FCM notification")
	return nil
}
