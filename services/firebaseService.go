package services

import (
	"context"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"github.com/Taraweeh/initializers"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// InitFirebase wires the token verifier and push service. FIREBASE_SERVICE_ACCOUNT
// may hold the service account JSON itself or a path to it. Without it,
// AUTH_DEV_SECRET enables development tokens instead.
func InitFirebase() {
	serviceAccount := initializers.Getenv("FIREBASE_SERVICE_ACCOUNT", "")

	if serviceAccount == "" {
		if secret := initializers.Getenv("AUTH_DEV_SECRET", ""); secret != "" {
			SetTokenVerifier(NewDevTokenVerifier(secret))
			log.Warn().Msg("FIREBASE_SERVICE_ACCOUNT not set, accepting development tokens")
			return
		}
		log.Warn().Msg("FIREBASE_SERVICE_ACCOUNT not set, authenticated routes are disabled")
		return
	}

	var opt option.ClientOption
	if strings.HasPrefix(strings.TrimSpace(serviceAccount), "{") {
		opt = option.WithCredentialsJSON([]byte(serviceAccount))
	} else if _, err := os.Stat(serviceAccount); err == nil {
		opt = option.WithCredentialsFile(serviceAccount)
	} else {
		log.Error().Err(err).Msg("FIREBASE_SERVICE_ACCOUNT is neither JSON nor a readable file")
		return
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize Firebase app")
		return
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get Firebase auth client")
		return
	}
	SetTokenVerifier(NewFirebaseVerifier(authClient))

	fcmClient, err := app.Messaging(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get Firebase messaging client")
	} else {
		SetPushNotificationService(NewPushNotificationService(fcmClient))
	}

	log.Info().Msg("Firebase initialized")
}
