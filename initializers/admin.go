package initializers

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// EnsureLegacyAdmin creates the ADMIN_USERNAME back-office account when it is missing.
func EnsureLegacyAdmin() {
	username := Getenv("ADMIN_USERNAME", "")
	password := Getenv("ADMIN_PASSWORD", "")
	if username == "" || password == "" {
		return
	}

	count, err := DB.From("admin_user").Where(goqu.C("username").Eq(username)).Count()
	if err != nil {
		log.Error().Err(err).Msg("failed to look up admin user")
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash admin password")
		return
	}

	_, err = DB.Insert("admin_user").Rows(goqu.Record{
		"username":      username,
		"password_hash": string(hash),
	}).Executor().Exec()
	if err != nil {
		log.Error().Err(err).Msg("failed to create admin user")
		return
	}
	log.Info().Str("username", username).Msg("created admin user")
}
