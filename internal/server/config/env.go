package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from the environment. A local .env
// file, if present, is loaded into the environment first; a missing file is
// not an error.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	overlay := map[string]*string{
		"ADDRESS":            &config.EndpointAddr,
		"DATABASE_DSN":       &config.DatabaseDSN,
		"JWT_SECRET":         &config.SecretKey,
		"S3_ROOT_USER":       &config.S3RootUser,
		"S3_ROOT_PASSWORD":   &config.S3RootPassword,
		"S3_BUCKET":          &config.S3Bucket,
		"S3_REGION":          &config.S3Region,
		"S3_BASE_ENDPOINT":   &config.S3BaseEndpoint,
		"FAST2SMS_API_KEY":   &config.SMSAPIKey,
		"SMS_ENDPOINT":       &config.SMSEndpoint,
		"SMS_COUNTRY_PREFIX": &config.SMSCountryPrefix,
	}

	for name, target := range overlay {
		if v := os.Getenv(name); v != "" {
			*target = v
		}
	}
}
