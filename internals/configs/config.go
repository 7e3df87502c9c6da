package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	GoogleClientID   string
	SigaAPIBaseURL   string
	SigaAuthURL      string
	SigaAPIEmail     string
	SigaAPIPassword  string
	SceAPIBaseURL    string
	SceAPIToken      string
	PortalBaseURL    string
	PaymentPortalURL string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	// External SIGA/USEBEQ API (defaults match the production portal)
	SigaAPIBaseURL = GetEnv("SIGA_API_BASE_URL", "https://sce-usebeq-api-test-v2.azurewebsites.net/api/portal-padres")
	SigaAuthURL = GetEnv("SIGA_AUTH_API_URL", "https://siga-usebeq-api.azurewebsites.net/api/authentication")
	SigaAPIEmail = GetEnv("SIGA_API_EMAIL", "portalpadres@usebeq.edu.mx")
	SigaAPIPassword = GetEnv("SIGA_API_PASSWORD")

	// SCE reporting API and the public portal that serves the generated PDFs
	SceAPIBaseURL = GetEnv("SCE_API_BASE_URL", "https://sce-usebeq-api.azurewebsites.net/api")
	SceAPIToken = GetEnv("SCE_API_TOKEN")
	PortalBaseURL = GetEnv("PORTAL_BASE_URL", "https://portal.usebeq.edu.mx")

	// REGER payment portal, used when no payment gateway key is configured
	PaymentPortalURL = GetEnv("PAYMENT_PORTAL_URL", "https://reger.usebeq.edu.mx/PortalServicios/externalGuest.jsp")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
	if SigaAPIPassword == "" {
		log.Println("⚠️ SIGA_API_PASSWORD is not set, external API calls cannot authenticate")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
