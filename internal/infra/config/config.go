// internal/infra/config/config.go
package config

import "os"

// Config holds the environment configuration for the whole application.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// Postgres (optional; when set the billing transactions repository
	// runs on Postgres instead of Firestore)
	DatabaseURL string

	// GCS bucket where uploaded diploma images / template renders are
	// staged before pinning
	AssetBucket string

	// IPFS pinning service (HTTP)
	IPFSBaseURL string
	IPFSAPIKey  string

	// Solana
	SolanaRPCEndpoint     string
	MintAuthoritySecretID string

	// Minimum fee-payer balance (lamports) required before a mint may start
	MinMintBalanceLamports uint64

	// SendGrid
	SendGridAPIKey string
	MailFrom       string

	// Allowed frontend origin for CORS; empty means "*" (development)
	FrontendOrigin string
}

// Load reads the environment and returns the Config snapshot.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "proofchain-schools")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AssetBucket: getenvDefault("ASSET_BUCKET", "proofchain-schools_diploma_assets"),

		IPFSBaseURL: os.Getenv("IPFS_BASE_URL"),
		IPFSAPIKey:  os.Getenv("IPFS_API_KEY"),

		SolanaRPCEndpoint:     os.Getenv("SOLANA_RPC_ENDPOINT"),
		MintAuthoritySecretID: getenvDefault("MINT_AUTHORITY_SECRET_ID", "proofchain-mint-authority"),

		MinMintBalanceLamports: 10_000_000, // 0.01 SOL

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenvDefault("MAIL_FROM", "no-reply@proofchain.example"),

		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
