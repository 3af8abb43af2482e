// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	httpin "github.com/palukuba/proofchain-schools/internal/adapters/in/http"
	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/handlers"
	"github.com/palukuba/proofchain-schools/internal/adapters/in/http/middleware"
	pgadapter "github.com/palukuba/proofchain-schools/internal/adapters/out/db"
	fsadapter "github.com/palukuba/proofchain-schools/internal/adapters/out/firestore"
	"github.com/palukuba/proofchain-schools/internal/adapters/out/gcs"
	"github.com/palukuba/proofchain-schools/internal/adapters/out/mail"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
	authuc "github.com/palukuba/proofchain-schools/internal/application/usecase/auth"
	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"
	"github.com/palukuba/proofchain-schools/internal/infra/config"
	"github.com/palukuba/proofchain-schools/internal/infra/database"
	firestoreinfra "github.com/palukuba/proofchain-schools/internal/infra/firestore"
	"github.com/palukuba/proofchain-schools/internal/infra/ipfs"
	solanainfra "github.com/palukuba/proofchain-schools/internal/infra/solana"
)

// Container bundles everything main.go needs. The goal is to keep main
// as thin as possible: boot, wire, serve.
type Container struct {
	Config *config.Config

	routerDeps httpin.RouterDeps

	fs      *firestoreinfra.ClientWrapper
	db      *database.DB
	gcsCli  *storage.Client
	cleanup []func()
}

// RouterDeps returns the wired handler set for httpin.NewRouter.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return c.routerDeps
}

// Close releases the underlying clients.
func (c *Container) Close() {
	if c.fs != nil {
		_ = c.fs.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.gcsCli != nil {
		_ = c.gcsCli.Close()
	}
	for _, fn := range c.cleanup {
		fn()
	}
}

// NewContainer initializes external clients, repositories, usecases and
// handlers, and wires them together.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()
	c := &Container{Config: cfg}

	// ------------------------------------------------------------
	// 1. External resources
	// ------------------------------------------------------------

	fsWrap, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}
	c.fs = fsWrap

	var fbOpts []option.ClientOption
	if cfg.FirestoreCredentialsFile != "" {
		fbOpts = append(fbOpts, option.WithCredentialsFile(cfg.FirestoreCredentialsFile))
	}
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, fbOpts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	gcsCli, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("init gcs: %w", err)
	}
	c.gcsCli = gcsCli

	authority, err := solanainfra.LoadMintAuthority(ctx, cfg.FirestoreProjectID, cfg.MintAuthoritySecretID)
	if err != nil {
		return nil, fmt.Errorf("load mint authority: %w", err)
	}
	minter := solanainfra.NewMinter(cfg.SolanaRPCEndpoint, authority)

	pinner := ipfs.NewHTTPPinner(cfg.IPFSBaseURL, cfg.IPFSAPIKey)

	mailClient := mail.NewSendGridClient(cfg.SendGridAPIKey)
	receiptMailer := mail.NewReceiptMailer(mailClient, cfg.MailFrom)
	resetMailer := mail.NewResetMailer(mailClient, cfg.MailFrom)

	// ------------------------------------------------------------
	// 2. Repositories
	// ------------------------------------------------------------

	schoolRepo := fsadapter.NewSchoolRepositoryFS(fsWrap.Client)
	studentRepo := fsadapter.NewStudentRepositoryFS(fsWrap.Client)
	diplomaRepo := fsadapter.NewDiplomaRepositoryFS(fsWrap.Client)
	policyRepo := fsadapter.NewPolicyRepositoryFS(fsWrap.Client)
	priceRepo := fsadapter.NewPriceConfigRepositoryFS(fsWrap.Client)
	kycRepo := fsadapter.NewKYCRepositoryFS(fsWrap.Client)

	// The billing ledger can live in Cloud SQL when DATABASE_URL is set.
	var txRepo txdom.Repository = fsadapter.NewTransactionRepositoryFS(fsWrap.Client)
	if cfg.DatabaseURL != "" {
		dbConn, err := database.NewConnection(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[di] WARN: postgres unavailable, using firestore ledger: %v", err)
		} else {
			c.db = dbConn
			txRepo = pgadapter.NewTransactionRepositoryPG(dbConn.Client)
		}
	}

	assetStore := gcs.NewAssetStoreGCS(gcsCli, cfg.AssetBucket)

	// ------------------------------------------------------------
	// 3. Usecases
	// ------------------------------------------------------------

	sessions := &authuc.SessionService{Schools: schoolRepo}
	bootstrap := &authuc.BootstrapService{Schools: schoolRepo}
	passwordReset := &authuc.PasswordResetService{Links: fbAuth, Mailer: resetMailer}

	billingUC := usecase.NewBillingUsecase(schoolRepo, txRepo, diplomaRepo, priceRepo)
	studentUC := usecase.NewStudentUsecase(studentRepo)
	diplomaUC := usecase.NewDiplomaUsecase(diplomaRepo)
	policyUC := usecase.NewPolicyUsecase(policyRepo, minter)
	kycUC := usecase.NewKYCUsecase(kycRepo)
	pricingUC := usecase.NewPricingUsecase(priceRepo)

	batchStore := usecase.NewBatchStore()
	issuanceUC := usecase.NewIssuanceUsecase(
		batchStore,
		pinner,
		minterPort{minter},
		assetStore,
		studentRepo,
		diplomaRepo,
		schoolRepo,
		txRepo,
		priceRepo,
		receiptPort{receiptMailer},
	)
	issuanceUC.MinAuthorityLamports = cfg.MinMintBalanceLamports

	// ------------------------------------------------------------
	// 4. Middleware and handlers
	// ------------------------------------------------------------

	authMW := &middleware.AuthMiddleware{FirebaseAuth: fbAuth, Sessions: sessions, RequireProfile: true}
	tokenMW := &middleware.AuthMiddleware{FirebaseAuth: fbAuth, Sessions: sessions}

	c.routerDeps = httpin.RouterDeps{
		Auth:      authMW,
		TokenOnly: tokenMW,

		Session:       handlers.NewSessionHandler(),
		AuthBootstrap: handlers.NewAuthBootstrapHandler(bootstrap),
		PasswordReset: handlers.NewPasswordResetHandler(passwordReset),
		Student:       handlers.NewStudentHandler(studentUC),
		Diploma:       handlers.NewDiplomaHandler(diplomaUC),
		Billing:       handlers.NewBillingHandler(billingUC),
		Pricing:       handlers.NewPricingHandler(pricingUC),
		Policy:        handlers.NewPolicyHandler(policyUC),
		KYC:           handlers.NewKYCHandler(kycUC),
		Issuance:      handlers.NewIssuanceHandler(issuanceUC, assetStore),
	}

	return c, nil
}
