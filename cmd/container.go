package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/feiyu23/spark-resume-ai/internal/ai/embeddings"
	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/internal/keywords"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis/analysisapi"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis/analysisinfra"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis/analysissrv"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis/worker"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume/resumeapi"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume/resumeinfra"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume/resumesrv"
	"github.com/feiyu23/spark-resume-ai/pkg/auth"
	"github.com/feiyu23/spark-resume-ai/pkg/fsx"
	"github.com/feiyu23/spark-resume-ai/pkg/fsx/fsxs3"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

const analysisQueueName = "analysis:jobs"

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Auth
	TokenService auth.TokenService
	Keyring      *auth.Keyring

	// Scoring pipeline
	Embedder   *embeddings.Generator
	Engine     *ats.Engine
	Integrator *keywords.Integrator

	// Domain services
	ResumeService   *resumesrv.Service
	AnalysisService *analysissrv.Service

	// Queue + worker
	AnalysisQueue  analysis.JobQueue
	AnalysisWorker *worker.AnalysisWorker

	// API Handlers
	ResumeHandlers   *resumeapi.ResumeHandlers
	AnalysisHandlers *analysisapi.AnalysisHandlers
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPass := os.Getenv("REDIS_PASS")
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPass,
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. AWS S3 Configuration
	awsRegion := os.Getenv("AWS_REGION")
	awsBucket := os.Getenv("AWS_BUCKET")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(cfg)
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, awsBucket, "uploads")

	// 4. JWT + API keys
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		jwtSecret = "super-secret-key-please-change-me-in-production"
	}
	c.TokenService = auth.NewJWTTokenService(jwtSecret, "spark-resume-ai", 24*time.Hour)

	c.Keyring = auth.NewKeyringFromEnv(os.Getenv("API_KEYS"))
	if c.Keyring.Len() == 0 {
		logx.Warn("API_KEYS is not set, API key authentication disabled")
	}
}

func (c *Container) initServices() {
	// Scoring pipeline; the embedder is optional and scoring degrades
	// gracefully without it
	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey != "" {
		c.Embedder = embeddings.NewGenerator(openAIKey, "")
	} else {
		logx.Warn("OPENAI_API_KEY is not set, semantic scoring and similarity search disabled")
	}

	var embedder ats.Embedder
	if c.Embedder != nil {
		embedder = c.Embedder
	}

	c.Engine = ats.NewEngine(embedder)
	c.Integrator = keywords.NewIntegrator()

	// Repositories
	resumeRepo := resumeinfra.NewPostgresResumeRepository(c.DB)
	analysisRepo := analysisinfra.NewPostgresAnalysisRepository(c.DB)
	jobRepo := analysisinfra.NewPostgresJobRepository(c.DB)
	c.AnalysisQueue = analysisinfra.NewRedisQueue(c.Redis, analysisQueueName)

	// Domain services
	c.ResumeService = resumesrv.NewService(resumeRepo, c.FileSystem, embedder)
	c.AnalysisService = analysissrv.NewService(
		analysisRepo,
		jobRepo,
		c.AnalysisQueue,
		resumeRepo,
		c.Engine,
		c.Integrator,
		embedder,
	)

	// Background workers
	workers := 3
	c.AnalysisWorker = worker.NewAnalysisWorker(c.AnalysisService, c.AnalysisQueue, workers)

	// Handlers
	c.ResumeHandlers = resumeapi.NewResumeHandlers(c.ResumeService, c.FileSystem)
	c.AnalysisHandlers = analysisapi.NewAnalysisHandlers(c.AnalysisService)
}
