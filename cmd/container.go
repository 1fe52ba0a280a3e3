// cmd/container.go
//
// Composition root. Owns infrastructure (DB, Redis, storage, mail) and composes
// the IAM container. This is the only place that knows about every module.
package main

import (
	"context"

	"github.com/Abraxas-365/passport/pkg/asyncx"
	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/fsx"
	"github.com/Abraxas-365/passport/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/passport/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/passport/pkg/iam/iamcontainer"
	"github.com/Abraxas-365/passport/pkg/jobx"
	"github.com/Abraxas-365/passport/pkg/jobx/jobxredis"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/Abraxas-365/passport/pkg/notifx"
	"github.com/Abraxas-365/passport/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/passport/pkg/notifx/notifxinfra"
	"github.com/Abraxas-365/passport/pkg/notifx/notifxses"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	LocalFS    *fsxlocal.LocalFileSystem

	// Mail
	Mail       *notifx.Client
	Dispatcher notifx.Dispatcher
	Jobs       *jobx.Client

	// Bounded-context containers
	IAM *iamcontainer.Container
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initMail()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure: DB, Redis, file storage
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database
	if c.Config.Database.Driver == "postgres" {
		db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
		db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
		db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
		c.DB = db
		logx.Info("  ✅ Database connected")
	} else {
		logx.Warn("  ⚠️  DB_DRIVER=memory, no database connection")
	}

	// 2. Redis
	if c.Config.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v", err)
		}
		logx.Info("  ✅ Redis connected")
	}

	// 3. File storage
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	sc := c.Config.Storage

	switch sc.Mode {
	case "s3":
		cfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(sc.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(cfg), sc.S3Bucket, sc.S3Prefix, sc.AWSRegion)
		logx.Infof("  ✅ S3 file system configured (bucket: %s, region: %s)", sc.S3Bucket, sc.AWSRegion)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(sc.UploadDir, sc.PublicBaseURL)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		c.LocalFS = localFS
		logx.Infof("  ✅ Local file system configured (path: %s)", localFS.BasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", sc.Mode)
	}
}

// ---------------------------------------------------------------------------
// Mail: provider, templates, dispatch
// ---------------------------------------------------------------------------

func (c *Container) initMail() {
	nc := c.Config.Notifx

	var provider notifx.EmailSender
	switch nc.Provider {
	case "ses":
		cfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(nc.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		provider = notifxses.NewSESProvider(ses.NewFromConfig(cfg), nc.FromAddress)
		logx.Infof("  ✅ SES mail provider configured (region: %s)", nc.AWSRegion)
	default:
		provider = notifxconsole.NewConsoleProvider()
		logx.Warn("  ⚠️  Console mail provider, e-mails are only logged")
	}

	var templates notifx.TemplateStore
	if c.DB != nil {
		store := notifxinfra.NewPostgresTemplateStore(c.DB)
		n, err := store.SeedMissing(context.Background(), notifxinfra.DefaultTemplates())
		if err != nil {
			logx.Fatalf("Failed to seed mail templates: %v", err)
		}
		if n > 0 {
			logx.Infof("  ✅ %d default mail templates seeded", n)
		}
		templates = store
	} else {
		templates = notifxinfra.NewMemoryTemplateStore(notifxinfra.DefaultTemplates()...)
	}

	c.Mail = notifx.NewClient(provider, templates, nc.FromName, nc.FromAddress)
	async := notifx.NewAsyncDispatcher(c.Mail)

	if nc.Dispatch == "queue" && c.Redis != nil {
		opts := jobx.OptionsFromConfig(c.Config.Jobx)
		c.Jobs = jobx.NewClient(jobxredis.NewRedisQueue(c.Redis, "passport:jobs"), opts)
		c.Jobs.Register(notifx.JobTypeSendMail, notifx.MailJobHandler(c.Mail))
		c.Dispatcher = notifx.NewQueueDispatcher(c.Jobs, async)
		logx.Infof("  ✅ Mail dispatched through job queue %q", opts.Queues[0])
		return
	}
	c.Dispatcher = async
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	iam, err := iamcontainer.New(iamcontainer.Deps{
		DB:     c.DB,
		Redis:  c.Redis,
		Cfg:    c.Config,
		Mailer: c.Dispatcher,
		Images: fsx.NewImageStore(c.FileSystem, "avatars"),
	})
	if err != nil {
		logx.Fatalf("Failed to initialize IAM: %v", err)
	}
	c.IAM = iam

	if err := c.IAM.Bootstrap(context.Background()); err != nil {
		logx.Fatalf("Failed to bootstrap admin: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	if c.Jobs != nil {
		go func() {
			if err := c.Jobs.Start(ctx); err != nil {
				logx.WithError(err).Error("job worker stopped")
			}
		}()
		logx.Info("  ✅ Mail job worker started")
	}
}

// HealthCheck pings every configured backend concurrently.
func (c *Container) HealthCheck(ctx context.Context, checkStorage bool) map[string]error {
	names := []string{}
	checks := []func(context.Context) (struct{}, error){}

	if c.DB != nil {
		names = append(names, "db")
		checks = append(checks, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.DB.PingContext(ctx)
		})
	}
	if c.Redis != nil {
		names = append(names, "redis")
		checks = append(checks, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.Redis.Ping(ctx).Err()
		})
	}
	if checkStorage {
		names = append(names, "storage")
		checks = append(checks, func(ctx context.Context) (struct{}, error) {
			_, err := c.FileSystem.Exists(ctx, ".health-check")
			return struct{}{}, err
		})
	}

	out := make(map[string]error, len(names))
	for i, r := range asyncx.AllSettled(ctx, checks...) {
		out[names[i]] = r.Err
	}
	return out
}

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
