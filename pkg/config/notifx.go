package config

// NotifxConfig configures outbound mail.
type NotifxConfig struct {
	// Provider is "ses" or "console".
	Provider    string
	FromAddress string
	FromName    string
	AWSRegion   string
	// Dispatch is "async" (in-process goroutine) or "queue" (jobx on redis).
	Dispatch string
}

func loadNotifxConfig() NotifxConfig {
	return NotifxConfig{
		Provider:    getEnv("NOTIFX_PROVIDER", "console"),
		FromAddress: getEnv("NOTIFX_FROM_ADDRESS", getEnv("EMAIL_FROM_ADDRESS", "noreply@passport.local")),
		FromName:    getEnv("NOTIFX_FROM_NAME", "Passport"),
		AWSRegion:   getEnv("NOTIFX_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
		Dispatch:    getEnv("NOTIFX_DISPATCH", "async"),
	}
}

// StorageConfig configures avatar storage.
type StorageConfig struct {
	// Mode is "local" or "s3".
	Mode          string
	UploadDir     string
	PublicBaseURL string
	S3Bucket      string
	S3Prefix      string
	AWSRegion     string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:          getEnv("STORAGE_MODE", "local"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/media"),
		S3Bucket:      getEnv("AWS_BUCKET", "passport-avatars"),
		S3Prefix:      getEnv("AWS_BUCKET_PREFIX", "avatars"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
	}
}
