package config

import (
	"github.com/JaimeStill/color-lab/internal/analyses"
	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/pkg/database"
	"github.com/JaimeStill/color-lab/pkg/logging"
	"github.com/JaimeStill/color-lab/pkg/pagination"
	"github.com/JaimeStill/color-lab/pkg/storage"
	"github.com/JaimeStill/color-lab/pkg/workers"
)

var serverEnv = &ServerEnv{
	Host:            "SERVER_HOST",
	Port:            "SERVER_PORT",
	ReadTimeout:     "SERVER_READ_TIMEOUT",
	WriteTimeout:    "SERVER_WRITE_TIMEOUT",
	ShutdownTimeout: "SERVER_SHUTDOWN_TIMEOUT",
}

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
	AutoMigrate:     "DATABASE_AUTO_MIGRATE",
}

var storageEnv = &storage.Env{
	BasePath:          "STORAGE_BASE_PATH",
	MaxUploadSize:     "STORAGE_MAX_UPLOAD_SIZE",
	AllowedExtensions: "STORAGE_ALLOWED_EXTENSIONS",
	VerifyContent:     "STORAGE_VERIFY_CONTENT",
}

var loggingEnv = &logging.Env{
	Level:  "LOGGING_LEVEL",
	Format: "LOGGING_FORMAT",
	Source: "LOGGING_SOURCE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "API_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "API_PAGINATION_MAX_PAGE_SIZE",
}

var identityEnv = &analyses.IdentityEnv{
	UserIDHeader: "API_IDENTITY_USER_ID_HEADER",
	EmailHeader:  "API_IDENTITY_EMAIL_HEADER",
}

var workersEnv = &workers.Env{
	Core:            "ANALYSIS_WORKERS_CORE",
	Max:             "ANALYSIS_WORKERS_MAX",
	Backlog:         "ANALYSIS_WORKERS_BACKLOG",
	IdleTimeout:     "ANALYSIS_WORKERS_IDLE_TIMEOUT",
	ShutdownTimeout: "ANALYSIS_WORKERS_SHUTDOWN_TIMEOUT",
}

var classifyEnv = &classify.Env{
	MinConfidence: "ANALYSIS_MIN_CONFIDENCE",
	MaxConfidence: "ANALYSIS_MAX_CONFIDENCE",
}
