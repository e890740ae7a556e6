package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	DB         DBConfig
	JWT        JWTConfig
	Catalog    CatalogConfig
	Allocation AllocationConfig
	AI         AIConfig
	Snapshot   SnapshotConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT. Con Secret vacío la API queda sin autenticación.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// CatalogConfig origen del catálogo de almacenes, tiendas y productos.
type CatalogConfig struct {
	Source  string // file | postgres
	DataDir string
	Charset string // utf-8 | iso-8859-1 (exportaciones antiguas)
}

// AllocationConfig parámetros del asignador y del archivo de ejecuciones.
type AllocationConfig struct {
	ShipmentLimit int  // grupos por almacén en la salida; <= 0 sin recorte
	ArchiveRuns   bool // guardar cada ejecución en PostgreSQL
}

// AIConfig configuración del generador de recomendaciones (Gemini).
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

// SnapshotConfig destino de la foto final de cada ejecución.
type SnapshotConfig struct {
	Driver      string // none | file | s3
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, DATA_DIR, SNAPSHOT_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stock-allocator"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "stock_allocator"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "stock-allocator"),
		},
		Catalog: CatalogConfig{
			Source:  strings.ToLower(getString(v, "CATALOG_SOURCE", "file")),
			DataDir: getString(v, "DATA_DIR", "data"),
			Charset: strings.ToLower(getString(v, "CATALOG_CHARSET", "utf-8")),
		},
		Allocation: AllocationConfig{
			ShipmentLimit: getInt(v, "SHIPMENT_LIMIT", 10),
			ArchiveRuns:   getBool(v, "ARCHIVE_RUNS", false),
		},
		AI: AIConfig{
			GeminiAPIKey: getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:  getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Snapshot: SnapshotConfig{
			Driver:      strings.ToLower(getString(v, "SNAPSHOT_DRIVER", "none")),
			Dir:         getString(v, "SNAPSHOT_DIR", "snapshots"),
			S3Bucket:    getString(v, "SNAPSHOT_S3_BUCKET", ""),
			S3Region:    getString(v, "SNAPSHOT_S3_REGION", "us-east-1"),
			S3Endpoint:  getString(v, "SNAPSHOT_S3_ENDPOINT", ""),
			S3PathStyle: getBool(v, "SNAPSHOT_S3_PATH_STYLE", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := validation.ValidateStruct(&c.HTTP,
		validation.Field(&c.HTTP.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("HTTP_PORT: %w", err)
	}
	if err := validation.ValidateStruct(&c.Catalog,
		validation.Field(&c.Catalog.Source,
			validation.Required,
			validation.In("file", "postgres").Error("CATALOG_SOURCE debe ser file | postgres"),
		),
		validation.Field(&c.Catalog.Charset,
			validation.In("utf-8", "utf8", "iso-8859-1", "latin1").Error("CATALOG_CHARSET debe ser utf-8 | iso-8859-1"),
		),
		validation.Field(&c.Catalog.DataDir, validation.When(c.Catalog.Source == "file", validation.Required)),
	); err != nil {
		return fmt.Errorf("catálogo: %w", err)
	}
	if err := validation.ValidateStruct(&c.Snapshot,
		validation.Field(&c.Snapshot.Driver,
			validation.Required,
			validation.In("none", "file", "s3").Error("SNAPSHOT_DRIVER debe ser none | file | s3"),
		),
		validation.Field(&c.Snapshot.Dir, validation.When(c.Snapshot.Driver == "file", validation.Required)),
		validation.Field(&c.Snapshot.S3Bucket,
			validation.When(c.Snapshot.Driver == "s3",
				validation.Required.Error("SNAPSHOT_S3_BUCKET es obligatorio con SNAPSHOT_DRIVER=s3")),
		),
	); err != nil {
		return fmt.Errorf("fotos: %w", err)
	}
	return nil
}

// NeedsDB indica si alguna pieza configurada requiere conexión a PostgreSQL.
func (c *Config) NeedsDB() bool {
	return c.Catalog.Source == "postgres" || c.Allocation.ArchiveRuns
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
