package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// Config holds every runtime setting of the server and the CLI.
type Config struct {
	Port        string `validate:"required"`
	DatabaseURL string `validate:"required"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int           `validate:"gte=0,lte=15"`
	RunTTL        time.Duration `validate:"gt=0"`

	CORSOrigins []string

	DefaultCapacity int    `validate:"gt=0"`
	AcademicYear    string `validate:"required"`
	PlaceholderDOB  time.Time

	FeeGrades        []string
	CurrencyCode     string `validate:"required,len=3"`
	CurrencySymbol   string
	CurrencyDecimals int `validate:"gte=0,lte=4"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=student_sync port=5432 sslmode=disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RUN_TTL", time.Hour)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SYNC_DEFAULT_CAPACITY", 40)
	v.SetDefault("SYNC_ACADEMIC_YEAR", strconv.Itoa(time.Now().Year()))
	v.SetDefault("SYNC_PLACEHOLDER_DOB", "2000-01-01")
	v.SetDefault("FEE_GRADES", "Pre-KG,KG,Prep")
	v.SetDefault("CURRENCY_CODE", "ETB")
	v.SetDefault("CURRENCY_SYMBOL", "Br")
	v.SetDefault("CURRENCY_DECIMALS", 2)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	dob, err := time.Parse(dateLayout, v.GetString("SYNC_PLACEHOLDER_DOB"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_PLACEHOLDER_DOB: %w", err)
	}

	cfg := &Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		RunTTL:           v.GetDuration("RUN_TTL"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		DefaultCapacity:  v.GetInt("SYNC_DEFAULT_CAPACITY"),
		AcademicYear:     v.GetString("SYNC_ACADEMIC_YEAR"),
		PlaceholderDOB:   dob,
		FeeGrades:        splitList(v.GetString("FEE_GRADES")),
		CurrencyCode:     strings.ToUpper(v.GetString("CURRENCY_CODE")),
		CurrencySymbol:   v.GetString("CURRENCY_SYMBOL"),
		CurrencyDecimals: v.GetInt("CURRENCY_DECIMALS"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// splitList splits a comma separated env value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
