package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/Salon-BookingService/internal/domain"
	"github.com/m04kA/Salon-BookingService/pkg/types"
)

// Config конфигурация сервиса, загружается из TOML-файла
// Секреты БД могут быть переопределены переменными окружения (см. applyEnvOverrides)
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Mailer   MailerConfig   `toml:"mailer"`
	Booking  BookingConfig  `toml:"booking"`
	Reminder ReminderConfig `toml:"reminder"`
	Salon    SalonConfig    `toml:"salon"`
}

// ServerConfig настройки HTTP-сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`  // Пустая строка = stdout
	Level string `toml:"level"` // debug, info, warn, error
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// MailerConfig настройки клиента внешнего почтового сервиса
type MailerConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BookingConfig правила бронирования
type BookingConfig struct {
	MinAdvanceHours      int  `toml:"min_advance_hours"`
	MaxAdvanceDays       int  `toml:"max_advance_days"`
	SlotIntervalMinutes  int  `toml:"slot_interval_minutes"`
	BufferMinutes        int  `toml:"buffer_minutes"`
	MaxDailyAppointments int  `toml:"max_daily_appointments"`
	AutoConfirm          bool `toml:"auto_confirm"`
}

// ToRules конвертирует секцию booking в доменные правила
func (b BookingConfig) ToRules() domain.BookingRules {
	return domain.BookingRules{
		MinAdvanceHours:      b.MinAdvanceHours,
		MaxAdvanceDays:       b.MaxAdvanceDays,
		SlotIntervalMinutes:  b.SlotIntervalMinutes,
		BufferMinutes:        b.BufferMinutes,
		MaxDailyAppointments: b.MaxDailyAppointments,
		AutoConfirm:          b.AutoConfirm,
	}
}

// ReminderConfig настройки фонового воркера напоминаний
type ReminderConfig struct {
	Enabled     bool   `toml:"enabled"`
	HoursBefore int    `toml:"hours_before"`
	Schedule    string `toml:"schedule"` // cron-выражение периодичности опроса
}

// SalonConfig каталог салона: рабочие часы, услуги, мастера, праздники
type SalonConfig struct {
	Timezone      string                   `toml:"timezone"`
	BusinessHours map[string]HoursConfig   `toml:"business_hours"`
	Services      map[string]ServiceConfig `toml:"services"`
	Stylists      map[string]StylistConfig `toml:"stylists"`
	Holidays      []string                 `toml:"holidays"` // YYYY-MM-DD
}

// HoursConfig рабочее окно одного дня недели
type HoursConfig struct {
	Start types.TimeString `toml:"start"`
	End   types.TimeString `toml:"end"`
}

// ServiceConfig описание услуги
type ServiceConfig struct {
	DurationMinutes int     `toml:"duration_minutes"`
	Price           float64 `toml:"price"`
	Description     string  `toml:"description"`
	Active          *bool   `toml:"active"` // nil = true
}

// StylistConfig описание мастера
// Schedule переопределяет общие business_hours для отдельных дней;
// отсутствие дня и в Schedule, и в business_hours означает выходной
type StylistConfig struct {
	Name        string                 `toml:"name"`
	Email       string                 `toml:"email"`
	Specialties []string               `toml:"specialties"`
	Schedule    map[string]HoursConfig `toml:"schedule"`
	Active      *bool                  `toml:"active"` // nil = true
}

// Load читает конфигурацию из TOML-файла
// Перед чтением подхватывает .env (если есть) и применяет env-переопределения
func Load(path string) (*Config, error) {
	// .env опционален: в проде переменные приходят из окружения контейнера
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "salon-booking-service"
	}

	if c.Booking.MinAdvanceHours == 0 {
		c.Booking.MinAdvanceHours = domain.DefaultMinAdvanceHours
	}
	if c.Booking.MaxAdvanceDays == 0 {
		c.Booking.MaxAdvanceDays = domain.DefaultMaxAdvanceDays
	}
	if c.Booking.SlotIntervalMinutes == 0 {
		c.Booking.SlotIntervalMinutes = domain.DefaultSlotIntervalMinutes
	}
	if c.Booking.BufferMinutes == 0 {
		c.Booking.BufferMinutes = domain.DefaultBufferMinutes
	}
	if c.Booking.MaxDailyAppointments == 0 {
		c.Booking.MaxDailyAppointments = domain.DefaultMaxDailyAppointments
	}

	if c.Reminder.HoursBefore == 0 {
		c.Reminder.HoursBefore = 24
	}
	if c.Reminder.Schedule == "" {
		c.Reminder.Schedule = "*/10 * * * *"
	}

	if c.Salon.Timezone == "" {
		c.Salon.Timezone = "UTC"
	}
}

// applyEnvOverrides переопределяет реквизиты БД из окружения
// Позволяет держать config.toml в репозитории без секретов
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SALON_DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("SALON_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("SALON_DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("SALON_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("SALON_DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("SALON_MAILER_URL"); v != "" {
		c.Mailer.URL = v
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if len(c.Salon.Services) == 0 {
		return fmt.Errorf("config: salon.services must not be empty")
	}
	if len(c.Salon.Stylists) == 0 {
		return fmt.Errorf("config: salon.stylists must not be empty")
	}
	for day, hours := range c.Salon.BusinessHours {
		if !hours.Start.IsBefore(hours.End) {
			return fmt.Errorf("config: salon.business_hours.%s: start %s must be before end %s", day, hours.Start, hours.End)
		}
	}
	for id, stylist := range c.Salon.Stylists {
		if len(stylist.Specialties) == 0 {
			return fmt.Errorf("config: salon.stylists.%s: specialties must not be empty", id)
		}
		for _, specialty := range stylist.Specialties {
			if _, ok := c.Salon.Services[specialty]; !ok {
				return fmt.Errorf("config: salon.stylists.%s: unknown specialty %q", id, specialty)
			}
		}
		for day, hours := range stylist.Schedule {
			if !hours.Start.IsBefore(hours.End) {
				return fmt.Errorf("config: salon.stylists.%s.schedule.%s: start %s must be before end %s", id, day, hours.Start, hours.End)
			}
		}
	}
	return nil
}
