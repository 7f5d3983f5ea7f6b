package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigTOML = `
[server]
http_port = 9090

[database]
host = "db.local"
port = 5433
user = "salon"
password = "secret"
dbname = "salon_booking"

[booking]
min_advance_hours = 48
auto_confirm = true

[salon]
timezone = "America/New_York"
holidays = ["2026-12-25"]

[salon.business_hours]
monday = { start = "09:00", end = "18:00" }

[salon.services.haircut]
duration_minutes = 45
price = 50.0

[salon.stylists.alice]
name = "Alice Johnson"
email = "alice@salon.example"
specialties = ["haircut"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigTOML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 48, cfg.Booking.MinAdvanceHours)
	assert.True(t, cfg.Booking.AutoConfirm)
	assert.Equal(t, "America/New_York", cfg.Salon.Timezone)
	assert.Contains(t, cfg.Salon.Services, "haircut")
	assert.Equal(t, []string{"haircut"}, cfg.Salon.Stylists["alice"].Specialties)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigTOML))
	require.NoError(t, err)

	// Не заданные в файле значения получают дефолты
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 30, cfg.Booking.MaxAdvanceDays)
	assert.Equal(t, 15, cfg.Booking.SlotIntervalMinutes)
	assert.Equal(t, 15, cfg.Booking.BufferMinutes)
	assert.Equal(t, 20, cfg.Booking.MaxDailyAppointments)
	assert.Equal(t, 24, cfg.Reminder.HoursBefore)
	assert.Equal(t, "*/10 * * * *", cfg.Reminder.Schedule)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverridesDatabase(t *testing.T) {
	t.Setenv("SALON_DB_HOST", "prod-db")
	t.Setenv("SALON_DB_PORT", "6432")
	t.Setenv("SALON_DB_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, validConfigTOML))
	require.NoError(t, err)

	assert.Equal(t, "prod-db", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "from-env", cfg.Database.Password)
	// Не переопределенные поля остаются из файла
	assert.Equal(t, "salon", cfg.Database.User)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  string
		wantErr string
	}{
		{
			name: "unknown specialty",
			mutate: validConfigTOML + `
[salon.stylists.bob]
name = "Bob Smith"
email = "bob@salon.example"
specialties = ["massage"]
`,
			wantErr: "unknown specialty",
		},
		{
			name: "inverted business hours",
			mutate: validConfigTOML + `
[salon.business_hours.tuesday]
start = "18:00"
end = "09:00"
`,
			wantErr: "must be before",
		},
		{
			name: "empty specialties",
			mutate: validConfigTOML + `
[salon.stylists.carol]
name = "Carol Lee"
email = "carol@salon.example"
specialties = []
`,
			wantErr: "specialties must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.mutate))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	_, err := Load(writeConfig(t, `
[database]
host = "db.local"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dbname is required")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "salon",
		Password: "secret",
		DBName:   "salon_booking",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=salon password=secret dbname=salon_booking sslmode=disable",
		d.DSN(),
	)
}
