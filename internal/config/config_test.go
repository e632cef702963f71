package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Mailbox: MailboxConfig{
			Host:     "imap.gmail.com",
			Port:     993,
			Username: "inbox@firm.test",
			Password: "secret",
		},
		SMTP: SMTPConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			Username: "inbox@firm.test",
			Password: "secret",
		},
		Scheduler: SchedulerConfig{IntervalMinutes: 1},
	}
}

func TestConfigValidation(t *testing.T) {
	config := validConfig()
	assert.NoError(t, config.Validate())

	invalid := validConfig()
	invalid.Server.Port = ""
	assert.Error(t, invalid.Validate())

	invalid = validConfig()
	invalid.Mailbox.Password = ""
	assert.Error(t, invalid.Validate())

	invalid = validConfig()
	invalid.SMTP.Username = ""
	assert.Error(t, invalid.Validate())

	invalid = validConfig()
	invalid.Scheduler.IntervalMinutes = 0
	assert.Error(t, invalid.Validate())
}

func TestGmailValidation(t *testing.T) {
	config := validConfig()
	config.Gmail.Enabled = true
	assert.Error(t, config.Validate())

	config.Gmail.ClientID = "id"
	config.Gmail.ClientSecret = "secret"
	assert.NoError(t, config.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	config := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := config.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}

func TestAddresses(t *testing.T) {
	mailbox := MailboxConfig{Host: "imap.example.com", Port: 993}
	assert.Equal(t, "imap.example.com:993", mailbox.Address())

	smtp := SMTPConfig{Host: "smtp.example.com", Port: 587}
	assert.Equal(t, "smtp.example.com:587", smtp.Address())
}
