package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttasker/api/internal/config"
)

func enabledConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "hunter2hunter2",
		From:     "noreply@example.com",
	}
}

func TestSendTaskReminder(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	t.Run("sends through smtp", func(t *testing.T) {
		t.Parallel()
		mailer := NewSMTPMailer(enabledConfig(), nil)

		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte
		var gotAuth smtp.Auth
		mailer.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
			return nil
		}

		err := mailer.SendTaskReminder(context.Background(), "ada@example.com", "File taxes", deadline)
		require.NoError(t, err)

		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.NotNil(t, gotAuth)
		assert.Equal(t, "noreply@example.com", gotFrom)
		assert.Equal(t, []string{"ada@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), `Subject: Reminder: Task "File taxes" is due soon!`)
		assert.Contains(t, string(gotMsg), "To: ada@example.com")
		assert.Contains(t, string(gotMsg), `your task "File taxes" is due soon`)
	})

	t.Run("no auth without username", func(t *testing.T) {
		t.Parallel()
		cfg := enabledConfig()
		cfg.Username = ""
		cfg.Password = ""
		mailer := NewSMTPMailer(cfg, nil)

		var gotAuth smtp.Auth
		mailer.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAuth = a
			return nil
		}

		require.NoError(t, mailer.SendTaskReminder(context.Background(), "ada@example.com", "File taxes", deadline))
		assert.Nil(t, gotAuth)
	})

	t.Run("disabled config skips sending", func(t *testing.T) {
		t.Parallel()
		mailer := NewSMTPMailer(config.SMTPConfig{}, nil)

		called := false
		mailer.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			called = true
			return nil
		}

		err := mailer.SendTaskReminder(context.Background(), "ada@example.com", "File taxes", deadline)
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("transport failure is returned for logging", func(t *testing.T) {
		t.Parallel()
		mailer := NewSMTPMailer(enabledConfig(), nil)
		mailer.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			return errors.New("connection refused")
		}

		err := mailer.SendTaskReminder(context.Background(), "ada@example.com", "File taxes", deadline)
		require.Error(t, err)
	})
}
