package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	to      string
	message string
}

func newTestNotifier(failures int) (*SMTPNotifier, *[]capturedMail, *int) {
	n := NewSMTPNotifier(SMTPConfig{
		Host:      "smtp.test",
		Port:      587,
		Username:  "user",
		Password:  "pass",
		FromName:  "Kasta CrossFit",
		FromEmail: "noreply@kasta.test",
		SiteName:  "Kasta CrossFit",
		SiteURL:   "https://kasta.test",
		MaxTries:  3,
	}, zerolog.Nop())
	n.delay = time.Millisecond
	n.now = func() time.Time { return time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC) }

	var sent []capturedMail
	attempts := 0
	n.send = func(_ context.Context, to string, message []byte) error {
		attempts++
		if attempts <= failures {
			return errors.New("connection reset")
		}
		sent = append(sent, capturedMail{to: to, message: string(message)})
		return nil
	}
	return n, &sent, &attempts
}

func TestSendRejectionEmail_QuotesReason(t *testing.T) {
	n, sent, _ := newTestNotifier(0)

	err := n.SendRejectionEmail(context.Background(), Recipient{Email: "paul@example.fr", FirstName: "Paul", LastName: "Martin"}, "Certificat <médical> manquant")
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	assert.Equal(t, "paul@example.fr", (*sent)[0].to)
	assert.Contains(t, (*sent)[0].message, "Subject: Your Kasta CrossFit membership request")
	assert.Contains(t, (*sent)[0].message, "Certificat &lt;médical&gt; manquant")
	assert.Contains(t, (*sent)[0].message, `To: "Paul Martin" <paul@example.fr>`)
	assert.Contains(t, (*sent)[0].message, "octobre 2025")
}

func TestSendApprovalEmail_RetriesTransientFailures(t *testing.T) {
	n, sent, attempts := newTestNotifier(2)

	err := n.SendApprovalEmail(context.Background(), Recipient{Email: "lea@example.fr", FirstName: "Léa"})
	require.NoError(t, err)
	assert.Equal(t, 3, *attempts)
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].message, "Your Kasta CrossFit account has been validated")
}

func TestSendApprovalEmail_GivesUpAfterMaxTries(t *testing.T) {
	n, sent, attempts := newTestNotifier(10)

	err := n.SendApprovalEmail(context.Background(), Recipient{Email: "lea@example.fr", FirstName: "Léa"})
	assert.Error(t, err)
	assert.Equal(t, 3, *attempts)
	assert.Empty(t, *sent)
}

func TestDeliver_WithoutCredentialsOnlyLogs(t *testing.T) {
	n, sent, attempts := newTestNotifier(0)
	n.config.Username = ""

	require.NoError(t, n.SendApprovalEmail(context.Background(), Recipient{Email: "lea@example.fr"}))
	assert.Zero(t, *attempts)
	assert.Empty(t, *sent)
}

func TestBuildMessage_EncodesHeaders(t *testing.T) {
	n, sent, _ := newTestNotifier(0)
	n.config.SiteName = "Kasta Épinal"

	err := n.SendApprovalEmail(context.Background(), Recipient{Email: "lea@example.fr", FirstName: "Léa\r\nBcc: x@evil.test", LastName: "Martin"})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	header, _, found := strings.Cut((*sent)[0].message, "\r\n\r\n")
	require.True(t, found)
	lines := strings.Split(header, "\r\n")
	assert.Len(t, lines, 5)
	for _, line := range lines {
		assert.NotContains(t, line, "\n")
		assert.False(t, strings.HasPrefix(line, "Bcc:"), line)
	}
	assert.Contains(t, header, "To: =?utf-8?q?")
	assert.Contains(t, header, "<lea@example.fr>")
	assert.Contains(t, header, "Subject: =?utf-8?q?")
	assert.NotContains(t, header, "Épinal")
}
