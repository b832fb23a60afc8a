package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"asperro-contact-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&amp; &lt; &gt; &quot; &#x27; &#x2F;", EscapeHTML(`& < > " ' /`))
	assert.Equal(t, "&amp;lt;", EscapeHTML("&lt;"), "ampersand of an existing entity is escaped once")
	assert.Equal(t, "Jana Nová", EscapeHTML("Jana Nová"))
}

func TestRenderContactEmail(t *testing.T) {
	body, err := RenderContactEmail(ContactEmailData{
		SenderName:  EscapeHTML("<b>Jana</b>"),
		SenderEmail: EscapeHTML("jana@example.com"),
		Phone:       NotProvided,
		Message:     EscapeHTML(`a "quote" & 'apostrophe'`),
		SiteURL:     "https://www.asperrostudio.cz",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "&lt;b&gt;Jana&lt;&#x2F;b&gt;")
	assert.NotContains(t, body, "<b>Jana</b>")
	assert.Contains(t, body, `a &quot;quote&quot; &amp; &#x27;apostrophe&#x27;`)
	assert.Contains(t, body, "<strong>Telefon:</strong> Neuveden")
	assert.Contains(t, body, `href="mailto:jana@example.com"`)
	assert.Contains(t, body, ">www.asperrostudio.cz</a>")
}

func TestContactSubject(t *testing.T) {
	assert.Equal(t, "Nová zpráva od Jana - AsperroStudio", ContactSubject("Jana"))
}

func TestNewSenderSelectsProvider(t *testing.T) {
	s, err := NewSender(&config.Config{MailProvider: "resend", ResendAPIKey: "re_test"})
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, s)

	s, err = NewSender(&config.Config{MailProvider: "smtp", SMTPHost: "localhost", SMTPPort: 1025, SMTPTLSPolicy: "none"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	s, err = NewSender(&config.Config{MailProvider: "sendgrid", SendGridAPIKey: "SG.test"})
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	_, err = NewSender(&config.Config{MailProvider: "pigeon"})
	assert.Error(t, err)
}

func TestResendSenderPostsEmail(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	s, err := NewResendSender("re_test", srv.URL)
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{
		From:    "AsperroStudio <noreply@asperrostudio.cz>",
		To:      []string{"studio@example.com"},
		ReplyTo: "jana@example.com",
		Subject: "Nová zpráva od Jana - AsperroStudio",
		HTML:    "<p>Ahoj</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "AsperroStudio <noreply@asperrostudio.cz>", got["from"])
	assert.Equal(t, []any{"studio@example.com"}, got["to"])
	assert.Equal(t, "jana@example.com", got["reply_to"])
	assert.Equal(t, "<p>Ahoj</p>", got["html"])
}

func TestResendSenderReportsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	}))
	defer srv.Close()

	s, err := NewResendSender("re_test", srv.URL)
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{From: "a@b.cz", To: []string{"c@d.cz"}, Subject: "s", HTML: "h"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "resend:"))
}

func TestBuildSMTPMessage(t *testing.T) {
	m, err := buildSMTPMessage(Message{
		From:    "AsperroStudio <noreply@asperrostudio.cz>",
		To:      []string{"studio@example.com"},
		ReplyTo: "jana@example.com",
		Subject: "Nová zpráva",
		HTML:    "<p>Ahoj</p>",
	})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = buildSMTPMessage(Message{From: "not an address", To: []string{"studio@example.com"}})
	assert.Error(t, err)

	_, err = buildSMTPMessage(Message{From: "noreply@asperrostudio.cz"})
	assert.Error(t, err)
}

func TestBuildSendGridMail(t *testing.T) {
	m, err := buildSendGridMail(Message{
		From:    "AsperroStudio <noreply@asperrostudio.cz>",
		To:      []string{"studio@example.com"},
		ReplyTo: "jana@example.com",
		Subject: "Nová zpráva",
		HTML:    "<p>Ahoj</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "AsperroStudio", m.From.Name)
	assert.Equal(t, "noreply@asperrostudio.cz", m.From.Address)
	assert.Equal(t, "Nová zpráva", m.Subject)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "studio@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "jana@example.com", m.ReplyTo.Address)
	assert.Equal(t, "<p>Ahoj</p>", m.Content[0].Value)

	_, err = buildSendGridMail(Message{From: "AsperroStudio <noreply@asperrostudio.cz>"})
	assert.Error(t, err)
}
