package contactform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiStub struct {
	calls   atomic.Int32
	mu      sync.Mutex
	bodies  []map[string]string
	status  int
	reply   string
	release chan struct{} // when set, requests block until closed
	entered chan struct{}
}

func (s *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)

	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	s.bodies = append(s.bodies, body)
	s.mu.Unlock()

	if r.Header.Get("Content-Type") != "application/json" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}

	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	reply := s.reply
	if reply == "" {
		reply = `{"success":true,"message":"Zpráva byla úspěšně odeslána!"}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(reply))
}

func newController(t *testing.T, stub *apiStub, display time.Duration) *Controller {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	c := New(Config{Endpoint: srv.URL + "/api/contact", SuccessDisplay: display})
	t.Cleanup(c.Close)
	return c
}

func fill(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.UpdateField(FieldName, "Jana Nová"))
	require.NoError(t, c.UpdateField(FieldEmail, "jana@example.com"))
	require.NoError(t, c.UpdateField(FieldMessage, "Ahoj"))
}

func TestInitialState(t *testing.T) {
	c := New(Config{Endpoint: "http://127.0.0.1:0"})
	st := c.State()

	assert.Equal(t, StatusIdle, st.Status)
	assert.Equal(t, Values{}, st.Values)
	assert.Empty(t, st.ErrorMessage)
}

func TestUpdateFieldUnknown(t *testing.T) {
	c := New(Config{})
	assert.ErrorIs(t, c.UpdateField("company", "x"), ErrUnknownField)
}

func TestSubmitSuccessClearsFieldsAndRevertsToIdle(t *testing.T) {
	stub := &apiStub{}
	c := newController(t, stub, 50*time.Millisecond)
	fill(t, c)
	require.NoError(t, c.UpdateField(FieldPhone, "+420 777 123 456"))

	status := c.Submit(context.Background())

	assert.Equal(t, StatusSuccess, status)
	st := c.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, Values{}, st.Values)
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, map[string]string{
		"name": "Jana Nová", "email": "jana@example.com", "phone": "+420 777 123 456", "message": "Ahoj",
	}, stub.bodies[0])

	assert.Eventually(t, func() bool { return c.State().Status == StatusIdle }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Values{}, c.State().Values)
}

func TestSubmitPrevalidation(t *testing.T) {
	stub := &apiStub{}
	c := newController(t, stub, time.Second)

	require.NoError(t, c.UpdateField(FieldName, "   "))
	require.NoError(t, c.UpdateField(FieldEmail, "jana@example.com"))
	require.NoError(t, c.UpdateField(FieldMessage, "Ahoj"))

	assert.Equal(t, StatusError, c.Submit(context.Background()))
	assert.Equal(t, "Vyplňte prosím všechna povinná pole.", c.State().ErrorMessage)

	require.NoError(t, c.UpdateField(FieldName, "Jana"))
	require.NoError(t, c.UpdateField(FieldEmail, "foo@bar"))

	assert.Equal(t, StatusError, c.Submit(context.Background()))
	assert.Equal(t, "Zadejte prosím platnou emailovou adresu.", c.State().ErrorMessage)

	require.NoError(t, c.UpdateField(FieldEmail, "ja\u00a0na@example.com"))
	assert.Equal(t, StatusError, c.Submit(context.Background()))
	assert.Equal(t, "Zadejte prosím platnou emailovou adresu.", c.State().ErrorMessage)

	require.NoError(t, c.UpdateField(FieldEmail, "jana@example.com"))
	require.NoError(t, c.UpdateField(FieldName, "\ufeff"))
	assert.Equal(t, StatusError, c.Submit(context.Background()))
	assert.Equal(t, "Vyplňte prosím všechna povinná pole.", c.State().ErrorMessage)

	assert.Equal(t, int32(0), stub.calls.Load(), "invalid forms never reach the network")
}

func TestEditingClearsError(t *testing.T) {
	c := newController(t, &apiStub{}, time.Second)

	assert.Equal(t, StatusError, c.Submit(context.Background()))
	require.NotEmpty(t, c.State().ErrorMessage)

	require.NoError(t, c.UpdateField(FieldName, "J"))

	st := c.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, st.ErrorMessage)
	assert.Equal(t, "J", st.Name)
}

func TestEditingDoesNotClearSuccess(t *testing.T) {
	c := newController(t, &apiStub{}, time.Minute)
	fill(t, c)
	require.Equal(t, StatusSuccess, c.Submit(context.Background()))

	require.NoError(t, c.UpdateField(FieldName, "Petr"))
	assert.Equal(t, StatusSuccess, c.State().Status)
}

func TestSubmitServerRejection(t *testing.T) {
	stub := &apiStub{status: http.StatusBadRequest, reply: `{"success":false,"message":"Email je příliš dlouhý (maximum 254 znaků)."}`}
	c := newController(t, stub, time.Second)
	fill(t, c)

	assert.Equal(t, StatusError, c.Submit(context.Background()))

	st := c.State()
	assert.Equal(t, "Email je příliš dlouhý (maximum 254 znaků).", st.ErrorMessage)
	assert.Equal(t, "Jana Nová", st.Name, "fields survive a failed submission")
}

func TestSubmitSuccessFalseWith200(t *testing.T) {
	stub := &apiStub{reply: `{"success":false,"message":"Nope"}`}
	c := newController(t, stub, time.Second)
	fill(t, c)

	assert.Equal(t, StatusError, c.Submit(context.Background()))
	assert.Equal(t, "Nope", c.State().ErrorMessage)
}

func TestSubmitFallbackMessage(t *testing.T) {
	stub := &apiStub{status: http.StatusBadGateway, reply: `<html>bad gateway</html>`}
	c := newController(t, stub, time.Second)
	fill(t, c)

	assert.Equal(t, StatusError, c.Submit(context.Background()))
	assert.Equal(t, MsgSendFallback, c.State().ErrorMessage)
}

func TestSubmitNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := New(Config{Endpoint: endpoint, HTTPClient: &http.Client{Timeout: time.Second}})
	defer c.Close()
	fill(t, c)

	assert.Equal(t, StatusError, c.Submit(context.Background()))
	assert.Equal(t, MsgConnectivity, c.State().ErrorMessage)
}

func TestResubmitAfterError(t *testing.T) {
	stub := &apiStub{status: http.StatusInternalServerError, reply: `{"success":false,"message":"x"}`}
	c := newController(t, stub, time.Second)
	fill(t, c)

	require.Equal(t, StatusError, c.Submit(context.Background()))

	stub.status = http.StatusOK
	stub.reply = ""
	assert.Equal(t, StatusSuccess, c.Submit(context.Background()))
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestConcurrentSubmitSendsOnce(t *testing.T) {
	stub := &apiStub{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := newController(t, stub, time.Minute)
	fill(t, c)

	done := make(chan Status, 1)
	go func() { done <- c.Submit(context.Background()) }()

	<-stub.entered
	assert.Equal(t, StatusSubmitting, c.State().Status)

	// Rapid re-clicks while the first request is outstanding
	for i := 0; i < 5; i++ {
		assert.Equal(t, StatusSubmitting, c.Submit(context.Background()))
	}

	// Edits are not blocked by the in-flight request
	require.NoError(t, c.UpdateField(FieldMessage, "typing..."))

	close(stub.release)
	assert.Equal(t, StatusSuccess, <-done)
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, Values{}, c.State().Values)
}

func TestSecondSuccessRestartsTimer(t *testing.T) {
	stub := &apiStub{}
	c := newController(t, stub, 300*time.Millisecond)

	fill(t, c)
	require.Equal(t, StatusSuccess, c.Submit(context.Background()))

	time.Sleep(150 * time.Millisecond)
	fill(t, c)
	require.Equal(t, StatusSuccess, c.Submit(context.Background()))

	// The first timer would have fired by now; the second keeps success alive
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, StatusSuccess, c.State().Status)

	assert.Eventually(t, func() bool { return c.State().Status == StatusIdle }, time.Second, 5*time.Millisecond)
}

func TestCloseCancelsTimer(t *testing.T) {
	var changes atomic.Int32
	stub := &apiStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	c := New(Config{
		Endpoint:       srv.URL,
		SuccessDisplay: 30 * time.Millisecond,
		OnChange:       func(State) { changes.Add(1) },
	})
	fill(t, c)
	require.Equal(t, StatusSuccess, c.Submit(context.Background()))

	c.Close()
	before := changes.Load()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, changes.Load(), "no callback fires after Close")
	assert.Equal(t, StatusSuccess, c.State().Status)
}

func TestOnChangeSeesLifecycle(t *testing.T) {
	var mu sync.Mutex
	var seen []Status

	stub := &apiStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	c := New(Config{
		Endpoint:       srv.URL,
		SuccessDisplay: 20 * time.Millisecond,
		OnChange: func(st State) {
			mu.Lock()
			seen = append(seen, st.Status)
			mu.Unlock()
		},
	})
	defer c.Close()

	fill(t, c)
	c.Submit(context.Background())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == StatusIdle
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// three field edits, then submitting, success, idle
	assert.Equal(t, []Status{StatusIdle, StatusIdle, StatusIdle, StatusSubmitting, StatusSuccess, StatusIdle}, seen)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "submitting", StatusSubmitting.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
}
