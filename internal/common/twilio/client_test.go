package twilio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpclient "flight-deals/internal/common/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "auth-token", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Cheap flight", r.PostForm.Get("Body"))
		assert.Equal(t, "+18440000000", r.PostForm.Get("From"))
		assert.Equal(t, "+15100000000", r.PostForm.Get("To"))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM42","status":"queued","to":"+15100000000","from":"+18440000000","error_code":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "AC123", "auth-token", 2*time.Second)
	msg, err := client.SendMessage(context.Background(), "Cheap flight", "+18440000000", "+15100000000")

	require.NoError(t, err)
	assert.Equal(t, "SM42", msg.SID)
	assert.Equal(t, "queued", msg.Status)
	assert.Nil(t, msg.ErrorCode)
}

func TestClient_SendMessage_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "AC123", "auth-token", 2*time.Second)
	msg, err := client.SendMessage(context.Background(), "hi", "+1", "bogus")

	assert.Nil(t, msg)
	var statusErr *httpclient.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}
