package survey

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try again", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("id,q\ncode,code\n1,Agree\n"))
	}))
	defer srv.Close()

	body, err := Fetch(srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Agree")
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestFetchClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Fetch(srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
