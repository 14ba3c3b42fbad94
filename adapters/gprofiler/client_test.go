package gprofiler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_SendsQueryAndParsesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/gost/profile/", r.URL.Path)

		var body struct {
			Organism string   `json:"organism"`
			Query    []string `json:"query"`
			Sources  []string `json:"sources"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hsapiens", body.Organism)
		assert.Equal(t, []string{"TP53", "MYC"}, body.Query)
		assert.Equal(t, []string{"GO:BP", "KEGG"}, body.Sources)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[
			{"source":"GO:BP","native":"GO:0002376","name":"immune system process","p_value":1.2e-8,"term_size":2370,"intersection_size":42}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "hsapiens", []string{"GO:BP", "KEGG"}, 5*time.Second)
	terms, err := c.Profile(context.Background(), []string{"TP53", "MYC"})
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "GO:0002376", terms[0].TermID)
	assert.Equal(t, "immune system process", terms[0].Name)
	assert.InDelta(t, 1.2e-8, terms[0].PValue, 1e-12)
	assert.Equal(t, 42, terms[0].IntersectionSize)
}

func TestProfile_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "hsapiens", nil, time.Second)
	_, err := c.Profile(context.Background(), []string{"TP53"})
	require.Error(t, err)
}

func TestProfile_EmptyQueryRejectedLocally(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "hsapiens", nil, time.Second)
	_, err := c.Profile(context.Background(), nil)
	require.Error(t, err)
}
