package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songfinder/internal/catalog"
)

func TestListActiveDecodesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/songs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"CODIGO": 12, "CANTOR": "Cartola", "song_title": "Alvorada", "lyric_start": "Alvorada lá no morro", "GENERO": "Samba", "ATIVO": "S"},
			{"CODIGO": "13", "CANTOR": "<b>Djavan</b>", "song_title": "Flor de Lis", "lyric_start": null, "GENERO": null, "ATIVO": "N"}
		]`))
	}))
	defer srv.Close()

	songs, err := New(srv.URL, nil).ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, songs, 2)
	require.Equal(t, "12", songs[0].Code)
	require.Equal(t, "Samba", songs[0].GenreValue())
	require.True(t, songs[0].Active)

	require.Equal(t, "13", songs[1].Code)
	require.Equal(t, "&lt;b&gt;Djavan&lt;/b&gt;", songs[1].Interpreter)
	require.Nil(t, songs[1].Genre)
	require.Nil(t, songs[1].LyricStart)
	require.False(t, songs[1].Active)
}

func TestSearchSendsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/songs/search", r.URL.Path)
		assert.Equal(t, "rosa azul", r.URL.Query().Get("q"))
		assert.Equal(t, "MPB,Samba", r.URL.Query().Get("genres"))
		_, _ = w.Write([]byte(`[{"CODIGO": 7, "CANTOR": "Cartola", "song_title": "As Rosas Não Falam", "lyric_start": null, "GENERO": "Samba"}]`))
	}))
	defer srv.Close()

	songs, err := New(srv.URL+"/", nil).Search(context.Background(), catalog.NewFilter("rosa azul", []string{"Samba", "MPB"}))

	require.NoError(t, err)
	require.Len(t, songs, 1)
	require.True(t, songs[0].Active, "search rows carry no ATIVO and are active")
}

func TestSearchOmitsEmptyParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	songs, err := New(srv.URL, nil).Search(context.Background(), catalog.Filter{})

	require.NoError(t, err)
	require.Empty(t, songs)
}

func TestServerErrorIsQueryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Erro na busca"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Search(context.Background(), catalog.NewFilter("x", nil))

	require.ErrorIs(t, err, catalog.ErrQueryFailure)
	require.Contains(t, err.Error(), "Erro na busca")
}

func TestTimeoutIsQueryFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, &http.Client{Timeout: 20 * time.Millisecond})
	_, err := c.ListActive(context.Background())

	require.ErrorIs(t, err, catalog.ErrQueryFailure)
}

func TestUnreachableServerIsQueryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).ListActive(context.Background())

	require.True(t, errors.Is(err, catalog.ErrQueryFailure))
}

func TestMalformedBodyIsQueryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).ListActive(context.Background())

	require.ErrorIs(t, err, catalog.ErrQueryFailure)
}
