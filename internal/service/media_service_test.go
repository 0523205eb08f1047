package service

import (
	"Mastosync/internal/model"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaServiceUpload(t *testing.T) {
	db := newTestDB(t)
	srv := newFakeTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m1","type":"image","url":"https://files/m1.png","preview_url":"https://files/m1s.png","description":"`+r.FormValue("description")+`"}`)
	})
	createActiveAccount(t, db, &model.Account{Domain: srv.host(t), AccessToken: "media-token"})
	svc := NewMediaService(newConnectionManager(t, db, srv))

	res, err := svc.Upload(context.Background(), "../../etc/cat.png", strings.NewReader("png"), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "m1", res.ID)
	assert.Equal(t, "a cat", res.Description)

	req := srv.last()
	assert.Equal(t, "/api/v2/media", req.URL.Path)
	assert.Equal(t, "Bearer media-token", req.Header.Get("Authorization"))
}

func TestMediaServiceUploadRejectsMissingFile(t *testing.T) {
	svc := NewMediaService(newConnectionManager(t, newTestDB(t), nil))
	_, err := svc.Upload(context.Background(), "x.png", nil, "")
	assert.ErrorIs(t, err, ErrFileNotExist)
}
