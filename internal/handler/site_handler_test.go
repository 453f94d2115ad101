package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/octobees/servicefinder/internal/entity"
)

func TestSiteHandler_BasicInfo(t *testing.T) {
	tests := map[string]struct {
		info   *entity.BasicInfo
		err    error
		status int
	}{
		"live row":    {info: &entity.BasicInfo{ID: uuid.New(), SiteName: "Guia de Serviços", IsLive: true}, status: http.StatusOK},
		"no live row": {status: http.StatusNotFound},
		"db failure":  {err: errors.New("connection refused"), status: http.StatusInternalServerError},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := newFakeDirectory()
			dir.info = tc.info
			dir.err = tc.err
			h := NewSiteHandler(newTestServices(dir).site)

			rec, payload := serve(t, h.BasicInfo, http.MethodGet, "/api/basic-info", "")
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.info == nil {
				return
			}
			var body entity.BasicInfo
			decodeData(t, payload, &body)
			if body.SiteName != tc.info.SiteName {
				t.Fatalf("unexpected site name %q", body.SiteName)
			}
		})
	}
}
