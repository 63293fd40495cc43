package api

import (
	"context"
	"net/http"

	"github.com/hpungsan/folio/internal/cv"
)

// mainMarker is the fixed discriminator the backend expects on CV writes.
const mainMarker = "main"

// CVClient reads and replaces the single CV document.
type CVClient struct {
	c *Client
}

type cvWrite struct {
	cv.Document
	Main string `json:"main"`
}

// Get returns the stored CV as sent by the backend, without normalization.
func (v *CVClient) Get(ctx context.Context) (*cv.Document, error) {
	var d cv.Document
	if err := v.c.do(ctx, public, http.MethodGet, "/cv", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update replaces the stored CV in full.
func (v *CVClient) Update(ctx context.Context, d cv.Document) (*cv.Document, error) {
	var out cv.Document
	body := cvWrite{Document: d, Main: mainMarker}
	if err := v.c.do(ctx, protected, http.MethodPut, "/cv", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var (
	_ cv.Source = (*CVClient)(nil)
	_ cv.Sink   = (*CVClient)(nil)
)
