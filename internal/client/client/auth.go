package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/registry"
)

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	return c.authenticate(ctx, loginPath, creds)
}

func (c *HTTPClient) Register(ctx context.Context, creds models.Credentials) (models.Session, error) {
	return c.authenticate(ctx, registerPath, creds)
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, creds models.Credentials) (models.Session, error) {
	raw, err := c.Request(ctx, http.MethodPost, path, creds, "")
	if err != nil {
		return models.Session{}, err
	}

	var sess models.Session
	if err := decodeInto(raw, &sess, "auth response"); err != nil {
		return models.Session{}, err
	}
	if !sess.Valid() {
		return models.Session{}, &MalformedResponseError{StatusCode: http.StatusOK, Detail: "auth response lacks userName or token"}
	}
	return sess, nil
}
