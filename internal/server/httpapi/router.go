package httpapi

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/blobs"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Register(ctx context.Context, userName, password string) (string, error)
	Login(ctx context.Context, userName, password string) (string, error)
}

type Authenticator interface {
	Authenticate(token string) (string, error)
}

type ImageService interface {
	Upload(ctx context.Context, owner, originalName string, data []byte) (*models.Image, error)
	List(ctx context.Context, owner string) ([]models.Image, error)
	Download(ctx context.Context, owner, fileName, folder string) (*models.Image, blobs.Blob, error)
	Delete(ctx context.Context, owner, fileName string) error
}

type handlers struct {
	accounts      AccountService
	images        ImageService
	logger        logging.Logger
	maxUploadSize int64
}

func newEngine(l logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(l))
	return r
}

// NewAccountRouter serves /auth/login and /auth/registry.
func NewAccountRouter(accounts AccountService, l logging.Logger) *gin.Engine {
	h := &handlers{accounts: accounts, logger: l}

	r := newEngine(l)
	g := r.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/registry", h.register)
	return r
}

// NewImageRouter serves the /images endpoints, all behind bearer auth.
func NewImageRouter(images ImageService, a Authenticator, maxUploadSize int64, l logging.Logger) *gin.Engine {
	h := &handlers{images: images, logger: l, maxUploadSize: maxUploadSize}

	r := newEngine(l)
	g := r.Group("/images", authRequired(a))
	g.GET("/list", h.list)
	g.POST("/upload", h.upload)
	g.POST("/download", h.download)
	g.DELETE("/delete/:fileName", h.delete)
	return r
}
