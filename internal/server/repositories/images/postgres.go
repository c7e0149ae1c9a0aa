package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const imageColumns = `file_name, owner, original_file_name, original_file_size, content_type, file_size, upload_date, thumbnail_status`

func (r *PostgresRepository) Create(ctx context.Context, img *models.Image) error {
	query :=
		`INSERT INTO images (` + imageColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		img.FileName, img.Owner, img.OriginalFileName, img.OriginalFileSize,
		img.ContentType, img.FileSize, img.UploadDate, string(img.ThumbnailStatus))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(s rowScanner) (models.Image, error) {
	var (
		img    models.Image
		status string
	)
	err := s.Scan(&img.FileName, &img.Owner, &img.OriginalFileName, &img.OriginalFileSize,
		&img.ContentType, &img.FileSize, &img.UploadDate, &status)
	img.ThumbnailStatus = models.ThumbnailStatus(status)
	return img, err
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]models.Image, error) {
	query :=
		`SELECT ` + imageColumns + ` FROM images
		 WHERE owner = $1
		 ORDER BY upload_date, file_name`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Image, 0)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner, fileName string) (*models.Image, error) {
	query :=
		`SELECT ` + imageColumns + ` FROM images
		 WHERE owner = $1 AND file_name = $2`

	img, err := scanImage(r.db.QueryRowContext(ctx, query, owner, fileName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &img, nil
}

func (r *PostgresRepository) SetThumbnail(ctx context.Context, owner, fileName string, status models.ThumbnailStatus, size int64) error {
	query :=
		`UPDATE images SET thumbnail_status = $3, file_size = $4
		 WHERE owner = $1 AND file_name = $2`

	res, err := r.db.ExecContext(ctx, query, owner, fileName, string(status), size)
	return affectedOne(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, owner, fileName string) error {
	query := `DELETE FROM images WHERE owner = $1 AND file_name = $2`

	res, err := r.db.ExecContext(ctx, query, owner, fileName)
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return shared.ErrorNotFound
	}
	return nil
}
