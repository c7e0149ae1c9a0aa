package images

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var columns = []string{"file_name", "owner", "original_file_name", "original_file_size",
	"content_type", "file_size", "upload_date", "thumbnail_status"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	when := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+images\s*\(file_name,.*thumbnail_status\)\s*VALUES\s*\(\$1,.*\$8\)$`).
		WithArgs("f1.jpg", "alice", "cat.jpg", int64(10), "image/jpeg", int64(0), when, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Image{
		FileName: "f1.jpg", Owner: "alice", OriginalFileName: "cat.jpg", OriginalFileSize: 10,
		ContentType: "image/jpeg", UploadDate: when, ThumbnailStatus: models.ThumbnailPending,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+images`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Image{FileName: "f"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	when := time.Now().UTC()
	rows := sqlmock.NewRows(columns).
		AddRow("a.jpg", "alice", "cat.jpg", int64(10), "image/jpeg", int64(0), when, "pending").
		AddRow("b.png", "alice", "dog.png", int64(20), "image/png", int64(5), when, "completed")
	mock.ExpectQuery(`(?s)^SELECT\s+file_name,.*FROM\s+images\s+WHERE\s+owner\s*=\s*\$1\s+ORDER\s+BY\s+upload_date,\s*file_name$`).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].FileName != "a.jpg" || got[1].ThumbnailStatus != models.ThumbnailCompleted {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestListByOwner_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("bob").WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListByOwner(context.Background(), "bob")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListByOwner_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("a.jpg", "alice", "cat.jpg", int64(10), "image/jpeg", int64(0), time.Now(), "pending").
		RowError(0, errors.New("boom"))
	mock.ExpectQuery(`SELECT`).WithArgs("alice").WillReturnRows(rows)

	if _, err := repo.ListByOwner(context.Background(), "alice"); err == nil {
		t.Fatalf("expected row error")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.*WHERE\s+owner\s*=\s*\$1\s+AND\s+file_name\s*=\s*\$2$`).
		WithArgs("alice", "zzz").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "alice", "zzz")
	if !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("want shared.ErrorNotFound, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("a.jpg", "alice", "cat.jpg", int64(10), "image/jpeg", int64(3), time.Now(), "completed")
	mock.ExpectQuery(`SELECT`).WithArgs("alice", "a.jpg").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "alice", "a.jpg")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.OriginalFileName != "cat.jpg" || got.FileSize != 3 {
		t.Fatalf("unexpected image: %+v", got)
	}
}

func TestSetThumbnail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+images\s+SET\s+thumbnail_status\s*=\s*\$3,\s*file_size\s*=\s*\$4\s+WHERE\s+owner\s*=\s*\$1\s+AND\s+file_name\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs("alice", "a.jpg", "completed", int64(99)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("alice", "gone.jpg", "completed", int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetThumbnail(context.Background(), "alice", "a.jpg", models.ThumbnailCompleted, 99); err != nil {
		t.Fatalf("SetThumbnail error: %v", err)
	}
	err := repo.SetThumbnail(context.Background(), "alice", "gone.jpg", models.ThumbnailCompleted, 1)
	if !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("want shared.ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+images\s+WHERE\s+owner\s*=\s*\$1\s+AND\s+file_name\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs("alice", "a.jpg").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("alice", "a.jpg").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs("alice", "b.jpg").WillReturnError(errors.New("db err"))

	if err := repo.Delete(context.Background(), "alice", "a.jpg"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), "alice", "a.jpg"); !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("want shared.ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "alice", "b.jpg"); err == nil {
		t.Fatalf("expected db error")
	}
}
