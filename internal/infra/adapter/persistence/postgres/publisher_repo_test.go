package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/infra/adapter/persistence/postgres"
	"citygram-orlando/internal/repository"
)

/* ──────────────────────────────── helpers ──────────────────────────────── */

var columns = []string{
	"id", "title", "endpoint", "active", "visible",
	"city", "state", "icon", "description", "tags", "created_at",
}

func opdReports(id int64, description string, createdAt time.Time) *entity.Publisher {
	return &entity.Publisher{
		ID:          id,
		Title:       "OPD Reports",
		Endpoint:    "http://orlando-citygram-api.azurewebsites.net/?service=police",
		Active:      true,
		Visible:     true,
		City:        "Orlando",
		State:       "FL",
		Icon:        "police-incidents.png",
		Description: description,
		Tags:        []string{"orlando", "orl", "crime", "police"},
		CreatedAt:   createdAt,
	}
}

func addRow(rows *sqlmock.Rows, p *entity.Publisher, tagsJSON string) *sqlmock.Rows {
	return rows.AddRow(
		p.ID, p.Title, p.Endpoint, p.Active, p.Visible,
		p.City, p.State, p.Icon, p.Description, []byte(tagsJSON), p.CreatedAt,
	)
}

/* ──────────────────────────────── 1. Get ──────────────────────────────── */

func TestPublisherRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	want := opdReports(1, "Orlando police incident reports.", now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(1)).
		WillReturnRows(addRow(sqlmock.NewRows(columns), want, `["orlando","orl","crime","police"]`))

	repo := postgres.NewPublisherRepo(db)
	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPublisherRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM publishers`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(columns))

	repo := postgres.NewPublisherRepo(db)
	got, err := repo.Get(context.Background(), 42)
	if err != nil || got != nil {
		t.Fatalf("want nil,nil got %v,%v", got, err)
	}
}

/* ──────────────────────────────── 2. List ──────────────────────────────── */

func TestPublisherRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	rows := sqlmock.NewRows(columns)
	addRow(rows, opdReports(1, "first", now), `["orlando"]`)
	addRow(rows, opdReports(2, "second", now), `[]`)
	mock.ExpectQuery(`FROM publishers`).WillReturnRows(rows)

	repo := postgres.NewPublisherRepo(db)
	got, err := repo.List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("want distinct ids, got %d twice", got[0].ID)
	}
	if len(got[1].Tags) != 0 || got[1].Tags == nil {
		t.Fatalf("want empty non-nil tags, got %#v", got[1].Tags)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPublisherRepo_ListActive(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE active = TRUE`)).
		WillReturnRows(sqlmock.NewRows(columns)) // empty set OK

	repo := postgres.NewPublisherRepo(db)
	if _, err := repo.ListActive(context.Background()); err != nil {
		t.Fatalf("ListActive err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPublisherRepo_List_BadTags(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM publishers`).
		WillReturnRows(addRow(sqlmock.NewRows(columns), opdReports(1, "x", time.Now()), `{not json`))

	repo := postgres.NewPublisherRepo(db)
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("want unmarshal error, got nil")
	}
}

/* ──────────────────────────────── 3. Create ──────────────────────────────── */

func TestPublisherRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	createdAt := time.Date(2016, 5, 16, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO publishers`)).
		WithArgs("OPD Reports", "http://orlando-citygram-api.azurewebsites.net/?service=police",
			true, true, "Orlando", "FL", "police-incidents.png", "desc",
			`["orlando","orl","crime","police"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))

	p := opdReports(0, "desc", time.Time{})
	repo := postgres.NewPublisherRepo(db)
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if p.ID != 7 || !p.CreatedAt.Equal(createdAt) {
		t.Fatalf("identity not assigned: id=%d created_at=%v", p.ID, p.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPublisherRepo_Create_EmptyTags(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO publishers`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), `[]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	p := opdReports(0, "desc", time.Time{})
	p.Tags = nil
	if err := postgres.NewPublisherRepo(db).Create(context.Background(), p); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 4. WithinTx ──────────────────────────────── */

func TestTransactor_Commit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO publishers`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO publishers`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), time.Now()))
	mock.ExpectCommit()

	tx := postgres.NewTransactor(db)
	err := tx.WithinTx(context.Background(), func(repo repository.PublisherRepository) error {
		if err := repo.Create(context.Background(), opdReports(0, "a", time.Time{})); err != nil {
			return err
		}
		return repo.Create(context.Background(), opdReports(0, "b", time.Time{}))
	})
	if err != nil {
		t.Fatalf("WithinTx err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTransactor_Rollback(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO publishers`)).WillReturnError(boom)
	mock.ExpectRollback()

	tx := postgres.NewTransactor(db)
	err := tx.WithinTx(context.Background(), func(repo repository.PublisherRepository) error {
		return repo.Create(context.Background(), opdReports(0, "a", time.Time{}))
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
