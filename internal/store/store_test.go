package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/engine"
	"github.com/credmatch/credmatch/pkg/matcher"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, zerolog.Nop()), mock
}

func TestInitSchema(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS credentials").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS saved_queries").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpsertCredential(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credentials")).
		WithArgs("cred-1", credential.KindUsernamePassword, "GLOBAL", "alice", "pw", []byte(`{"active":true}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := credential.NewUsernamePassword("cred-1", credential.ScopeGlobal, "alice", "pw", true)
	if err := s.UpsertCredential(context.Background(), c); err != nil {
		t.Fatalf("UpsertCredential: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListCredentialsRehydrates(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"id", "kind", "scope", "username", "secret", "properties"}).
		AddRow("cred-1", credential.KindUsernamePassword, "GLOBAL", "alice", "pw", []byte(`{"active":true}`)).
		AddRow("tok-1", credential.KindSecretToken, "SYSTEM", "", "s3cr3t", []byte(`{}`)).
		AddRow("bad-1", "carrierPigeon", "GLOBAL", "", "", []byte(`{}`))
	mock.ExpectQuery("SELECT id, kind, scope, username, secret, properties FROM credentials").WillReturnRows(rows)

	got, err := s.ListCredentials(context.Background())
	if err != nil {
		t.Fatalf("ListCredentials: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 credentials (unknown kind skipped), got %d", len(got))
	}

	up, ok := got[0].(*credential.UsernamePassword)
	if !ok || up.Username() != "alice" || !up.Active() {
		t.Fatalf("bad rehydration: %#v", got[0])
	}
	if _, ok := got[1].(*credential.SecretToken); !ok {
		t.Fatalf("want SecretToken, got %#v", got[1])
	}
}

func TestSaveQueriesSkipsNonDescribable(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_queries")).
		WithArgs("f-ok", "good", `(username == "alice")`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	filters := []engine.Filter{
		engine.NewFilter("f-ok", "good", matcher.WithUsername("alice")),
		engine.NewFilter("f-opaque", "bad", matcher.WithProperty("blob", struct{}{})),
	}
	saved, skipped, err := s.SaveQueries(context.Background(), filters)
	if err != nil {
		t.Fatalf("SaveQueries: %v", err)
	}
	if saved != 1 || skipped != 1 {
		t.Fatalf("want saved=1 skipped=1, got %d/%d", saved, skipped)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListSavedQueries(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"filter_id", "title", "cql", "updated_at"}).
		AddRow("f-1", "t", `(id == "x")`, now)
	mock.ExpectQuery("SELECT filter_id, title, cql, updated_at FROM saved_queries").WillReturnRows(rows)

	got, err := s.ListSavedQueries(context.Background())
	if err != nil {
		t.Fatalf("ListSavedQueries: %v", err)
	}
	if len(got) != 1 || got[0].CQL != `(id == "x")` {
		t.Fatalf("bad result: %#v", got)
	}
}
