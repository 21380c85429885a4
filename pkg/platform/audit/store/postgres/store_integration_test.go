//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	audit "domainpanel/pkg/platform/audit"
	"domainpanel/pkg/testutil/containers"
)

type StoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = New(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *StoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE audit_events`)
	s.Require().NoError(err)
}

func (s *StoreSuite) TestAppendAndList() {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base,
		Action:    audit.ActionDomainNoteChanged,
		Subject:   "example.com",
		UserID:    "1001",
		Decision:  audit.DecisionSucceeded,
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base.Add(time.Minute),
		Action:    audit.ActionDomainPushed,
		Subject:   "example.com",
		UserID:    "1001",
		ClientIP:  "192.0.2.1",
	}))

	events, err := s.store.ListBySubject(ctx, "example.com")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionDomainPushed, events[0].Action)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.Equal("192.0.2.1", events[0].ClientIP)
	s.Equal(audit.CategoryOperations, events[1].Category)
}

func (s *StoreSuite) TestAppendIsIdempotentOnID() {
	ctx := context.Background()
	event := audit.Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionDomainSynced,
		Subject:   "example.net",
	}

	s.Require().NoError(s.store.Append(ctx, event))
	s.Require().NoError(s.store.Append(ctx, event))

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Len(events, 1)
}
