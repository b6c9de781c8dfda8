//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"mergington/internal/activity/store"
	"mergington/internal/platform/postgres"
	"mergington/pkg/platform/sentinel"
	"mergington/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())

	// Connect applies the schema on top of the raw container pool.
	pool, err := postgres.Connect(context.Background(), s.postgres.ConnStr)
	s.Require().NoError(err)
	s.T().Cleanup(pool.Close)

	s.store = store.NewPostgres(pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "participants", "activities"))
	s.Require().NoError(s.store.Seed(ctx, store.Defaults()))
}

func (s *PostgresStoreSuite) TestSeedIsIdempotent() {
	ctx := context.Background()

	s.Require().NoError(s.store.AddParticipant(ctx, "Chess Club", "new@mergington.edu"))
	s.Require().NoError(s.store.Seed(ctx, store.Defaults()))

	a, err := s.store.FindByName(ctx, "Chess Club")
	s.Require().NoError(err)
	s.True(a.HasParticipant("new@mergington.edu"), "re-seeding must not reset rosters")
}

func (s *PostgresStoreSuite) TestListReturnsRostersInSignupOrder() {
	ctx := context.Background()

	s.Require().NoError(s.store.AddParticipant(ctx, "Math Club", "zoe@mergington.edu"))
	s.Require().NoError(s.store.AddParticipant(ctx, "Math Club", "adam@mergington.edu"))

	activities, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(activities, len(store.Defaults()))

	for _, a := range activities {
		if a.Name == "Math Club" {
			s.Equal([]string{
				"james@mergington.edu", "benjamin@mergington.edu",
				"zoe@mergington.edu", "adam@mergington.edu",
			}, a.Participants)
			return
		}
	}
	s.Fail("Math Club missing from listing")
}

func (s *PostgresStoreSuite) TestMembershipSentinels() {
	ctx := context.Background()

	s.Run("duplicate signup", func() {
		err := s.store.AddParticipant(ctx, "Soccer Team", "liam@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("unknown activity on add", func() {
		err := s.store.AddParticipant(ctx, "Knitting Circle", "zoe@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("absent email on remove", func() {
		err := s.store.RemoveParticipant(ctx, "Soccer Team", "ghost@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown activity on remove", func() {
		err := s.store.RemoveParticipant(ctx, "Knitting Circle", "liam@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown activity on find", func() {
		_, err := s.store.FindByName(ctx, "Knitting Circle")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestRemoveThenRejoin() {
	ctx := context.Background()

	s.Require().NoError(s.store.RemoveParticipant(ctx, "Soccer Team", "liam@mergington.edu"))
	s.Require().NoError(s.store.AddParticipant(ctx, "Soccer Team", "liam@mergington.edu"))

	a, err := s.store.FindByName(ctx, "Soccer Team")
	s.Require().NoError(err)
	// Rejoin lands at the end of the roster.
	s.Equal([]string{"noah@mergington.edu", "liam@mergington.edu"}, a.Participants)
}
