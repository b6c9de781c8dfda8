package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"mergington/internal/activity/models"
	"mergington/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.Require().NoError(s.store.Seed(s.ctx, Defaults()))
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestSeedAndList() {
	s.Run("lists every seeded activity", func() {
		activities, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(activities, len(Defaults()))

		byName := make(map[string]*models.Activity, len(activities))
		for _, a := range activities {
			byName[a.Name] = a
		}
		s.Contains(byName, "Soccer Team")
		s.Contains(byName, "Basketball Club")
		s.Contains(byName, "Art Club")
		s.Equal([]string{"liam@mergington.edu", "noah@mergington.edu"}, byName["Soccer Team"].Participants)
	})

	s.Run("re-seeding keeps mutated rosters", func() {
		s.Require().NoError(s.store.AddParticipant(s.ctx, "Chess Club", "new@mergington.edu"))
		s.Require().NoError(s.store.Seed(s.ctx, Defaults()))

		a, err := s.store.FindByName(s.ctx, "Chess Club")
		s.Require().NoError(err)
		s.True(a.HasParticipant("new@mergington.edu"))
	})

	s.Run("listed records are copies", func() {
		activities, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		for _, a := range activities {
			if a.Name == "Chess Club" {
				a.Participants = append(a.Participants, "intruder@mergington.edu")
			}
		}

		fresh, err := s.store.FindByName(s.ctx, "Chess Club")
		s.Require().NoError(err)
		s.False(fresh.HasParticipant("intruder@mergington.edu"))
	})
}

func (s *InMemoryStoreSuite) TestFindByName() {
	s.Run("finds seeded activity", func() {
		a, err := s.store.FindByName(s.ctx, "Drama Club")
		s.Require().NoError(err)
		s.Equal("Drama Club", a.Name)
		s.Equal(20, a.MaxParticipants)
	})

	s.Run("returns ErrNotFound for unknown name", func() {
		_, err := s.store.FindByName(s.ctx, "Knitting Circle")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestAddParticipant() {
	s.Run("appends in signup order", func() {
		s.Require().NoError(s.store.AddParticipant(s.ctx, "Math Club", "zoe@mergington.edu"))
		s.Require().NoError(s.store.AddParticipant(s.ctx, "Math Club", "adam@mergington.edu"))

		a, err := s.store.FindByName(s.ctx, "Math Club")
		s.Require().NoError(err)
		s.Equal([]string{
			"james@mergington.edu", "benjamin@mergington.edu",
			"zoe@mergington.edu", "adam@mergington.edu",
		}, a.Participants)
	})

	s.Run("rejects duplicate email", func() {
		err := s.store.AddParticipant(s.ctx, "Soccer Team", "liam@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("rejects unknown activity", func() {
		err := s.store.AddParticipant(s.ctx, "Knitting Circle", "zoe@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("same email may join several activities", func() {
		s.Require().NoError(s.store.AddParticipant(s.ctx, "Chess Club", "multi@mergington.edu"))
		s.Require().NoError(s.store.AddParticipant(s.ctx, "Debate Team", "multi@mergington.edu"))
	})
}

func (s *InMemoryStoreSuite) TestRemoveParticipant() {
	s.Run("removes a present email", func() {
		s.Require().NoError(s.store.RemoveParticipant(s.ctx, "Soccer Team", "liam@mergington.edu"))

		a, err := s.store.FindByName(s.ctx, "Soccer Team")
		s.Require().NoError(err)
		s.False(a.HasParticipant("liam@mergington.edu"))
		s.Equal([]string{"noah@mergington.edu"}, a.Participants)
	})

	s.Run("returns ErrInvalidState for absent email", func() {
		err := s.store.RemoveParticipant(s.ctx, "Soccer Team", "ghost@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("returns ErrNotFound for unknown activity", func() {
		err := s.store.RemoveParticipant(s.ctx, "Knitting Circle", "liam@mergington.edu")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejoin after removal works", func() {
		s.Require().NoError(s.store.AddParticipant(s.ctx, "Art Club", "rejoin@mergington.edu"))
		s.Require().NoError(s.store.RemoveParticipant(s.ctx, "Art Club", "rejoin@mergington.edu"))
		s.Require().NoError(s.store.AddParticipant(s.ctx, "Art Club", "rejoin@mergington.edu"))

		a, err := s.store.FindByName(s.ctx, "Art Club")
		s.Require().NoError(err)
		s.True(a.HasParticipant("rejoin@mergington.edu"))
	})
}
