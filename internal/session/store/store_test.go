package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"teamsort/internal/domain"
	"teamsort/internal/session/models"
	id "teamsort/pkg/domain"
	"teamsort/pkg/platform/sentinel"
)

type snapshotBackend interface {
	Save(ctx context.Context, snapshot *models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
	Close() error
}

// SnapshotStoreSuite runs the same contract against every backend.
type SnapshotStoreSuite struct {
	suite.Suite
	newStore func() snapshotBackend
	store    snapshotBackend
	ctx      context.Context
}

func (s *SnapshotStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *SnapshotStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func TestInMemorySnapshotStore(t *testing.T) {
	suite.Run(t, &SnapshotStoreSuite{newStore: func() snapshotBackend {
		return NewInMemoryStore()
	}})
}

func TestSQLiteSnapshotStore(t *testing.T) {
	suite.Run(t, &SnapshotStoreSuite{newStore: func() snapshotBackend {
		st, err := OpenSQLite(context.Background(), ":memory:", WithKeyPrefix("test:"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return st
	}})
}

func sampleSnapshot() *models.Snapshot {
	alice := domain.Identity{
		ID:                id.NewIdentityID(),
		Name:              "Alice",
		PrimaryCategory:   domain.CategoryIT,
		SecondaryCategory: domain.CategoryMedia,
		Trait:             domain.TraitD,
		Scores:            domain.Scores{D: 20, I: 10, S: 8, C: 5},
	}
	bob := domain.Identity{
		ID:                id.NewIdentityID(),
		Name:              "Bob",
		PrimaryCategory:   domain.CategoryHealthcare,
		SecondaryCategory: domain.CategoryOther,
		Trait:             domain.TraitS,
		Scores:            domain.Scores{D: 5, I: 9, S: 21, C: 7},
	}
	groups := domain.NewEmptyPartition(2)
	groups[0].Members = append(groups[0].Members, alice)
	groups[1].Members = append(groups[1].Members, bob)
	return &models.Snapshot{
		Groups:      groups,
		Roster:      []domain.Identity{alice, bob},
		FinalizedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *SnapshotStoreSuite) TestLoadBeforeSave() {
	_, err := s.store.Load(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SnapshotStoreSuite) TestSaveAndLoad() {
	snap := sampleSnapshot()
	s.Require().NoError(s.store.Save(s.ctx, snap))

	loaded, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(snap.Roster, loaded.Roster)
	s.Equal(snap.Groups, loaded.Groups)
}

func (s *SnapshotStoreSuite) TestSaveOverwrites() {
	first := sampleSnapshot()
	s.Require().NoError(s.store.Save(s.ctx, first))

	second := sampleSnapshot()
	second.Roster = second.Roster[:1]
	second.Groups[1].Members = []domain.Identity{}
	s.Require().NoError(s.store.Save(s.ctx, second))

	loaded, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Len(loaded.Roster, 1)
	s.Equal([]int{1, 0}, loaded.Groups.Sizes())
}

func TestInMemoryStoreUsesFixedKeys(t *testing.T) {
	st := NewInMemoryStore(WithKeyPrefix("teamsort:"))
	if err := st.Save(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, key := range []string{"teamsort:finalized_groups", "teamsort:finalized_roster"} {
		if _, ok := st.Get(key); !ok {
			t.Errorf("expected key %q to be written", key)
		}
	}
}
