package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/domain"
)

func TestCreatePledge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)

	_, err := f.pledges.CreatePledge(ctx, c.ID, uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPledge)

	_, err = f.pledges.CreatePledge(ctx, uuid.New(), uuid.New(), 5)
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)

	p := f.pledge(t, c.ID, 7, true)
	total, err := f.pledges.CalculateTotalCommittedPledges(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = f.pledges.CommitPledge(ctx, p.ID)
	require.NoError(t, err)
	total, err = f.pledges.CalculateTotalCommittedPledges(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)

	_, err = f.pledges.CommitPledge(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = f.pledges.CommitPledge(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPledgeNotFound)
}

func TestClosedCampaignRejectsPledges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)
	pending := f.pledge(t, c.ID, 4, true)
	_, err := f.campaigns.CancelCampaign(ctx, c.ID)
	require.NoError(t, err)

	_, err = f.pledges.CreatePledge(ctx, c.ID, uuid.New(), 5)
	assert.ErrorIs(t, err, domain.ErrIllegalState)

	_, err = f.pledges.CommitPledge(ctx, pending.ID)
	assert.Error(t, err)
}

func TestBracketQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)
	f.pledge(t, c.ID, 30, false)
	f.pledge(t, c.ID, 25, false)
	brackets := f.campaigns.Brackets

	minQty, ok, err := brackets.FindFirstBracketMinQuantity(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(10), minQty)

	current, err := brackets.GetCurrentBracket(ctx, c.ID, 55)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 1, current.BracketOrder)

	none, err := brackets.GetCurrentBracket(ctx, c.ID, 3)
	require.NoError(t, err)
	assert.Nil(t, none)

	progress, err := brackets.GetBracketProgress(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(55), progress.TotalCommitted)
	assert.True(t, progress.MinimumMet)
	assert.Nil(t, progress.Next)

	_, ok, err = brackets.FindFirstBracketMinQuantity(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
