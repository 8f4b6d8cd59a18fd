package data

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketlist/pocketlist/internal/gateway/gatewaymock"
	"github.com/pocketlist/pocketlist/internal/models"
)

func TestAddMutationApplyLocally(t *testing.T) {
	m := NewAddMutation(nil, models.Item{Name: "new"})

	current := []models.Item{{ID: "1", Name: "old"}}
	got := m.ApplyLocally(current)

	assert.Equal(t, []models.Item{{ID: "1", Name: "old"}, {Name: "new"}}, got)
}

func TestAddMutationApplyRemotely(t *testing.T) {
	d := gatewaymock.NewMockData(gomock.NewController(t))
	d.EXPECT().Create(gomock.Any(), models.Item{Name: "new"}).Return(models.Item{ID: "5", Name: "new"}, nil)

	m := NewAddMutation(d, models.Item{Name: "new"})
	require.NoError(t, m.ApplyRemotely(context.Background()))
	assert.Equal(t, "5", m.Created().ID)
	assert.False(t, m.Failed())

	assert.True(t, m.IsReflectedIn([]models.Item{{ID: "5", Name: "renamed"}}))
	assert.False(t, m.IsReflectedIn([]models.Item{{ID: "6", Name: "new"}}))
}

func TestAddMutationApplyRemotelyError(t *testing.T) {
	d := gatewaymock.NewMockData(gomock.NewController(t))
	boom := errors.New("nope")
	d.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Item{}, boom)

	m := NewAddMutation(d, models.Item{Name: "new"})
	err := m.ApplyRemotely(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "create todo")
	assert.Empty(t, m.Created().ID)
	assert.True(t, m.Failed())
}

func TestAddMutationIsReflectedInByContentBeforeCreate(t *testing.T) {
	m := NewAddMutation(nil, models.Item{Name: "a", Description: "b"})
	assert.True(t, m.IsReflectedIn([]models.Item{{ID: "1", Name: "a", Description: "b"}}))
	assert.False(t, m.IsReflectedIn([]models.Item{{ID: "1", Name: "a"}}))
}
