package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/platform"
)

func TestSyncFriendsBeforeGroupsSourceOrder(t *testing.T) {
	cli := newFakeClient()
	cli.friends = []platform.Friend{
		{UserID: "u1", DisplayName: "Alice"},
		{UserID: "u2", DisplayName: "Bob"},
	}
	cli.groups = []string{"g1", "g2"}
	cli.infos = map[string]platform.GroupInfo{
		"g1": {GroupID: "g1", Name: "Team A", TotalMember: 5},
		"g2": {GroupID: "g2", Name: "Team B", TotalMember: 9},
	}

	store := NewStore()
	list, err := NewSyncer(store, true).Sync(context.Background(), cli)
	assert.NoError(t, err)
	assert.Len(t, list, 4)
	assert.Equal(t, []string{"u1", "u2", "g1", "g2"},
		[]string{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
	assert.Equal(t, domain.ChatKindUser, list[0].Type)
	assert.Equal(t, domain.ChatKindGroup, list[2].Type)
	assert.Equal(t, 5, list[2].MemberCount)
	assert.Equal(t, list, store.Roster())
}

func TestSyncNameFallbacks(t *testing.T) {
	cli := newFakeClient()
	cli.friends = []platform.Friend{
		{UserID: "u1", ZaloName: "zalo-alias"},
		{UserID: "u2"},
	}
	cli.groups = []string{"g1"}
	cli.infos = map[string]platform.GroupInfo{
		"g1": {GroupID: "g1", FullAvatar: "full.png"},
	}

	list, err := NewSyncer(NewStore(), true).Sync(context.Background(), cli)
	assert.NoError(t, err)
	assert.Equal(t, "zalo-alias", list[0].Name)
	assert.Equal(t, "Unknown Friend", list[1].Name)
	assert.Equal(t, "Unknown Group", list[2].Name)
	assert.Equal(t, "full.png", list[2].Avatar)
	assert.NotZero(t, list[0].Timestamp)
}

func TestSyncBatchPolicyAllOrNothing(t *testing.T) {
	cli := newFakeClient()
	cli.friends = []platform.Friend{{UserID: "u1", DisplayName: "Alice"}}
	cli.groups = []string{"g1", "g2"}
	cli.infoErr = assert.AnError

	list, err := NewSyncer(NewStore(), true).Sync(context.Background(), cli)
	assert.NoError(t, err)
	// groups dropped wholesale, friends survive
	assert.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].ID)
}

func TestSyncIndividualPolicySkipsFailures(t *testing.T) {
	cli := newFakeClient()
	cli.groups = []string{"g1", "gone", "g2"}
	cli.infos = map[string]platform.GroupInfo{
		"g1": {GroupID: "g1", Name: "Team A"},
		"g2": {GroupID: "g2", Name: "Team B"},
	}

	list, err := NewSyncer(NewStore(), false).Sync(context.Background(), cli)
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "g1", list[0].ID)
	assert.Equal(t, "g2", list[1].ID)
}

func TestSyncRosterSwappedWholesale(t *testing.T) {
	store := NewStore()
	store.ReplaceRoster([]domain.ChatEntity{{ID: "stale", Name: "Old"}})

	cli := newFakeClient()
	cli.friends = []platform.Friend{{UserID: "u1", DisplayName: "Alice"}}

	_, err := NewSyncer(store, true).Sync(context.Background(), cli)
	assert.NoError(t, err)

	roster := store.Roster()
	assert.Len(t, roster, 1)
	assert.Equal(t, "u1", roster[0].ID)
}
