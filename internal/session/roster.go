package session

import (
	"context"
	"time"

	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/platform"
	"go.uber.org/zap"
)

// Syncer rebuilds the recipient roster from the platform: friends first, then
// groups, source order preserved within each kind. The roster is swapped in
// atomically; readers never observe a partial list.
type Syncer struct {
	store *Store
	// batch resolves all group metadata in one call (all-or-nothing) instead
	// of per-group calls that skip individual failures
	batch bool
}

func NewSyncer(store *Store, batch bool) *Syncer {
	return &Syncer{store: store, batch: batch}
}

func (s *Syncer) Sync(ctx context.Context, cli platform.Client) ([]domain.ChatEntity, error) {
	friends, err := cli.GetAllFriends(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]domain.ChatEntity, 0, len(friends))
	for _, fr := range friends {
		list = append(list, entityFromFriend(fr))
	}

	groupIDs, err := cli.GetAllGroups(ctx)
	if err != nil {
		return nil, err
	}
	list = append(list, s.resolveGroups(ctx, cli, groupIDs)...)

	s.store.ReplaceRoster(list)
	zap.L().Info("roster: synced", zap.Int("friends", len(friends)), zap.Int("total", len(list)))
	return list, nil
}

func (s *Syncer) resolveGroups(ctx context.Context, cli platform.Client, groupIDs []string) []domain.ChatEntity {
	if len(groupIDs) == 0 {
		return nil
	}

	if s.batch {
		infos, err := cli.GetGroupInfo(ctx, groupIDs)
		if err != nil {
			// all-or-nothing by policy: a batch failure yields zero groups
			zap.L().Warn("roster: batch group resolve failed", zap.Int("groups", len(groupIDs)), zap.Error(err))
			return nil
		}
		out := make([]domain.ChatEntity, 0, len(infos))
		for _, info := range infos {
			out = append(out, entityFromGroup(info))
		}
		return out
	}

	// individual policy: continue past per-group errors, a partial roster is
	// acceptable
	out := make([]domain.ChatEntity, 0, len(groupIDs))
	for _, id := range groupIDs {
		infos, err := cli.GetGroupInfo(ctx, []string{id})
		if err != nil || len(infos) == 0 {
			zap.L().Warn("roster: group resolve failed, skipping", zap.String("group_id", id), zap.Error(err))
			continue
		}
		out = append(out, entityFromGroup(infos[0]))
	}
	return out
}

func entityFromFriend(fr platform.Friend) domain.ChatEntity {
	name := fr.DisplayName
	if name == "" {
		name = fr.ZaloName
	}
	if name == "" {
		name = "Unknown Friend"
	}
	ts := fr.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	return domain.ChatEntity{
		ID:        fr.UserID,
		Name:      name,
		Type:      domain.ChatKindUser,
		Avatar:    fr.Avatar,
		Timestamp: ts,
	}
}

func entityFromGroup(info platform.GroupInfo) domain.ChatEntity {
	name := info.Name
	if name == "" {
		name = "Unknown Group"
	}
	avatar := info.Avatar
	if avatar == "" {
		avatar = info.FullAvatar
	}
	ts := info.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	return domain.ChatEntity{
		ID:          info.GroupID,
		Name:        name,
		Type:        domain.ChatKindGroup,
		Avatar:      avatar,
		MemberCount: info.TotalMember,
		Timestamp:   ts,
	}
}
