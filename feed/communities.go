package feed

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/domain"
	"github.com/kai-kondo/OceanTribe/session"
	"github.com/kai-kondo/OceanTribe/subscribe"
)

// Communities is the live communities collection.
type Communities struct {
	*Collection[domain.CommunityView]
}

// NewCommunities tracks "communities". The join ignores the users snapshot;
// membership is derived from the presence map alone.
func NewCommunities(mgr *subscribe.Manager, sess *session.Context, log zerolog.Logger) *Communities {
	return &Communities{NewCollection(mgr, sess, log, "communities", joinCommunitiesSnapshot)}
}

func joinCommunitiesSnapshot(raw json.RawMessage, _ map[string]domain.User, me string) ([]domain.CommunityView, error) {
	communities, err := domain.DecodeCommunities(raw)
	if err != nil {
		return nil, err
	}
	return JoinCommunities(communities, me), nil
}

// View returns the current view for communityID.
func (c *Communities) View(communityID string) (domain.CommunityView, bool) {
	for _, v := range c.views {
		if v.ID == communityID {
			return v, true
		}
	}
	return domain.CommunityView{}, false
}

// Joined reports the locally-known membership of userID in communityID.
func (c *Communities) Joined(communityID, userID string) (joined, ok bool) {
	v, ok := c.View(communityID)
	if !ok {
		return false, false
	}
	return v.HasMember(userID), true
}

// SetMembership overlays member's target presence in communityID. Idempotent
// against views that already show the target state.
func (c *Communities) SetMembership(overlayID, communityID string, member domain.Membership, joined bool) {
	c.AddOverlay(overlayID, func(views []domain.CommunityView) []domain.CommunityView {
		for i := range views {
			if views[i].ID != communityID {
				continue
			}
			if views[i].HasMember(member.UserID) == joined {
				return views
			}
			members := make(map[string]domain.Membership, len(views[i].Members)+1)
			for id, m := range views[i].Members {
				members[id] = m
			}
			if joined {
				members[member.UserID] = member
			} else {
				delete(members, member.UserID)
			}
			views[i].Members = members
			views[i].MemberCount = len(members)
			views[i].JoinedByMe = joined
			return views
		}
		return views
	})
}

// AddLocalCommunity overlays a locally created community ahead of its
// authoritative snapshot, matched against it by title once it arrives.
func (c *Communities) AddLocalCommunity(overlayID string, community domain.Community) {
	c.AddOverlay(overlayID, func(views []domain.CommunityView) []domain.CommunityView {
		for _, ex := range views {
			if ex.ID == community.ID || ex.Title == community.Title {
				return views
			}
		}
		me, _ := c.sess.CurrentUserID()
		return append(views, domain.CommunityView{
			Community:   community,
			MemberCount: len(community.Members),
			JoinedByMe:  me != "" && community.HasMember(me),
		})
	})
}
