package feed

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/domain"
	"github.com/kai-kondo/OceanTribe/session"
	"github.com/kai-kondo/OceanTribe/subscribe"
)

// Events is the live events × users collection.
type Events struct {
	*Collection[domain.EventView]
}

// NewEvents joins "events" against the users index for organizers.
func NewEvents(mgr *subscribe.Manager, sess *session.Context, log zerolog.Logger) *Events {
	return &Events{NewCollection(mgr, sess, log, "events", joinEventsSnapshot)}
}

func joinEventsSnapshot(raw json.RawMessage, users map[string]domain.User, me string) ([]domain.EventView, error) {
	events, err := domain.DecodeEvents(raw)
	if err != nil {
		return nil, err
	}
	return JoinEvents(events, users, me), nil
}

// View returns the current view for eventID.
func (e *Events) View(eventID string) (domain.EventView, bool) {
	for _, v := range e.views {
		if v.ID == eventID {
			return v, true
		}
	}
	return domain.EventView{}, false
}

// Attending reports the locally-known attendance of userID at eventID.
func (e *Events) Attending(eventID, userID string) (attending, ok bool) {
	v, ok := e.View(eventID)
	if !ok {
		return false, false
	}
	return v.HasAttendee(userID), true
}

// SetAttendance overlays attendee's target presence at eventID. Idempotent
// against views that already show the target state.
func (e *Events) SetAttendance(overlayID, eventID string, attendee domain.Membership, attending bool) {
	e.AddOverlay(overlayID, func(views []domain.EventView) []domain.EventView {
		for i := range views {
			if views[i].ID != eventID {
				continue
			}
			if views[i].HasAttendee(attendee.UserID) == attending {
				return views
			}
			attendees := make(map[string]domain.Membership, len(views[i].Attendees)+1)
			for id, m := range views[i].Attendees {
				attendees[id] = m
			}
			if attending {
				attendees[attendee.UserID] = attendee
			} else {
				delete(attendees, attendee.UserID)
			}
			views[i].Attendees = attendees
			views[i].AttendeeCount = len(attendees)
			views[i].AttendingByMe = attending
			return views
		}
		return views
	})
}

// AddLocalEvent overlays a locally created event ahead of its authoritative
// snapshot, matched against it by organizer and title once it arrives.
func (e *Events) AddLocalEvent(overlayID string, event domain.Event) {
	e.AddOverlay(overlayID, func(views []domain.EventView) []domain.EventView {
		for _, ex := range views {
			if ex.ID == event.ID || (ex.OrganizerID == event.OrganizerID && ex.Title == event.Title) {
				return views
			}
		}
		me, _ := e.sess.CurrentUserID()
		organizer, ok := e.users[event.OrganizerID]
		if !ok {
			organizer = domain.PlaceholderUser(event.OrganizerID)
		}
		return append(views, domain.EventView{
			Event:         event,
			Organizer:     organizer,
			AttendeeCount: len(event.Attendees),
			AttendingByMe: me != "" && event.HasAttendee(me),
			IsMine:        me != "" && event.OrganizerID == me,
		})
	})
}
