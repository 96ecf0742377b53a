// Package events models notification fan-out as explicit domain events.
// Lifecycle operations emit events on whatever database handle they run
// on (usually a transaction), and the policy deciding who gets notified
// lives in one place instead of being duplicated per endpoint.
package events

import "github.com/pklporto/backend/internal/models"

// Event is a primary mutation that may fan out into notifications.
type Event interface {
	notifications() []models.Notification
}

// PostMentioned is emitted once per resolved @handle in a new post's caption.
type PostMentioned struct {
	PostID          uint
	ActorID         uint
	MentionedUserID uint
}

func (e PostMentioned) notifications() []models.Notification {
	if e.MentionedUserID == e.ActorID {
		return nil
	}
	target := e.PostID
	return []models.Notification{{
		UserID:   e.MentionedUserID,
		ActorID:  e.ActorID,
		Type:     models.NotificationMention,
		TargetID: &target,
	}}
}

// PostLiked is emitted when a like toggle inserts a like row.
type PostLiked struct {
	PostID  uint
	ActorID uint
	OwnerID uint
}

func (e PostLiked) notifications() []models.Notification {
	if e.OwnerID == e.ActorID {
		return nil
	}
	target := e.PostID
	return []models.Notification{{
		UserID:   e.OwnerID,
		ActorID:  e.ActorID,
		Type:     models.NotificationLike,
		TargetID: &target,
	}}
}

// CommentAdded is emitted when a comment is inserted. ParentAuthorID is
// set only for replies.
type CommentAdded struct {
	PostID         uint
	ActorID        uint
	OwnerID        uint
	ParentAuthorID *uint
}

func (e CommentAdded) notifications() []models.Notification {
	target := e.PostID
	var out []models.Notification
	if e.OwnerID != e.ActorID {
		out = append(out, models.Notification{
			UserID:   e.OwnerID,
			ActorID:  e.ActorID,
			Type:     models.NotificationComment,
			TargetID: &target,
		})
	}
	// The parent comment's author is notified too, unless they are the
	// commenter or already notified as the post owner.
	if e.ParentAuthorID != nil && *e.ParentAuthorID != e.ActorID && *e.ParentAuthorID != e.OwnerID {
		out = append(out, models.Notification{
			UserID:   *e.ParentAuthorID,
			ActorID:  e.ActorID,
			Type:     models.NotificationComment,
			TargetID: &target,
		})
	}
	return out
}

// UserFollowed is emitted when a follow toggle inserts an edge.
type UserFollowed struct {
	ActorID  uint
	TargetID uint
}

func (e UserFollowed) notifications() []models.Notification {
	if e.TargetID == e.ActorID {
		return nil
	}
	return []models.Notification{{
		UserID:  e.TargetID,
		ActorID: e.ActorID,
		Type:    models.NotificationFollow,
	}}
}

// Notifications returns the notification rows an event produces, with
// self-notifications and duplicate recipients already filtered out.
func Notifications(ev Event) []models.Notification {
	return ev.notifications()
}
