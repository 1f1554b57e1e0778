package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sairamconnect/campus-services/models"
)

func TestListAndMarkRead(t *testing.T) {
	db := setupTestDB(t, "notif_mark_read")
	ns := NewNotificationService(db)

	user := seedUser(t, db, "stu1", models.RoleStudent, nil)
	other := seedUser(t, db, "stu2", models.RoleStudent, nil)

	assert.NoError(t, ns.Notify(db, user.ID, "first"))
	assert.NoError(t, ns.Notify(db, user.ID, "second"))
	assert.NoError(t, ns.Notify(db, other.ID, "not yours"))

	// First view: both messages, unread at call time, newest first.
	notifs, err := ns.ListAndMarkRead(user.ID)
	assert.NoError(t, err)
	assert.Len(t, notifs, 2)
	assert.Equal(t, "second", notifs[0].Message)
	assert.Equal(t, "first", notifs[1].Message)
	assert.False(t, notifs[0].IsRead)
	assert.False(t, notifs[1].IsRead)

	// Second view: same set, now read, nothing duplicated or lost.
	notifs, err = ns.ListAndMarkRead(user.ID)
	assert.NoError(t, err)
	assert.Len(t, notifs, 2)
	assert.True(t, notifs[0].IsRead)
	assert.True(t, notifs[1].IsRead)

	// The other user's log is untouched.
	otherNotifs, err := ns.ListAndMarkRead(other.ID)
	assert.NoError(t, err)
	assert.Len(t, otherNotifs, 1)
	assert.False(t, otherNotifs[0].IsRead)
}

func TestFanOutWithNoVendors(t *testing.T) {
	db := setupTestDB(t, "notif_empty_fanout")
	ns := NewNotificationService(db)

	// Zero canteen vendors registered: zero notifications, no error.
	assert.NoError(t, ns.NotifyCanteenVendors(db, "anyone there?"))

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
