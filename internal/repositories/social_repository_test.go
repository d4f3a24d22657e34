package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"soravault/internal/models"
)

func TestFeedPassesCursorAndLimit(t *testing.T) {
	db, mock := newMock(t)
	repo := &PostRepository{DB: db}
	before := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cols := []string{"id", "user_id", "item_id", "body", "image_url", "sentiment", "created_at", "author_name", "like_count", "comment_count", "liked_by_me"}
	mock.ExpectQuery(`FROM posts p JOIN profiles pr ON pr.id = p.user_id\s+WHERE \(p.user_id = \$1 OR p.user_id IN`).
		WithArgs("user-1", &before, 20).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p2", "friend-1", nil, "new strap", nil, 0.8, before.Add(-time.Hour), "Ana", 3, 1, true))

	posts, err := repo.Feed(context.Background(), "user-1", models.FeedQuery{Before: &before, Limit: 20})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(posts) != 1 || posts[0].AuthorName != "Ana" || !posts[0].LikedByMe || posts[0].LikeCount != 3 {
		t.Fatalf("unexpected feed %+v", posts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAreFriends(t *testing.T) {
	db, mock := newMock(t)
	repo := &FriendshipRepository{DB: db}

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.AreFriends(context.Background(), "a", "b")
	if err != nil || !ok {
		t.Fatalf("expected friends, got %v %v", ok, err)
	}
}

func TestForumAddReplyBumpsThread(t *testing.T) {
	db, mock := newMock(t)
	repo := &ForumRepository{DB: db}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO forum_replies`).WithArgs("t1", "user-1", "agreed").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
	mock.ExpectExec(`UPDATE forum_threads SET reply_count = reply_count \+ 1`).WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM forum_replies r JOIN profiles p`).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "thread_id", "user_id", "body", "created_at", "author_name"}).
			AddRow("r1", "t1", "user-1", "agreed", now, "Kai"))
	mock.ExpectCommit()

	reply, err := repo.AddReply(context.Background(), models.ForumReply{ThreadID: "t1", UserID: "user-1", Body: "agreed"})
	if err != nil {
		t.Fatalf("AddReply: %v", err)
	}
	if reply.ID != "r1" || reply.AuthorName != "Kai" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteTokensExpandsIn(t *testing.T) {
	db, mock := newMock(t)
	repo := &DeviceRepository{DB: db}

	mock.ExpectExec(`DELETE FROM device_tokens WHERE token IN \(\?, \?\)`).WithArgs("t1", "t2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.DeleteTokens(context.Background(), []string{"t1", "t2"}); err != nil {
		t.Fatalf("DeleteTokens: %v", err)
	}
	if err := repo.DeleteTokens(context.Background(), nil); err != nil {
		t.Fatalf("empty delete must be a no-op: %v", err)
	}
}
