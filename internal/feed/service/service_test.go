package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spilno/spilno-backend/internal/feed"
)

func TestPublicationLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	doc, err := svc.CreatePublication(ctx, feed.Fields{"title": "hello", "userId": "u1"})
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)

	pubs, err := svc.ListPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 1)

	require.NoError(t, svc.UpdatePublication(ctx, doc.ID, feed.Fields{"title": "renamed"}))
	require.ErrorIs(t, svc.UpdatePublication(ctx, "missing", feed.Fields{"title": "x"}), ErrNotFound)

	require.NoError(t, svc.DeletePublication(ctx, doc.ID))
	require.NoError(t, svc.DeletePublication(ctx, doc.ID))

	pubs, err = svc.ListPublications(ctx)
	require.NoError(t, err)
	require.Empty(t, pubs)
}

func TestListPublicationsByUser_EmptyListsAll(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	_, err := svc.CreatePublication(ctx, feed.Fields{"userId": "u1"})
	require.NoError(t, err)
	_, err = svc.CreatePublication(ctx, feed.Fields{"userId": "u2"})
	require.NoError(t, err)

	all, err := svc.ListPublicationsByUser(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	only, err := svc.ListPublicationsByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, only, 1)
}

func TestCommentsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	pub, err := svc.CreatePublication(ctx, feed.Fields{"title": "p"})
	require.NoError(t, err)

	c1, err := svc.AddComment(ctx, pub.ID, feed.Fields{"text": "older", "createdAt": 1000})
	require.NoError(t, err)
	c2, err := svc.AddComment(ctx, pub.ID, feed.Fields{"text": "newer", "createdAt": 2000})
	require.NoError(t, err)
	require.NotEqual(t, c1.ID, c2.ID)

	got, err := svc.ListComments(ctx, pub.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "newer", got[0].Fields["text"])
	require.Equal(t, "older", got[1].Fields["text"])
}

func TestLikesAreIdempotentPerUser(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	require.NoError(t, svc.AddLike(ctx, "p1", "u1"))
	require.NoError(t, svc.AddLike(ctx, "p1", "u1"))

	n, err := svc.CountLikes(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(1), n, "double-liking counts once")

	liked, err := svc.HasLiked(ctx, "p1", "u1")
	require.NoError(t, err)
	require.True(t, liked)

	require.NoError(t, svc.RemoveLike(ctx, "p1", "u1"))
	require.NoError(t, svc.RemoveLike(ctx, "p1", "u1"))

	liked, err = svc.HasLiked(ctx, "p1", "u1")
	require.NoError(t, err)
	require.False(t, liked)

	n, err = svc.CountLikes(ctx, "p1")
	require.NoError(t, err)
	require.Zero(t, n)
}
