package services

import (
	"context"
	"fmt"
	"testing"

	"go-blog-api/internal/database"
	"go-blog-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArticleDerivesSlug(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "walter")
	article, err := svc.Create(ctx, author.ID, CreateArticleInput{
		Title:   "Bài viết đầu tiên",
		Content: "xin chào",
	})
	require.NoError(t, err)
	assert.Equal(t, "bai-viet-dau-tien", article.Slug)
	assert.False(t, article.Published)
	assert.Equal(t, author.ID, article.AuthorID)
}

func TestCreateArticleSlugConflict(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "xena")
	_, err := svc.Create(ctx, author.ID, CreateArticleInput{Title: "Hello World", Content: "a"})
	require.NoError(t, err)

	// Same slug even from a different author is a conflict.
	other := createUser(t, "yuri")
	_, err = svc.Create(ctx, other.ID, CreateArticleInput{Title: "Hello, World!", Content: "b"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestUnpublishedArticleVisibility(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "zack")
	other := createUser(t, "amy")
	draft := createArticle(t, author.ID, "Secret Draft", false)

	// The author sees their own draft.
	got, err := svc.GetBySlug(ctx, draft.Slug, &author.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	// Everyone else gets NotFound, not Forbidden.
	_, err = svc.GetBySlug(ctx, draft.Slug, &other.ID)
	assert.ErrorIs(t, err, ErrArticleNotFound)

	_, err = svc.GetBySlug(ctx, draft.Slug, nil)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestUpdateArticleKeepsSlug(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "bella")
	article := createArticle(t, author.ID, "Original Title", true)

	updated, err := svc.Update(ctx, article.Slug, author.ID, UpdateArticleInput{
		Title: strPtr("Completely New Title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Completely New Title", updated.Title)
	assert.Equal(t, "original-title", updated.Slug)
	// Content was nil in the input and must not change.
	assert.Equal(t, "some content", updated.Content)
}

func TestUpdateArticleOwnership(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "carl")
	intruder := createUser(t, "dina")
	article := createArticle(t, author.ID, "Guarded", true)

	_, err := svc.Update(ctx, article.Slug, intruder.ID, UpdateArticleInput{Title: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrNotAuthor)

	_, err = svc.Update(ctx, "missing-slug", author.ID, UpdateArticleInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestDeleteArticleCascades(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	comments := NewCommentService(svc)
	ctx := context.Background()

	author := createUser(t, "elsa")
	reader := createUser(t, "finn")
	article := createArticle(t, author.ID, "Doomed", true)

	_, err := svc.Favorite(ctx, article.Slug, reader.ID)
	require.NoError(t, err)
	_, err = comments.Create(ctx, article.Slug, reader.ID, CreateCommentInput{Body: "nice"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, article.Slug, author.ID))

	assert.EqualValues(t, 0, countFavorites(t, article.ID))
	assert.EqualValues(t, 0, countComments(t, article.ID))

	_, err = svc.GetBySlug(ctx, article.Slug, &author.ID)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestDeleteArticleOwnership(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "gus")
	intruder := createUser(t, "hana")
	article := createArticle(t, author.ID, "Keep Out", true)

	err := svc.Delete(ctx, article.Slug, intruder.ID)
	assert.ErrorIs(t, err, ErrNotAuthor)
}

func TestPublishMany(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "iris")
	other := createUser(t, "jack")

	draftA := createArticle(t, author.ID, "Draft A", false)
	alreadyLive := createArticle(t, author.ID, "Already Live", true)
	notMine := createArticle(t, other.ID, "Not Mine", false)

	published, err := svc.PublishMany(ctx, []string{draftA.Slug, alreadyLive.Slug, notMine.Slug}, author.ID)
	require.NoError(t, err)

	// Only the owned, unpublished article transitions.
	require.Len(t, published, 1)
	assert.Equal(t, draftA.ID, published[0].ID)
	assert.True(t, published[0].Published)

	assert.True(t, reloadArticle(t, draftA.ID).Published)
	assert.False(t, reloadArticle(t, notMine.ID).Published)
}

func TestPublishManyNothingToPublish(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "kate")
	live := createArticle(t, author.ID, "Live One", true)

	_, err := svc.PublishMany(ctx, []string{live.Slug, "no-such-slug"}, author.ID)
	assert.ErrorIs(t, err, ErrNothingToPublish)
}

func TestFavoriteKeepsCounterInStep(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "liam")
	readerA := createUser(t, "mona")
	readerB := createUser(t, "nick")
	article := createArticle(t, author.ID, "Popular", true)

	_, err := svc.Favorite(ctx, article.Slug, readerA.ID)
	require.NoError(t, err)
	_, err = svc.Favorite(ctx, article.Slug, readerB.ID)
	require.NoError(t, err)

	reloaded := reloadArticle(t, article.ID)
	assert.Equal(t, 2, reloaded.FavoriteCount)
	assert.EqualValues(t, reloaded.FavoriteCount, countFavorites(t, article.ID))

	_, err = svc.Unfavorite(ctx, article.Slug, readerA.ID)
	require.NoError(t, err)

	reloaded = reloadArticle(t, article.ID)
	assert.Equal(t, 1, reloaded.FavoriteCount)
	assert.EqualValues(t, reloaded.FavoriteCount, countFavorites(t, article.ID))
}

func TestDoubleFavoriteLeavesCounterUnchanged(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "olga")
	reader := createUser(t, "pete")
	article := createArticle(t, author.ID, "Once Only", true)

	_, err := svc.Favorite(ctx, article.Slug, reader.ID)
	require.NoError(t, err)

	_, err = svc.Favorite(ctx, article.Slug, reader.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	reloaded := reloadArticle(t, article.ID)
	assert.Equal(t, 1, reloaded.FavoriteCount)
	assert.EqualValues(t, 1, countFavorites(t, article.ID))
}

func TestUnfavoriteWithoutEdge(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "rosa")
	reader := createUser(t, "seth")
	article := createArticle(t, author.ID, "Untouched", true)

	_, err := svc.Unfavorite(ctx, article.Slug, reader.ID)
	assert.ErrorIs(t, err, ErrNotFavorited)

	assert.Equal(t, 0, reloadArticle(t, article.ID).FavoriteCount)
}

func TestFavoriteUnpublishedArticle(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "tom")
	reader := createUser(t, "una")
	draft := createArticle(t, author.ID, "Hidden Draft", false)

	// The draft does not exist for the reader, so neither does favoriting it.
	_, err := svc.Favorite(ctx, draft.Slug, reader.ID)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestListPublishedPagination(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "vic")
	for i := 1; i <= 15; i++ {
		createArticle(t, author.ID, fmt.Sprintf("Post Number %d", i), true)
	}
	createArticle(t, author.ID, "Hidden Extra", false)

	page1, err := svc.ListPublished(ctx, nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1.Data, 10)
	assert.EqualValues(t, 15, page1.Meta.TotalItems)
	assert.Equal(t, 2, page1.Meta.TotalPages)
	assert.Equal(t, 1, page1.Meta.CurrentPage)
	assert.Equal(t, 10, page1.Meta.ItemsPerPage)

	page2, err := svc.ListPublished(ctx, nil, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page2.Data, 5)
	assert.Equal(t, 2, page2.Meta.CurrentPage)
}

func TestListPublishedDefaultsAndCap(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "will")
	for i := 1; i <= 12; i++ {
		createArticle(t, author.ID, fmt.Sprintf("Entry %d", i), true)
	}

	// Zero values fall back to page 1, limit 10.
	result, err := svc.ListPublished(ctx, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, result.Data, 10)
	assert.Equal(t, 1, result.Meta.CurrentPage)
	assert.Equal(t, 10, result.Meta.ItemsPerPage)

	// Oversized limits are capped.
	result, err = svc.ListPublished(ctx, nil, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Meta.ItemsPerPage)
}

func TestListPublishedAnnotatesFavorites(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "yana")
	reader := createUser(t, "zane")
	liked := createArticle(t, author.ID, "Liked One", true)
	createArticle(t, author.ID, "Ignored One", true)

	_, err := svc.Favorite(ctx, liked.Slug, reader.ID)
	require.NoError(t, err)

	result, err := svc.ListPublished(ctx, &reader.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Data, 2)

	favoritedBySlug := make(map[string]bool)
	for _, a := range result.Data {
		favoritedBySlug[a.Slug] = a.Favorited
	}
	assert.True(t, favoritedBySlug["liked-one"])
	assert.False(t, favoritedBySlug["ignored-one"])
}

func TestListByAuthorDrafts(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "abe")
	createArticle(t, author.ID, "Public Piece", true)
	createArticle(t, author.ID, "Private Draft", false)

	// The dashboard view includes drafts.
	mine, err := svc.ListByAuthor(ctx, author.ID, &author.ID, 1, 10, true)
	require.NoError(t, err)
	assert.Len(t, mine.Data, 2)

	// The public view does not.
	public, err := svc.ListByAuthor(ctx, author.ID, nil, 1, 10, false)
	require.NoError(t, err)
	require.Len(t, public.Data, 1)
	assert.Equal(t, "public-piece", public.Data[0].Slug)
}

func TestFavoriteCountNeverNegative(t *testing.T) {
	setupTestDB(t)
	svc := NewArticleService()
	ctx := context.Background()

	author := createUser(t, "bree")
	reader := createUser(t, "cody")
	article := createArticle(t, author.ID, "Zero Floor", true)

	_, err := svc.Favorite(ctx, article.Slug, reader.ID)
	require.NoError(t, err)
	_, err = svc.Unfavorite(ctx, article.Slug, reader.ID)
	require.NoError(t, err)

	// A second unfavorite fails before touching the counter.
	_, err = svc.Unfavorite(ctx, article.Slug, reader.ID)
	assert.ErrorIs(t, err, ErrNotFavorited)
	assert.Equal(t, 0, reloadArticle(t, article.ID).FavoriteCount)

	var stored models.Article
	require.NoError(t, database.DB.First(&stored, article.ID).Error)
	assert.GreaterOrEqual(t, stored.FavoriteCount, 0)
}
