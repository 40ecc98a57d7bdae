package services

import (
	"context"
	"strings"
	"testing"

	"taxon/internal/catcache"
	"taxon/internal/models"
	"taxon/internal/store"
	"taxon/pkg/classifier"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostStore struct {
	posts          map[int64]*models.Post
	categories     map[int64][]int64
	nextID         int64
	classification map[int64]string // postID -> language written
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		posts:          map[int64]*models.Post{},
		categories:     map[int64][]int64{},
		classification: map[int64]string{},
	}
}

func (f *fakePostStore) CreatePost(ctx context.Context, post *models.Post) error {
	f.nextID++
	post.ID = f.nextID
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return post, nil
}

func (f *fakePostStore) GetPostsByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	var out []*models.Post
	for _, id := range ids {
		if p, ok := f.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostStore) SetPostCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	f.categories[postID] = categoryIDs
	return nil
}

func (f *fakePostStore) GetPostCategories(ctx context.Context, postID int64) ([]*models.Category, error) {
	var out []*models.Category
	for _, id := range f.categories[postID] {
		out = append(out, &models.Category{ID: id})
	}
	return out, nil
}

func (f *fakePostStore) UpdatePostClassification(ctx context.Context, postID int64, language string, confidence float64, tags []string) error {
	if _, ok := f.posts[postID]; !ok {
		return store.ErrNotFound
	}
	f.classification[postID] = language
	f.posts[postID].Confidence = &confidence
	f.posts[postID].Tags = tags
	return nil
}

func (f *fakePostStore) UpdatePostEmbeddingStatus(ctx context.Context, postID int64, embeddingID uuid.UUID, isEmbedded bool) error {
	if _, ok := f.posts[postID]; !ok {
		return store.ErrNotFound
	}
	f.posts[postID].EmbeddingID = &embeddingID
	f.posts[postID].IsEmbedded = isEmbedded
	return nil
}

type fakeCategoryStore struct {
	byName     map[string]*models.Category
	adjustLog  map[int64]int
	namesOrder []string
}

func newFakeCategoryStore(names ...string) *fakeCategoryStore {
	f := &fakeCategoryStore{
		byName:     map[string]*models.Category{},
		adjustLog:  map[int64]int{},
		namesOrder: names,
	}
	for i, n := range names {
		f.byName[strings.ToLower(n)] = &models.Category{ID: int64(i + 1), Name: n}
	}
	return f
}

func (f *fakeCategoryStore) CreateCategory(ctx context.Context, c *models.Category) error { return nil }
func (f *fakeCategoryStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	for _, c := range f.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}
func (f *fakeCategoryStore) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return nil, store.ErrNotFound
}
func (f *fakeCategoryStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return nil, nil
}
func (f *fakeCategoryStore) ListCategoryNames(ctx context.Context) ([]string, error) {
	return f.namesOrder, nil
}
func (f *fakeCategoryStore) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]*models.Category, error) {
	var out []*models.Category
	for _, id := range ids {
		for _, c := range f.byName {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}
func (f *fakeCategoryStore) GetCategoriesByNames(ctx context.Context, names []string) ([]*models.Category, error) {
	var out []*models.Category
	for _, n := range names {
		if c, ok := f.byName[strings.ToLower(n)]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeCategoryStore) UpdateCategory(ctx context.Context, c *models.Category) error { return nil }
func (f *fakeCategoryStore) DeleteCategory(ctx context.Context, id int64) error           { return nil }
func (f *fakeCategoryStore) AdjustPostCounts(ctx context.Context, ids []int64, delta int) error {
	for _, id := range ids {
		f.adjustLog[id] += delta
	}
	return nil
}
func (f *fakeCategoryStore) Ping(ctx context.Context) error { return nil }

func newTestPostService(cats *fakeCategoryStore, posts *fakePostStore, model classifier.Classifier) *PostService {
	cache := catcache.New(func(ctx context.Context) ([]string, error) {
		return cats.ListCategoryNames(ctx)
	})
	classification := NewClassificationService(&stubNormalizer{}, model, cache, 0)
	return NewPostService(posts, cats, classification, nil, false, 0)
}

func TestCreatePostClassifiesInline(t *testing.T) {
	posts := newFakePostStore()
	cats := newFakeCategoryStore("Design", "Business", "Other")
	model := &stubClassifier{suggestion: &classifier.RawSuggestion{
		Categories: []string{"design"},
		Tags:       []string{"ui", "figma"},
	}}
	svc := newTestPostService(cats, posts, model)

	post := &models.Post{Title: "Feedback on my portfolio", Body: "Looking for critique on visual hierarchy."}
	require.NoError(t, svc.CreatePost(context.Background(), post))

	assert.Equal(t, []int64{1}, posts.categories[post.ID])
	assert.Equal(t, []string{"ui", "figma"}, posts.posts[post.ID].Tags)
	assert.Equal(t, 1, cats.adjustLog[1], "Design post count should be incremented")
}

func TestCreatePostRequiresText(t *testing.T) {
	svc := newTestPostService(newFakeCategoryStore("Other"), newFakePostStore(), &stubClassifier{})
	err := svc.CreatePost(context.Background(), &models.Post{Title: "  ", Body: ""})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestClassifyAndApplyCapsCategories(t *testing.T) {
	posts := newFakePostStore()
	cats := newFakeCategoryStore("A", "B", "C", "D", "E", "Other")
	model := &stubClassifier{suggestion: &classifier.RawSuggestion{
		Categories: []string{"A", "B", "C", "D", "E"},
	}}
	svc := newTestPostService(cats, posts, model)

	post := &models.Post{Title: "t", Body: "b"}
	require.NoError(t, posts.CreatePost(context.Background(), post))

	result, err := svc.ClassifyAndApply(context.Background(), post.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Categories), classifier.MaxCategories)
	assert.LessOrEqual(t, len(posts.categories[post.ID]), classifier.MaxCategories)
}

func TestClassifyAndApplyReconcilesCounts(t *testing.T) {
	posts := newFakePostStore()
	cats := newFakeCategoryStore("Design", "Business", "Other")
	model := &stubClassifier{suggestion: &classifier.RawSuggestion{Categories: []string{"Business"}}}
	svc := newTestPostService(cats, posts, model)

	post := &models.Post{Title: "t", Body: "b"}
	require.NoError(t, posts.CreatePost(context.Background(), post))
	// Post previously sat in Design (ID 1).
	posts.categories[post.ID] = []int64{1}

	_, err := svc.ClassifyAndApply(context.Background(), post.ID)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, posts.categories[post.ID])
	assert.Equal(t, -1, cats.adjustLog[1], "Design count decremented")
	assert.Equal(t, 1, cats.adjustLog[2], "Business count incremented")
}

func TestClassifyAndApplyUnknownPost(t *testing.T) {
	svc := newTestPostService(newFakeCategoryStore("Other"), newFakePostStore(), &stubClassifier{})
	_, err := svc.ClassifyAndApply(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrNotFound)
}
