package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

func TestBookRepository_Seed(t *testing.T) {
	repo := NewBookRepository(SeedBooks())

	books, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)

	assert.Equal(t, []string{"1", "2", "3"}, []string{books[0].ID, books[1].ID, books[2].ID})
	for _, b := range books {
		assert.Equal(t, DemoUserID, b.OwnerID)
		assert.False(t, b.UpdatedAt.Before(b.CreatedAt))
	}
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(SeedBooks())

	now := time.Now().UTC()
	b := &book.Book{ID: "new-1", Title: "Dune", OwnerID: "1", Price: 9.99, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, b))
	assert.Equal(t, 4, repo.Len())

	// 创建后的round trip
	got, err := repo.FindByID(ctx, "new-1")
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.NotSame(t, b, got)

	// 修改返回值不影响仓储
	got.Title = "changed"
	again, err := repo.FindByID(ctx, "new-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", again.Title)

	// 更新
	again.Title = "Dune Messiah"
	require.NoError(t, repo.Update(ctx, again))
	updated, err := repo.FindByID(ctx, "new-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)

	// 删除
	require.NoError(t, repo.Delete(ctx, "new-1"))
	_, err = repo.FindByID(ctx, "new-1")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Equal(t, 3, repo.Len())
}

func TestBookRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(SeedBooks())

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &book.Book{ID: "missing"}), book.ErrBookNotFound)
	assert.Equal(t, 3, repo.Len(), "删除不存在的图书不改变数量")
}

func TestBookRepository_DuplicateID(t *testing.T) {
	repo := NewBookRepository(SeedBooks())
	err := repo.Create(context.Background(), &book.Book{ID: "1"})
	assert.Error(t, err)
}

func TestBookRepository_DeleteKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(SeedBooks())

	require.NoError(t, repo.Delete(ctx, "2"))
	books, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, []string{books[0].ID, books[1].ID})
}

func TestBookRepository_Reset(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(SeedBooks())

	require.NoError(t, repo.Delete(ctx, "1"))
	require.NoError(t, repo.Create(ctx, &book.Book{ID: "x"}))
	repo.Reset()

	books, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
	assert.Equal(t, "1", books[0].ID)
}

func TestBookRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewBookRepository(nil)
	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBookRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("b-%d", i)
			_ = repo.Create(ctx, &book.Book{ID: id, Title: id})
			_, _ = repo.List(ctx)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Len())
}
