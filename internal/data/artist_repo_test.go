package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bndy/centrestage/internal/domain/model"
	"github.com/bndy/centrestage/internal/testutil"
)

func TestArtistRepo_Create_List_Update(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewArtistRepo(db)
		name := fmt.Sprintf("artist-%d", time.Now().UnixNano())

		a, err := repo.Create(ctx, testutil.NewArtistRequest(name).WithGenres("indie", "rock").Build())
		require.NoError(t, err)
		require.NotEmpty(t, a.ID)
		assert.Equal(t, []string{"indie", "rock"}, a.Genres)

		_, err = repo.Create(ctx, testutil.NewArtistRequest(name).Build())
		assert.ErrorIs(t, err, ErrArtistNameExists)

		// genre filter matches any element of genres
		genre := "rock"
		list, err := repo.List(ctx, model.ArtistsListOptions{Limit: 10, Genre: &genre})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, a.ID, list[0].ID)

		genre = "jazz"
		list, err = repo.List(ctx, model.ArtistsListOptions{Limit: 10, Genre: &genre})
		require.NoError(t, err)
		assert.Empty(t, list)

		bio := "Gigging since 2019."
		updated, err := repo.Update(ctx, a.ID, model.UpdateArtistRequest{Bio: &bio})
		require.NoError(t, err)
		require.NotNil(t, updated.Bio)
		assert.Equal(t, bio, *updated.Bio)
	})
}

func TestSongRepo_Create_List_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewSongRepo(db)
		artist := fmt.Sprintf("artist-%d", time.Now().UnixNano())

		s, err := repo.Create(ctx, testutil.SongRequest("Terminal Lights", artist))
		require.NoError(t, err)
		require.NotEmpty(t, s.ID)

		// same title for the same artist is a conflict
		_, err = repo.Create(ctx, testutil.SongRequest("Terminal Lights", artist))
		assert.ErrorIs(t, err, ErrSongExists)

		// same title under another artist is fine
		other, err := repo.Create(ctx, testutil.SongRequest("Terminal Lights", artist+"-b"))
		require.NoError(t, err)

		list, err := repo.List(ctx, model.SongsListOptions{Limit: 10, ArtistName: &artist})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, s.ID, list[0].ID)

		for _, id := range []string{s.ID, other.ID} {
			deleted, delErr := repo.Delete(ctx, id)
			require.NoError(t, delErr)
			assert.True(t, deleted)
		}
	})
}
