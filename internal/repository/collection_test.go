package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

func TestCollectionRepository_OwnFaceCollection(t *testing.T) {
	accountID := uuid.New()
	collectionID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      domain.CollectionRef
		wantErr   error
	}{
		{
			name: "resolves registered collection",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"collection_ref"}).AddRow(collectionID)

				mock.ExpectQuery(`SELECT collection_ref FROM account_collections WHERE account_ref = \$1`).
					WithArgs(accountID).
					WillReturnRows(rows)
			},
			want: domain.NewCollectionRef(collectionID),
		},
		{
			name: "no collection registered",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT collection_ref FROM account_collections WHERE account_ref = \$1`).
					WithArgs(accountID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrCollectionNotFound,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT collection_ref FROM account_collections WHERE account_ref = \$1`).
					WithArgs(accountID).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("resolve own-face collection: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewCollectionRepository(mock)
			got, err := repo.OwnFaceCollection(context.Background(), domain.NewAccountRef(accountID))

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrCollectionNotFound) {
					assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
				} else {
					assert.Contains(t, err.Error(), "resolve own-face collection")
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCollectionRepository_UpsertItem(t *testing.T) {
	collectionID := uuid.New()
	photoID := uuid.New()

	t.Run("first insert reports true", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO collection_items .+ ON CONFLICT \(collection_ref, photo_ref\) DO NOTHING`).
			WithArgs(collectionID, photoID, true).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewCollectionRepository(mock)
		inserted, err := repo.UpsertItem(context.Background(), domain.NewCollectionRef(collectionID), domain.NewPhotoRef(photoID), true)

		require.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate insert is a no-op", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO collection_items`).
			WithArgs(collectionID, photoID, true).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		repo := NewCollectionRepository(mock)
		inserted, err := repo.UpsertItem(context.Background(), domain.NewCollectionRef(collectionID), domain.NewPhotoRef(photoID), true)

		require.NoError(t, err)
		assert.False(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionRepository_SetOwnFaceCollection(t *testing.T) {
	accountID := uuid.New()
	collectionID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO account_collections .+ ON CONFLICT \(account_ref\) DO UPDATE`).
		WithArgs(accountID, collectionID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewCollectionRepository(mock)
	err = repo.SetOwnFaceCollection(context.Background(), domain.NewAccountRef(accountID), domain.NewCollectionRef(collectionID))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
