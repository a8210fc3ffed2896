package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigozago/sietch-faces/internal/domain"
)

func TestPersonRepository_Create(t *testing.T) {
	personID := uuid.New()
	accountID := uuid.New()
	now := time.Now()
	name := "Paul"

	tests := []struct {
		name      string
		person    *domain.Person
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "anonymous person",
			person: &domain.Person{
				ID: personID,
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(now, now)

				mock.ExpectQuery(`INSERT INTO persons`).
					WithArgs(personID, pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(rows)
			},
		},
		{
			name: "claimed person with name",
			person: &domain.Person{
				ID:         personID,
				Name:       &name,
				AccountRef: refPtr(domain.NewAccountRef(accountID)),
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(now, now)

				mock.ExpectQuery(`INSERT INTO persons`).
					WithArgs(personID, &name, &accountID).
					WillReturnRows(rows)
			},
		},
		{
			name: "account already claims a person",
			person: &domain.Person{
				ID:         personID,
				AccountRef: refPtr(domain.NewAccountRef(accountID)),
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO persons`).
					WithArgs(personID, pgxmock.AnyArg(), &accountID).
					WillReturnError(errors.New("duplicate key value violates unique constraint (23505)"))
			},
			wantErr: domain.ErrAccountAlreadyClaimed,
		},
		{
			name:   "database error",
			person: &domain.Person{ID: personID},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO persons`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("connection lost"))
			},
			wantErr: errors.New("create person: connection lost"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewPersonRepository(mock)
			err = repo.Create(context.Background(), tt.person)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrAccountAlreadyClaimed) {
					assert.ErrorIs(t, err, domain.ErrAccountAlreadyClaimed)
				} else {
					assert.Contains(t, err.Error(), "create person")
				}
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, tt.person.ID)
				assert.False(t, tt.person.CreatedAt.IsZero())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPersonRepository_GetByID(t *testing.T) {
	personID := uuid.New()
	accountID := uuid.New()
	now := time.Now()
	name := "Chani"

	tests := []struct {
		name      string
		id        uuid.UUID
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      *domain.Person
		wantErr   error
	}{
		{
			name: "claimed person with faces",
			id:   personID,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{
					"id", "name", "account_ref", "created_at", "updated_at", "face_count",
				}).AddRow(personID, &name, &accountID, now, now, 4)

				mock.ExpectQuery(`SELECT .+ FROM persons p LEFT JOIN faces f ON f.person_id = p.id WHERE p.id = \$1`).
					WithArgs(personID).
					WillReturnRows(rows)
			},
			want: &domain.Person{
				ID:         personID,
				Name:       &name,
				AccountRef: refPtr(domain.NewAccountRef(accountID)),
				FaceCount:  4,
			},
		},
		{
			name: "person not found",
			id:   uuid.New(),
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM persons p`).
					WithArgs(pgxmock.AnyArg()).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrPersonNotFound,
		},
		{
			name: "database error",
			id:   personID,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM persons p`).
					WithArgs(personID).
					WillReturnError(errors.New("timeout"))
			},
			wantErr: errors.New("get person by id: timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewPersonRepository(mock)
			got, err := repo.GetByID(context.Background(), tt.id)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrPersonNotFound) {
					assert.ErrorIs(t, err, domain.ErrPersonNotFound)
				} else {
					assert.Contains(t, err.Error(), "get person by id")
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.want.ID, got.ID)
				assert.Equal(t, tt.want.Name, got.Name)
				assert.Equal(t, tt.want.AccountRef, got.AccountRef)
				assert.Equal(t, tt.want.FaceCount, got.FaceCount)
				assert.True(t, got.Claimed())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPersonRepository_Claim(t *testing.T) {
	personID := uuid.New()
	accountID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful claim",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE persons SET account_ref = \$2, updated_at = NOW\(\) WHERE id = \$1`).
					WithArgs(personID, accountID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "person not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE persons`).
					WithArgs(personID, accountID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrPersonNotFound,
		},
		{
			name: "account already claims another person",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE persons`).
					WithArgs(personID, accountID).
					WillReturnError(errors.New("unique constraint persons_account_ref_key"))
			},
			wantErr: domain.ErrAccountAlreadyClaimed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewPersonRepository(mock)
			err = repo.Claim(context.Background(), personID, domain.NewAccountRef(accountID))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPersonRepository_DeleteIfEmpty(t *testing.T) {
	personID := uuid.New()

	t.Run("deletes when no faces remain", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM persons WHERE id = \$1 AND NOT EXISTS`).
			WithArgs(personID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewPersonRepository(mock)
		deleted, err := repo.DeleteIfEmpty(context.Background(), personID)

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps the person while faces reference it", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM persons WHERE id = \$1 AND NOT EXISTS`).
			WithArgs(personID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewPersonRepository(mock)
		deleted, err := repo.DeleteIfEmpty(context.Background(), personID)

		require.NoError(t, err)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPersonRepository_LockForMerge(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()

	t.Run("returns only existing ids", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id"}).AddRow(id1)
		mock.ExpectQuery(`SELECT id FROM persons WHERE id = ANY\(\$1\) ORDER BY id FOR UPDATE`).
			WithArgs([]uuid.UUID{id1, id2}).
			WillReturnRows(rows)

		repo := NewPersonRepository(mock)
		locked, err := repo.LockForMerge(context.Background(), []uuid.UUID{id1, id2})

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{id1}, locked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func refPtr(ref domain.AccountRef) *domain.AccountRef {
	return &ref
}
