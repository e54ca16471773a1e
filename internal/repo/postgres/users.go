package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// projection field -> column
var userColumns = map[string]string{
	user.FieldID:       "id",
	user.FieldName:     "name",
	user.FieldEmail:    "email",
	user.FieldPassword: "password",
}

func whereClause(f user.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	argsPosition := 1

	if f.ID != nil {
		conds = append(conds, fmt.Sprintf("id = $%d", argsPosition))
		args = append(args, *f.ID)
		argsPosition++
	}

	if f.Email != nil {
		conds = append(conds, fmt.Sprintf("email = $%d", argsPosition))
		args = append(args, *f.Email)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *UsersRepo) Find(ctx context.Context, f user.Filter, p user.Projection) ([]user.User, error) {
	fields, err := p.Fields()
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(fields))
	for _, field := range fields {
		cols = append(cols, userColumns[field])
	}

	where, args := whereClause(f)
	query := "SELECT " + strings.Join(cols, ", ") + " FROM users" + where + " ORDER BY seq ASC"

	output := make([]user.User, 0)

	err = r.observe("users.find", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User

			dest := make([]interface{}, 0, len(fields))
			for _, field := range fields {
				switch field {
				case user.FieldID:
					dest = append(dest, &u.ID)
				case user.FieldName:
					dest = append(dest, &u.Name)
				case user.FieldEmail:
					dest = append(dest, &u.Email)
				case user.FieldPassword:
					dest = append(dest, &u.Password)
				}
			}

			if err := rows.Scan(dest...); err != nil {
				return err
			}

			output = append(output, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	u.ID = uuid.NewString()

	err := r.observe("users.insert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, name, email, password) VALUES ($1, $2, $3, $4)`,
			u.ID, u.Name, u.Email, u.Password,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		// unique_violation on users_email_key
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

// Remove deletes every match; zero rows affected is not an error.
func (r *UsersRepo) Remove(ctx context.Context, f user.Filter) (int64, error) {
	where, args := whereClause(f)

	var affected int64

	err := r.observe("users.remove", func() error {
		tag, err := r.pool.Exec(ctx, "DELETE FROM users"+where, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, err
	}

	return affected, nil
}
