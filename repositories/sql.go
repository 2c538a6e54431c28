package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zaxion/zaxion-backend/models"
)

func NewQueryBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func ExecBuilder(ctx context.Context, exec Executor, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, errors.Wrap(err, "can't build sql query")
	}
	return exec.Exec(ctx, sql, args...)
}

func ForEachRow(ctx context.Context, exec Executor, query squirrel.Sqlizer,
	fn func(row pgx.CollectableRow) error,
) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "can't build sql query")
	}

	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("error executing sql query: %s", sql))
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return errors.Wrap(rows.Err(), "error iterating over rows")
}

func SqlToListOfRow[Model any](ctx context.Context, exec Executor, query squirrel.Sqlizer,
	adapter func(row pgx.CollectableRow) (Model, error),
) ([]Model, error) {
	result := make([]Model, 0)
	err := ForEachRow(ctx, exec, query, func(row pgx.CollectableRow) error {
		model, err := adapter(row)
		if err == nil {
			result = append(result, model)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func SqlToOptionalRow[Model any](ctx context.Context, exec Executor, query squirrel.Sqlizer,
	adapter func(row pgx.CollectableRow) (Model, error),
) (*Model, error) {
	rows, err := SqlToListOfRow(ctx, exec, query, adapter)
	if err != nil {
		return nil, err
	}

	numberOfResults := len(rows)
	if numberOfResults == 0 {
		return nil, nil
	}

	model := rows[0]
	if numberOfResults > 1 {
		return nil, errors.Newf("expected 1 or 0 %T, got %d rows in the result", model, numberOfResults)
	}
	return &model, nil
}

func SqlToRow[Model any](ctx context.Context, exec Executor, query squirrel.Sqlizer,
	adapter func(row pgx.CollectableRow) (Model, error),
) (Model, error) {
	model, err := SqlToOptionalRow(ctx, exec, query, adapter)
	var zeroModel Model
	if err != nil {
		return zeroModel, err
	}
	if model == nil {
		return zeroModel, errors.Wrap(models.NotFoundError,
			fmt.Sprintf("found no object of type %T", zeroModel))
	}
	return *model, nil
}

func SqlToListOfModels[DBModel, Model any](ctx context.Context, exec Executor,
	query squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) ([]Model, error) {
	return SqlToListOfRow(ctx, exec, query, func(row pgx.CollectableRow) (Model, error) {
		dbModel, err := pgx.RowToStructByPos[DBModel](row)
		if err != nil {
			var zeroModel Model
			return zeroModel, err
		}
		return adapter(dbModel)
	})
}

func SqlToOptionalModel[DBModel, Model any](ctx context.Context, exec Executor,
	query squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) (*Model, error) {
	return SqlToOptionalRow(ctx, exec, query, func(row pgx.CollectableRow) (Model, error) {
		dbModel, err := pgx.RowToStructByPos[DBModel](row)
		if err != nil {
			var zeroModel Model
			return zeroModel, err
		}
		return adapter(dbModel)
	})
}

func SqlToModel[DBModel, Model any](ctx context.Context, exec Executor,
	query squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) (Model, error) {
	return SqlToRow(ctx, exec, query, func(row pgx.CollectableRow) (Model, error) {
		dbModel, err := pgx.RowToStructByPos[DBModel](row)
		if err != nil {
			var zeroModel Model
			return zeroModel, err
		}
		return adapter(dbModel)
	})
}

func columnsNames(tablename string, fields []string) []string {
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = fmt.Sprintf("%s.%s", tablename, f)
	}
	return columns
}

func sqlColumnList(fields []string) string {
	return strings.Join(fields, ", ")
}
