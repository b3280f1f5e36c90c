package database

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/dinewise/backend/internal/infrastructure/observability"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// storageError logs the driver cause and hides it behind a STORAGE error
func storageError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		msg += ": query timed out"
	}
	observability.LoggerFromContext(ctx).Error().Err(err).Msg(msg)
	return apperrors.NewStorageError(msg, err)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text literally
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
