package controllers

import (
	"encoding/csv"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/domain/entities/stagedupload"
	"github.com/coldreach/cedb/modules/crm/services"
	"github.com/coldreach/cedb/pkg/composables"
	"github.com/coldreach/cedb/pkg/httpapi"
	"github.com/coldreach/cedb/pkg/serrors"
)

// writeServiceError maps domain error codes onto HTTP statuses. Unknown
// errors surface verbatim as 500, no retry, nothing swallowed.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := composables.UseLogger(r.Context())

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		logger.WithError(err).Warn("request rejected")
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_PARSE", err.Error(), nil)
		return
	}

	var base *serrors.Base
	if errors.As(err, &base) {
		status := statusForCode(base)
		if status >= http.StatusInternalServerError {
			logger.WithError(err).Error("request failed")
		} else {
			logger.WithError(err).Warn("request rejected")
		}
		_ = httpapi.WriteError(w, status, base.Code, base.Message, nil)
		return
	}

	logger.WithError(err).Error("request failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}

func statusForCode(base *serrors.Base) int {
	switch base {
	case contact.ErrNotFound, stagedupload.ErrNotFound:
		return http.StatusNotFound
	case contact.ErrEmailTaken, services.ErrImportInProgress:
		return http.StatusConflict
	case stagedupload.ErrQuotaExceeded:
		return http.StatusInsufficientStorage
	case stagedupload.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func writeValidationError(w http.ResponseWriter, fields serrors.ValidationErrors) {
	_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", fields)
}
