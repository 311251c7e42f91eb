package errors

import "net/http"

var (
	ErrProjectNotFound = New(
		"PROJECT_NOT_FOUND",
		"Project not found",
		http.StatusNotFound,
	)

	ErrMarketNotFound = New(
		"MARKET_NOT_FOUND",
		"Market not found in this setting",
		http.StatusNotFound,
	)

	ErrInvalidProjectID = New(
		"INVALID_PROJECT_ID",
		"Invalid project ID",
		http.StatusBadRequest,
	)

	ErrInvalidMarketID = New(
		"INVALID_MARKET_ID",
		"Invalid market ID",
		http.StatusBadRequest,
	)

	ErrInvalidSetting = New(
		"INVALID_SETTING",
		"Setting must be nullfall or planfall",
		http.StatusBadRequest,
	)

	ErrMissingCoefficient = New(
		"MISSING_COEFFICIENT",
		"Base data has no matching coefficient row",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidInputData = New(
		"INVALID_INPUT_DATA",
		"Project data is inconsistent",
		http.StatusUnprocessableEntity,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
