package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
)

// dateParamLayout is the accepted format of the from/to query parameters.
const dateParamLayout = "2006-01-02"

// parseDateRange resolves the reporting window of a request. A `period`
// shortcut wins over explicit `from`/`to`; with neither the default
// window applies.
func parseDateRange(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	now := time.Now()

	if period := q.Get("period"); period != "" {
		rng, err := domain.ResolvePeriod(period, now)
		if err != nil {
			return domain.DateRange{}, apperrors.NewBadRequestError(err,
				fmt.Sprintf("Unknown period shortcut %q", period))
		}
		return rng, nil
	}

	fromStr, toStr := q.Get("from"), q.Get("to")
	if fromStr == "" && toStr == "" {
		return domain.DefaultDateRange(now), nil
	}

	defaults := domain.DefaultDateRange(now)
	from, to := defaults.From, defaults.To

	if fromStr != "" {
		parsed, err := time.Parse(dateParamLayout, fromStr)
		if err != nil {
			return domain.DateRange{}, apperrors.NewBadRequestError(err,
				"Invalid from date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse(dateParamLayout, toStr)
		if err != nil {
			return domain.DateRange{}, apperrors.NewBadRequestError(err,
				"Invalid to date, expected YYYY-MM-DD")
		}
		to = parsed
	}

	if to.Before(from) {
		return domain.DateRange{}, apperrors.ErrInvalidDateRange
	}

	return domain.NewDateRange(from, to), nil
}
