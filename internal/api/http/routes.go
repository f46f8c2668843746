package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mavrick-topgun/weather-aqi-app/internal/geocoding"
	"github.com/mavrick-topgun/weather-aqi-app/internal/location"
	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
)

var validate = validator.New()

const (
	defaultTrendPeriod = 14
	minTrendPeriod     = 7
	maxTrendPeriod     = 30
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, locations *location.Service, scores *suitability.Service, geocoder *geocoding.Client) {
	v1 := app.Group("/api/v1")

	v1.Get("/locations", func(c *fiber.Ctx) error {
		list, err := locations.List()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list locations")
		}
		return c.JSON(list)
	})

	v1.Post("/locations", func(c *fiber.Ctx) error {
		var req createLocationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := locations.Create(req.Name, *req.Latitude, *req.Longitude, req.Timezone)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create location")
		}
		return c.Status(fiber.StatusCreated).JSON(loc)
	})

	v1.Get("/locations/:id", func(c *fiber.Ctx) error {
		loc, err := locations.Get(c.Params("id"))
		if err != nil {
			return mapDomainError(err, "failed to fetch location")
		}
		return c.JSON(loc)
	})

	v1.Delete("/locations/:id", func(c *fiber.Ctx) error {
		if err := locations.Delete(c.Params("id")); err != nil {
			return mapDomainError(err, "failed to delete location")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/locations/:id/forecast", func(c *fiber.Ctx) error {
		resp, err := scores.Forecast(c.Context(), c.Params("id"))
		if err != nil {
			return mapDomainError(err, "failed to fetch forecast")
		}
		return c.JSON(resp)
	})

	v1.Get("/locations/:id/trends", func(c *fiber.Ctx) error {
		var req trendsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := scores.Trends(c.Context(), c.Params("id"), req.Period)
		if err != nil {
			return mapDomainError(err, "failed to fetch trends")
		}
		return c.JSON(resp)
	})

	v1.Get("/geocoding/search", func(c *fiber.Ctx) error {
		var req searchQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		results, err := geocoder.Search(c.Context(), req.Query, req.Limit)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "geocoding search failed")
		}
		return c.JSON(results)
	})
}

// mapDomainError translates domain sentinels into HTTP statuses; anything
// unrecognized is logged by the central error handler and returned
// generically.
func mapDomainError(err error, fallback string) error {
	switch {
	case errors.Is(err, suitability.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, suitability.ErrLocationNotFound.Error())
	case errors.Is(err, suitability.ErrForecastUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, suitability.ErrForecastUnavailable.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}

// createLocationRequest is the POST /locations body. Coordinates are
// pointers so an omitted field fails validation instead of reading as 0,0.
type createLocationRequest struct {
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Timezone  string   `json:"timezone"`
}

// trendsQuery holds query parameters for the trends endpoint.
type trendsQuery struct {
	Period int
}

// bind clamps out-of-range periods into [7,30] rather than rejecting them,
// so any numeric period yields a served window.
func (q *trendsQuery) bind(c *fiber.Ctx) error {
	q.Period = defaultTrendPeriod
	if raw := c.Query("period"); raw != "" {
		period, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("period must be an integer")
		}
		q.Period = period
	}
	if q.Period < minTrendPeriod {
		q.Period = minTrendPeriod
	}
	if q.Period > maxTrendPeriod {
		q.Period = maxTrendPeriod
	}
	return nil
}

// searchQuery holds query parameters for the geocoding search endpoint.
type searchQuery struct {
	Query string `validate:"required,min=2"`
	Limit int    `validate:"gte=1,lte=10"`
}

func (q *searchQuery) bind(c *fiber.Ctx) error {
	q.Query = strings.TrimSpace(c.Query("query"))
	q.Limit = 5
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		q.Limit = limit
	}
	return validate.Struct(q)
}
