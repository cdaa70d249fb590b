package httpgin

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	redisrepo "github.com/matchpoint-app/matchpoint/internal/repository/redis"
	"github.com/matchpoint-app/matchpoint/internal/service"
	"github.com/matchpoint-app/matchpoint/internal/service/booking"
	"github.com/matchpoint-app/matchpoint/internal/service/club"
	"github.com/matchpoint-app/matchpoint/internal/service/query"
	"github.com/matchpoint-app/matchpoint/internal/service/users"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	jwtSecret string,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.POST("/users", handleRegisterUser(svcs))
	r.GET("/users/:email", handleGetUser(svcs))

	r.GET("/clubs/:id", handleGetClub(svcs))

	r.GET("/reservations/near", handleListReservationsNear(svcs))
	r.GET("/reservations/:id", handleGetReservation(svcs))

	// Authenticated API
	auth := r.Group("", AuthRequired(jwtSecret))
	{
		auth.DELETE("/users/:email", handleDeleteUser(svcs))
		auth.POST("/reservations", handleCreateReservation(svcs, idem))
		auth.POST("/reservations/:id/cancel", handleCancelReservation(svcs))
		auth.POST("/reservations/:id/players", handleJoinMatch(svcs))
		auth.DELETE("/reservations/:id/players/:email", handleLeaveMatch(svcs))
		auth.PUT("/reservations/:id/result", handleRecordResult(svcs))
	}

	// Admin-API
	admin := r.Group("/admin", AuthRequired(jwtSecret), RequireRole(RoleAdmin))
	{
		admin.POST("/clubs", handleCreateClub(svcs))
		admin.PATCH("/clubs/:id/name", handleUpdateClubName(svcs))
		admin.PATCH("/clubs/:id/address", handleUpdateClubAddress(svcs))
		admin.PUT("/clubs/:id/fields/:fieldID", handleUpdateField(svcs))
		admin.PUT("/clubs/:id/availability", handleReplaceAvailability(svcs))
		admin.POST("/reservations/:id/confirm", handleConfirmReservation(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Register user
// @Param    req body  RegisterUserRequest true "payload"
// @Success  201 {object} UserResponse
// @Failure  400 {object} ErrorResponse
// @Router   /users [post]
func handleRegisterUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := svcs.Users.Register(c.Request.Context(), req.Email, req.Name)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(u))
	}
}

// @Summary  Get user
// @Param    email  path  string  true  "Email"
// @Success  200 {object} UserResponse
// @Failure  404 {object} ErrorResponse
// @Router   /users/{email} [get]
func handleGetUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svcs.Users.Get(c.Request.Context(), c.Param("email"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(u))
	}
}

// @Summary  Delete user
// @Param    email  path  string  true  "Email"
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Security BearerAuth
// @Router   /users/{email} [delete]
func handleDeleteUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Users.Delete(c.Request.Context(), c.Param("email")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Get club
// @Param    id  path  string  true  "Club ID (uuid)"
// @Success  200 {object} ClubResponse
// @Failure  404 {object} ErrorResponse
// @Router   /clubs/{id} [get]
func handleGetClub(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		cl, err := svcs.Club.GetClub(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, toClubResponse(cl), "public, max-age=60", true)
	}
}

// @Summary  Get reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} ReservationResponse
// @Failure  404 {object} ErrorResponse
// @Router   /reservations/{id} [get]
func handleGetReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Query.GetReservation(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toReservationResponse(res), "public, max-age=15", true)
	}
}

// @Summary  List reservations near a point
// @Param    lat          query  number  true   "Latitude"
// @Param    lon          query  number  true   "Longitude"
// @Param    radius_km    query  number  false  "Radius in km"
// @Param    available_on query  string  false  "Day (YYYY-MM-DD), only clubs with open slots that day"
// @Success  200 {array}  ReservationResponse
// @Failure  400 {object} ErrorResponse
// @Router   /reservations/near [get]
func handleListReservationsNear(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			badRequest(c, "invalid lat")
			return
		}
		lon, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			badRequest(c, "invalid lon")
			return
		}
		var radiusKm float64
		if s := c.Query("radius_km"); s != "" {
			radiusKm, err = strconv.ParseFloat(s, 64)
			if err != nil {
				badRequest(c, "invalid radius_km")
				return
			}
		}

		out, err := svcs.Query.ListReservationsNear(
			c.Request.Context(),
			domain.Location{Lat: lat, Lon: lon},
			radiusKm,
			c.Query("available_on"),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toReservationResponses(out), "public, max-age=15", true)
	}
}

// @Summary  Create reservation (idempotent)
// @Param    req body  CreateReservationRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} ReservationResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "slot taken / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Security BearerAuth
// @Router   /reservations [post]
func handleCreateReservation(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		clubID, err := uuid.Parse(req.ClubID)
		if err != nil {
			badRequest(c, "invalid club_id")
			return
		}
		fieldID, err := uuid.Parse(req.FieldID)
		if err != nil {
			badRequest(c, "invalid field_id")
			return
		}
		start, err := parseRFC3339(req.Start)
		if err != nil {
			badRequest(c, "invalid start (RFC3339)")
			return
		}
		end, err := parseRFC3339(req.End)
		if err != nil {
			badRequest(c, "invalid end (RFC3339)")
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemReservation(clubID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		owner := authedEmail(c)
		rlKey := "ip:" + c.ClientIP()

		res, err := svcs.Booking.Create(
			c.Request.Context(),
			owner,
			clubID,
			fieldID,
			start,
			end,
			req.Players,
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, booking.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: err.Error()},
				)
				return
			}
			respondErr(c, err)
			return
		}

		resp := toReservationResponse(res)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Cancel reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} ReservationResponse
// @Failure  409 {object} ErrorResponse "already canceled / match started"
// @Security BearerAuth
// @Router   /reservations/{id}/cancel [post]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Booking.Cancel(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}

// @Summary  Join match
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Param    req body  JoinMatchRequest false "player email, defaults to the caller"
// @Success  200 {object} ReservationResponse
// @Failure  409 {object} ErrorResponse "match full"
// @Security BearerAuth
// @Router   /reservations/{id}/players [post]
func handleJoinMatch(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		// body is optional, an empty one adds the caller
		var req JoinMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err.Error())
			return
		}
		email := req.Email
		if email == "" {
			email = authedEmail(c)
		}
		res, err := svcs.Booking.EditRoster(c.Request.Context(), id, booking.Add{Email: email})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}

// @Summary  Leave match
// @Param    id     path  string  true  "Reservation ID (uuid)"
// @Param    email  path  string  true  "Player email"
// @Success  200 {object} ReservationResponse
// @Failure  409 {object} ErrorResponse "owner cannot leave"
// @Security BearerAuth
// @Router   /reservations/{id}/players/{email} [delete]
func handleLeaveMatch(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Booking.EditRoster(
			c.Request.Context(),
			id,
			booking.Remove{Email: c.Param("email")},
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}

// @Summary  Record match result
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Param    req body  RecordResultRequest true "payload"
// @Success  200 {object} ReservationResponse
// @Security BearerAuth
// @Router   /reservations/{id}/result [put]
func handleRecordResult(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req RecordResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		result := domain.MatchResult{Sets: make([]domain.SetScore, 0, len(req.Sets))}
		for _, s := range req.Sets {
			result.Sets = append(result.Sets, domain.SetScore{Home: s.Home, Away: s.Away})
		}
		res, err := svcs.Booking.RecordResult(c.Request.Context(), id, result)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}

// @Summary  Confirm reservation (payment callback)
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Param    req body  ConfirmReservationRequest true "payload"
// @Success  200 {object} ReservationResponse
// @Security BearerAuth
// @Router   /admin/reservations/{id}/confirm [post]
func handleConfirmReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req ConfirmReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svcs.Booking.Confirm(c.Request.Context(), id, req.Payed)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}

// @Summary  Create club
// @Param    req body  CreateClubRequest true "payload"
// @Success  201 {object} CreateClubResponse
// @Failure  400 {object} ErrorResponse "invalid availability"
// @Security BearerAuth
// @Router   /admin/clubs [post]
func handleCreateClub(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateClubRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		fields := make([]domain.Field, 0, len(req.Fields))
		byName := make(map[string]domain.Field, len(req.Fields))
		for _, f := range req.Fields {
			df := domain.Field{
				ID:         uuid.New(),
				Name:       f.Name,
				Indoor:     f.Indoor,
				PriceCents: f.PriceCents,
			}
			fields = append(fields, df)
			byName[f.Name] = df
		}

		avail := make(domain.Availability, len(req.Availability))
		for day, slots := range req.Availability {
			for _, s := range slots {
				f, ok := byName[s.FieldName]
				if !ok {
					badRequest(c, "unknown field "+s.FieldName)
					return
				}
				start, err := parseRFC3339(s.Start)
				if err != nil {
					badRequest(c, "invalid slot start (RFC3339)")
					return
				}
				end, err := parseRFC3339(s.End)
				if err != nil {
					badRequest(c, "invalid slot end (RFC3339)")
					return
				}
				avail[day] = append(avail[day], domain.FieldAvailability{
					Start:      start,
					End:        end,
					Field:      f,
					PriceCents: s.PriceCents,
				})
			}
		}

		id, err := svcs.Club.CreateClub(
			c.Request.Context(),
			req.Name,
			req.Address,
			domain.Location{Lat: req.Location.Lat, Lon: req.Location.Lon},
			fields,
			avail,
			req.AvgPriceCents,
			domain.Contacts{Phone: req.Contacts.Phone, Email: req.Contacts.Email},
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateClubResponse{ClubID: id.String()})
	}
}

// @Summary  Rename club
// @Param    id  path  string  true  "Club ID (uuid)"
// @Param    req body  UpdateClubNameRequest true "payload"
// @Success  204
// @Security BearerAuth
// @Router   /admin/clubs/{id}/name [patch]
func handleUpdateClubName(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req UpdateClubNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Club.UpdateName(c.Request.Context(), id, req.Name); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Update club address
// @Param    id  path  string  true  "Club ID (uuid)"
// @Param    req body  UpdateClubAddressRequest true "payload"
// @Success  204
// @Security BearerAuth
// @Router   /admin/clubs/{id}/address [patch]
func handleUpdateClubAddress(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req UpdateClubAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Club.UpdateAddress(
			c.Request.Context(),
			id,
			req.Address,
			domain.Location{Lat: req.Location.Lat, Lon: req.Location.Lon},
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Update field
// @Param    id       path  string  true  "Club ID (uuid)"
// @Param    fieldID  path  string  true  "Field ID (uuid)"
// @Param    req body  UpdateFieldRequest true "payload"
// @Success  204
// @Security BearerAuth
// @Router   /admin/clubs/{id}/fields/{fieldID} [put]
func handleUpdateField(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		fieldID, ok := parseUUIDParam(c, "fieldID")
		if !ok {
			return
		}
		var req UpdateFieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Club.UpdateField(c.Request.Context(), clubID, domain.Field{
			ID:         fieldID,
			Name:       req.Name,
			Indoor:     req.Indoor,
			PriceCents: req.PriceCents,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Replace club availability
// @Param    id  path  string  true  "Club ID (uuid)"
// @Param    req body  ReplaceAvailabilityRequest true "payload"
// @Success  204
// @Failure  400 {object} ErrorResponse "invalid availability"
// @Security BearerAuth
// @Router   /admin/clubs/{id}/availability [put]
func handleReplaceAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req ReplaceAvailabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		avail := make(domain.Availability, len(req.Availability))
		for day, slots := range req.Availability {
			for _, s := range slots {
				fieldID, err := uuid.Parse(s.FieldID)
				if err != nil {
					badRequest(c, "invalid field_id")
					return
				}
				start, err := parseRFC3339(s.Start)
				if err != nil {
					badRequest(c, "invalid slot start (RFC3339)")
					return
				}
				end, err := parseRFC3339(s.End)
				if err != nil {
					badRequest(c, "invalid slot end (RFC3339)")
					return
				}
				avail[day] = append(avail[day], domain.FieldAvailability{
					Start:      start,
					End:        end,
					Field:      domain.Field{ID: fieldID},
					PriceCents: s.PriceCents,
				})
			}
		}

		if err := svcs.Club.ReplaceAvailability(c.Request.Context(), clubID, avail); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// domain invariants
	case errors.Is(err, domain.ErrInvariantViolation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// users service
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	// club service
	case errors.Is(err, club.ErrClubNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "club not found"})
		return
	case errors.Is(err, club.ErrFieldNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "field not found"})
		return
	case errors.Is(err, club.ErrClubConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "club conflict"})
		return
	// query service
	case errors.Is(err, query.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
		return
	// booking service
	case errors.Is(err, booking.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	case errors.Is(err, booking.ErrClubNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "club not found"})
		return
	case errors.Is(err, booking.ErrFieldNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "field not found"})
		return
	case errors.Is(err, booking.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
		return
	case errors.Is(err, booking.ErrSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "slot not available"})
		return
	case errors.Is(err, booking.ErrMatchFull):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "match full"})
		return
	case errors.Is(err, booking.ErrAlreadyCanceled):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reservation already canceled"})
		return
	case errors.Is(err, booking.ErrMatchStarted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "match already started"})
		return
	case errors.Is(err, booking.ErrOwnerCannotLeave):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "owner cannot leave"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
