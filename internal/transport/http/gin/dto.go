package httpgin

import (
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
)

type RegisterUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type ContactsDTO struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type FieldInput struct {
	Name       string `json:"name" binding:"required"`
	Indoor     bool   `json:"indoor"`
	PriceCents int    `json:"price_cents" binding:"gte=0"`
}

// CreateSlotInput references the field by name because field IDs are
// assigned on create.
type CreateSlotInput struct {
	FieldName  string `json:"field_name" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
	PriceCents int    `json:"price_cents" binding:"gte=0"`
}

type CreateClubRequest struct {
	Name          string                       `json:"name" binding:"required"`
	Address       string                       `json:"address" binding:"required"`
	Location      LocationDTO                  `json:"location"`
	Fields        []FieldInput                 `json:"fields" binding:"required,min=1,dive"`
	Availability  map[string][]CreateSlotInput `json:"availability"`
	AvgPriceCents int                          `json:"avg_price_cents" binding:"gte=0"`
	Contacts      ContactsDTO                  `json:"contacts"`
}

type CreateClubResponse struct {
	ClubID string `json:"club_id"`
}

type UpdateClubNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateClubAddressRequest struct {
	Address  string      `json:"address" binding:"required"`
	Location LocationDTO `json:"location"`
}

type UpdateFieldRequest struct {
	Name       string `json:"name" binding:"required"`
	Indoor     bool   `json:"indoor"`
	PriceCents int    `json:"price_cents" binding:"gte=0"`
}

// SlotInput references the field by ID, used once the club exists.
type SlotInput struct {
	FieldID    string `json:"field_id" binding:"required,uuid"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
	PriceCents int    `json:"price_cents" binding:"gte=0"`
}

type ReplaceAvailabilityRequest struct {
	Availability map[string][]SlotInput `json:"availability" binding:"required"`
}

type FieldResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Indoor     bool   `json:"indoor"`
	PriceCents int    `json:"price_cents"`
}

type SlotResponse struct {
	FieldID    string    `json:"field_id"`
	FieldName  string    `json:"field_name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	PriceCents int       `json:"price_cents"`
}

type ClubResponse struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Address       string                    `json:"address"`
	Location      LocationDTO               `json:"location"`
	Fields        []FieldResponse           `json:"fields"`
	Availability  map[string][]SlotResponse `json:"availability"`
	AvgPriceCents int                       `json:"avg_price_cents"`
	Contacts      ContactsDTO               `json:"contacts"`
}

type CreateReservationRequest struct {
	ClubID  string   `json:"club_id" binding:"required,uuid"`
	FieldID string   `json:"field_id" binding:"required,uuid"`
	Start   string   `json:"start" binding:"required"`
	End     string   `json:"end" binding:"required"`
	Players []string `json:"players" binding:"omitempty,dive,email"`
}

type JoinMatchRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

type SetScoreInput struct {
	Home int `json:"home" binding:"gte=0"`
	Away int `json:"away" binding:"gte=0"`
}

type RecordResultRequest struct {
	Sets []SetScoreInput `json:"sets" binding:"required,min=1,dive"`
}

type ConfirmReservationRequest struct {
	Payed bool `json:"payed"`
}

type SetScoreResponse struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type MatchResultResponse struct {
	Sets []SetScoreResponse `json:"sets"`
}

type ClubSnapshotResponse struct {
	ClubID   string        `json:"club_id"`
	ClubName string        `json:"club_name"`
	Field    FieldResponse `json:"field"`
	Location LocationDTO   `json:"location"`
}

type ReservationResponse struct {
	ID         string               `json:"id"`
	Club       ClubSnapshotResponse `json:"club"`
	Start      time.Time            `json:"start"`
	End        time.Time            `json:"end"`
	ReservedBy string               `json:"reserved_by"`
	PriceCents int                  `json:"price_cents"`
	Status     string               `json:"status"`
	Payment    string               `json:"payment_status"`
	Players    []UserResponse       `json:"players"`
	Result     *MatchResultResponse `json:"result,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

func toFieldResponse(f domain.Field) FieldResponse {
	return FieldResponse{
		ID:         f.ID.String(),
		Name:       f.Name,
		Indoor:     f.Indoor,
		PriceCents: f.PriceCents,
	}
}

func toClubResponse(c *domain.Club) ClubResponse {
	fields := make([]FieldResponse, 0, len(c.Fields))
	for _, f := range c.Fields {
		fields = append(fields, toFieldResponse(f))
	}

	avail := make(map[string][]SlotResponse, len(c.Availability))
	for day, slots := range c.Availability {
		out := make([]SlotResponse, 0, len(slots))
		for _, s := range slots {
			out = append(out, SlotResponse{
				FieldID:    s.Field.ID.String(),
				FieldName:  s.Field.Name,
				Start:      s.Start,
				End:        s.End,
				PriceCents: s.PriceCents,
			})
		}
		avail[day] = out
	}

	return ClubResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Address:       c.Address,
		Location:      LocationDTO{Lat: c.Location.Lat, Lon: c.Location.Lon},
		Fields:        fields,
		Availability:  avail,
		AvgPriceCents: c.AvgPriceCents,
		Contacts:      ContactsDTO{Phone: c.Contacts.Phone, Email: c.Contacts.Email},
	}
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	players := make([]UserResponse, 0, len(r.Match.Players))
	for _, p := range r.Match.Players {
		players = append(players, toUserResponse(p))
	}

	var result *MatchResultResponse
	if r.Match.Result != nil {
		sets := make([]SetScoreResponse, 0, len(r.Match.Result.Sets))
		for _, s := range r.Match.Result.Sets {
			sets = append(sets, SetScoreResponse{Home: s.Home, Away: s.Away})
		}
		result = &MatchResultResponse{Sets: sets}
	}

	return ReservationResponse{
		ID: r.ID.String(),
		Club: ClubSnapshotResponse{
			ClubID:   r.Club.ClubID.String(),
			ClubName: r.Club.ClubName,
			Field:    toFieldResponse(r.Club.Field),
			Location: LocationDTO{Lat: r.Club.Location.Lat, Lon: r.Club.Location.Lon},
		},
		Start:      r.Start,
		End:        r.End,
		ReservedBy: r.ReservedBy,
		PriceCents: r.PriceCents,
		Status:     string(r.Status),
		Payment:    string(r.Payment),
		Players:    players,
		Result:     result,
		CreatedAt:  r.CreatedAt,
	}
}

func toReservationResponses(rs []domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for i := range rs {
		out = append(out, toReservationResponse(&rs[i]))
	}
	return out
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
