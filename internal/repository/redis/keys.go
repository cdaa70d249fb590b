package redis

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "matchpoint:v1"

func KeyUserByEmail(email string) string {
	return fmt.Sprintf("%s:user:email:%s", ns, email)
}

func KeyReservation(id uuid.UUID) string {
	return fmt.Sprintf("%s:reservation:%s", ns, id)
}

func KeyClub(id uuid.UUID) string {
	return fmt.Sprintf("%s:club:%s", ns, id)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelReservationsChanged() string {
	return ns + ":reservations:changed"
}
