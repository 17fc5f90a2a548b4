package service

import (
	"fmt"
	"time"

	"github.com/fraydd/cmm-sub002/internal/apierror"
)

// Every timestamp accepted from a caller arrives with its own offset
// (RFC 3339) and is normalized to UTC before persistence; read paths convert
// back to the caller-declared display zone. The round trip is lossless for
// whole seconds.

// parseFechaOpcional parses an optional RFC 3339 timestamp. Empty means "now".
func parseFechaOpcional(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q (se espera RFC 3339)", apierror.ErrValidacion, raw)
	}
	return t.UTC(), nil
}

// cargarZona resolves an IANA zone name; empty means UTC.
func cargarZona(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: zona horaria inválida %q", apierror.ErrValidacion, name)
	}
	return loc, nil
}

// ventanaUTC converts a [desde, hasta] date pair (YYYY-MM-DD, interpreted in
// loc) into the half-open UTC instant window [desde 00:00, hasta+1d 00:00).
func ventanaUTC(desde, hasta string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", desde, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha_desde inválida %q", apierror.ErrValidacion, desde)
	}
	h, err := time.ParseInLocation("2006-01-02", hasta, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha_hasta inválida %q", apierror.ErrValidacion, hasta)
	}
	if h.Before(d) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha_hasta anterior a fecha_desde", apierror.ErrValidacion)
	}
	return d.UTC(), h.AddDate(0, 0, 1).UTC(), nil
}

// formatearEn renders a stored UTC instant in the display zone.
func formatearEn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}
